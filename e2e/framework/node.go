package framework

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync/atomic"
	"time"
)

const (
	numberOfInterruptsOnForceStop  = 5
	shutdownGracePeriodOnForceStop = 10 * time.Second

	ExecutionStatusRunning  = 0
	ExecutionStatusFinished = 1
	ExecutionStatusSignaled = 2
)

var errNodeNotStarted = errors.New("node process not started")

// Node is a locally spawned chain process
type Node struct {
	cmd             *exec.Cmd
	process         *os.Process
	doneCh          chan struct{}
	exitResult      *ExitResult
	shouldForceStop bool
	executionStatus int32
}

// ExitResult describes how the node process terminated
type ExitResult struct {
	Signaled bool
	Err      error
}

// NewNode starts binary with args, writing both output streams to stdout
func NewNode(binary string, args []string, stdout io.Writer) (*Node, error) {
	return newNode(exec.Command(binary, args...), stdout)
}

// NewNodeWithContext starts the node and stops it once ctx is done
func NewNodeWithContext(ctx context.Context, binary string, args []string, stdout io.Writer) (*Node, error) {
	node, err := newNode(exec.Command(binary, args...), stdout)
	if err != nil {
		return nil, err
	}

	go func() {
		select {
		case <-ctx.Done():
			_ = node.Stop()
		case <-node.Wait():
		}
	}()

	return node, nil
}

func newNode(cmd *exec.Cmd, stdout io.Writer) (*Node, error) {
	if stdout == nil {
		stdout = io.Discard
	}

	cmd.Stdout = stdout
	cmd.Stderr = stdout

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	n := &Node{
		cmd:     cmd,
		process: cmd.Process,
		doneCh:  make(chan struct{}),
	}
	go n.run()

	return n, nil
}

func (n *Node) SetShouldForceStop(shouldForceStop bool) {
	n.shouldForceStop = shouldForceStop
}

// ExitResult is nil while the process runs
func (n *Node) ExitResult() *ExitResult {
	select {
	case <-n.doneCh:
		return n.exitResult
	default:
		return nil
	}
}

// Wait is closed when the process exits
func (n *Node) Wait() <-chan struct{} {
	return n.doneCh
}

func (n *Node) run() {
	err := n.cmd.Wait()

	notSignaled := atomic.CompareAndSwapInt32(&n.executionStatus, ExecutionStatusRunning, ExecutionStatusFinished)
	n.exitResult = &ExitResult{
		Signaled: !notSignaled,
		Err:      err,
	}
	close(n.doneCh)
}

func (n *Node) IsShuttingDown() bool {
	return atomic.LoadInt32(&n.executionStatus) != ExecutionStatusRunning
}

// Stop interrupts the process and waits for it to exit
func (n *Node) Stop() error {
	if n.process == nil {
		return errNodeNotStarted
	}

	if !atomic.CompareAndSwapInt32(&n.executionStatus, ExecutionStatusRunning, ExecutionStatusSignaled) {
		// already stopped
		return nil
	}

	if err := n.process.Signal(os.Interrupt); err != nil {
		return err
	}

	if !n.shouldForceStop {
		<-n.Wait()

		return nil
	}

	select {
	case <-n.Wait():
	case <-time.After(shutdownGracePeriodOnForceStop):
		for i := 0; i < numberOfInterruptsOnForceStop; i++ {
			_ = n.process.Signal(os.Interrupt)
		}

		select {
		case <-n.Wait():
		case <-time.After(shutdownGracePeriodOnForceStop):
			_ = n.process.Kill()

			<-n.Wait()
		}
	}

	return nil
}
