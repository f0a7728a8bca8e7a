package command

import (
	"bytes"
	"io"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
)

// OutputFormatter is the standardized interface all output formatters should use
type OutputFormatter interface {
	// SetError sets the encountered error
	SetError(err error)
	// SetCommandResult sets the final result of the command
	SetCommandResult(result CommandResult)
	// WriteCommandResult writes an intermediate result right away
	WriteCommandResult(result CommandResult)
	// WriteOutput writes the previously set result or error
	WriteOutput()
	// Write lets the formatter act as the progress writer of other components
	Write(p []byte) (n int, err error)
	// Failed reports whether an error was set
	Failed() bool
}

// CommandResult is a printable command outcome
type CommandResult interface {
	GetOutput() string
}

// Results is a list of results printed one after another
type Results []CommandResult

func (r Results) GetOutput() string {
	var buffer bytes.Buffer

	for _, result := range r {
		buffer.WriteString(result.GetOutput())
	}

	return buffer.String()
}

// MessageResult is a single line result
type MessageResult struct {
	Message string `json:"message"`
}

func (r MessageResult) GetOutput() string {
	return r.Message + "\n"
}

// InitializeOutputter creates the outputter selected by the --json flag, writing to stdout
func InitializeOutputter(cmd *cobra.Command) OutputFormatter {
	return NewOutputter(shouldOutputJSON(cmd), os.Stdout, os.Stderr)
}

// NewOutputter creates a JSON or a CLI outputter writing results to out and errors to errOut
func NewOutputter(asJSON bool, out, errOut io.Writer) OutputFormatter {
	if asJSON {
		return newJSONOutput(out, errOut)
	}

	return newCLIOutput(out, errOut)
}

func shouldOutputJSON(cmd *cobra.Command) bool {
	flag := cmd.Flag(JSONOutputFlag)
	if flag == nil {
		return false
	}

	return flag.Changed && flag.Value.String() == "true"
}

// failed records whether any outputter of the process was given an error
var failed atomic.Bool

// ExitCode returns the process exit code matching the errors reported so far
func ExitCode() int {
	if failed.Load() {
		return 1
	}

	return 0
}

type commonOutputFormatter struct {
	errorOutput   error
	commandOutput CommandResult
}

func (c *commonOutputFormatter) SetError(err error) {
	c.errorOutput = err

	if err != nil {
		failed.Store(true)
	}
}

func (c *commonOutputFormatter) SetCommandResult(result CommandResult) {
	c.commandOutput = result
}

func (c *commonOutputFormatter) Failed() bool {
	return c.errorOutput != nil
}
