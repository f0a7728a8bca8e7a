package jsonrpc

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// ErrorKind is a structured classification of a failed remote call
type ErrorKind int

const (
	// ErrorKindUnknown is an error that carries no structured information
	ErrorKindUnknown ErrorKind = iota
	// ErrorKindReverted is a protocol-level rejection of the call
	ErrorKindReverted
	// ErrorKindNetwork is a transport or connectivity failure
	ErrorKindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindReverted:
		return "reverted"
	case ErrorKindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// executionRevertedCode is the JSON-RPC error code geth-compatible nodes use for reverts
const executionRevertedCode = 3

// RevertError is returned when the node reports that execution reverted,
// either while estimating/calling or as a failed receipt status
type RevertError struct {
	// Reason is the decoded revert reason, if any
	Reason string
	// Data is the raw revert data returned by the node
	Data []byte
	// TxHash is set when the revert comes from a mined transaction
	TxHash ethgo.Hash

	cause error
}

// NewRevertError builds a revert error for a mined transaction with a failed status
func NewRevertError(txHash ethgo.Hash) *RevertError {
	return &RevertError{TxHash: txHash, Reason: "transaction status failed"}
}

func (e *RevertError) Error() string {
	msg := "execution reverted"
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}

	if e.TxHash != ethgo.ZeroHash {
		msg = fmt.Sprintf("%s (tx %s)", msg, e.TxHash)
	}

	return msg
}

func (e *RevertError) Unwrap() error {
	return e.cause
}

// ClassifyError returns the structured kind of the given error
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ErrorKindUnknown
	}

	var revertErr *RevertError
	if errors.As(err, &revertErr) {
		return ErrorKindReverted
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == executionRevertedCode {
		return ErrorKindReverted
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return ErrorKindNetwork
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrorKindNetwork
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrorKindNetwork
	}

	return ErrorKindUnknown
}

// IsRevert reports whether the error is a structured revert
func IsRevert(err error) bool {
	return ClassifyError(err) == ErrorKindReverted
}

// wrapRevert turns node errors describing a revert into *RevertError, other errors are returned as is
func wrapRevert(err error) error {
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return err
	}

	isRevert := rpcErr.ErrorCode() == executionRevertedCode ||
		strings.Contains(strings.ToLower(rpcErr.Error()), "revert")
	if !isRevert {
		return err
	}

	revertErr := &RevertError{cause: err}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if s, ok := dataErr.ErrorData().(string); ok {
			if data, decodeErr := hexutil.Decode(s); decodeErr == nil {
				revertErr.Data = data
			}
		}
	}

	if reason, ok := DecodeRevertReason(revertErr.Data); ok {
		revertErr.Reason = reason
	} else {
		reason := strings.TrimPrefix(rpcErr.Error(), "execution reverted")
		revertErr.Reason = strings.TrimPrefix(reason, ": ")
	}

	return revertErr
}
