package jsonrpc

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/Ethernal-Tech/ethgo/abi"
	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const selectorLength = 4

type customError struct {
	name string
	args *abi.Type
}

var (
	customErrorsLock sync.RWMutex
	customErrors     = map[[selectorLength]byte]customError{}
)

func init() {
	MustRegisterError("OwnableUnauthorizedAccount(address)")
	MustRegisterError("OwnableInvalidOwner(address)")
	MustRegisterError("AccessControlUnauthorizedAccount(address,bytes32)")
}

// RegisterError makes the custom solidity error with the given canonical
// signature, e.g. "OwnableUnauthorizedAccount(address)", decodable from revert data
func RegisterError(signature string) error {
	open := strings.IndexByte(signature, '(')
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		return fmt.Errorf("invalid error signature %q", signature)
	}

	args, err := abi.NewType("tuple" + signature[open:])
	if err != nil {
		return fmt.Errorf("invalid error signature %q: %w", signature, err)
	}

	var selector [selectorLength]byte

	copy(selector[:], crypto.Keccak256([]byte(signature))[:selectorLength])

	customErrorsLock.Lock()
	customErrors[selector] = customError{name: signature[:open], args: args}
	customErrorsLock.Unlock()

	return nil
}

// MustRegisterError is RegisterError that panics on an invalid signature
func MustRegisterError(signature string) {
	if err := RegisterError(signature); err != nil {
		panic(err)
	}
}

// DecodeRevertReason renders revert data as Error(string), Panic(uint256)
// or one of the registered custom errors
func DecodeRevertReason(data []byte) (string, bool) {
	if reason, err := gethabi.UnpackRevert(data); err == nil {
		return reason, true
	}

	if len(data) < selectorLength {
		return "", false
	}

	var selector [selectorLength]byte

	copy(selector[:], data[:selectorLength])

	customErrorsLock.RLock()
	custom, ok := customErrors[selector]
	customErrorsLock.RUnlock()

	if !ok {
		return "", false
	}

	elems := custom.args.TupleElems()

	decoded, err := abi.Decode(custom.args, data[selectorLength:])
	if err != nil {
		return "", false
	}

	values, ok := decoded.(map[string]interface{})
	if !ok {
		return "", false
	}

	args := make([]string, len(elems))
	for i := range elems {
		args[i] = formatArg(values[fmt.Sprint(i)])
	}

	return fmt.Sprintf("%s(%s)", custom.name, strings.Join(args, ", ")), true
}

func formatArg(v interface{}) string {
	switch x := v.(type) {
	case ethgo.Address:
		return x.String()
	case [32]byte:
		return hexutil.Encode(x[:])
	case []byte:
		return hexutil.Encode(x)
	default:
		return fmt.Sprint(x)
	}
}
