package contractsapi

import (
	"bytes"
	"fmt"
	"math/big"
	"reflect"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/Ethernal-Tech/ethgo/abi"
	"github.com/mitchellh/mapstructure"
)

const abiMethodIDLength = 4

// ABIEncoder declares functions that are encoding and decoding data to/from ABI format
type ABIEncoder interface {
	// EncodeAbi contains logic for encoding arbitrary data into ABI format
	EncodeAbi() ([]byte, error)
	// DecodeAbi contains logic for decoding given ABI data
	DecodeAbi(b []byte) error
}

// FunctionAbi is an interface representing a contract function call
type FunctionAbi interface {
	ABIEncoder
	// Sig returns the function selector
	Sig() []byte
}

// EventAbi is an interface representing a contract event
type EventAbi interface {
	// Sig returns the event ID (topic 0)
	Sig() ethgo.Hash
	// ParseLog parses the provided receipt log into the event. It returns false if the log is not of this event type.
	ParseLog(log *ethgo.Log) (bool, error)
}

func mustNewABI(signatures []string) *abi.ABI {
	a, err := abi.NewABIFromList(signatures)
	if err != nil {
		panic(fmt.Sprintf("invalid abi: %v", err))
	}

	return a
}

// encodeMethod encodes a call to method with the arguments held by fn, or only its selector if it takes none
func encodeMethod(method *abi.Method, fn interface{}) ([]byte, error) {
	if len(method.Inputs.TupleElems()) == 0 {
		return method.ID(), nil
	}

	return method.Encode(fn)
}

func decodeMethod(method *abi.Method, input []byte, out interface{}) error {
	if len(input) < abiMethodIDLength {
		return fmt.Errorf("invalid method data, len = %d", len(input))
	}

	sig := method.ID()
	if !bytes.HasPrefix(input, sig) {
		return fmt.Errorf("prefix is not correct")
	}

	if len(method.Inputs.TupleElems()) == 0 {
		return nil
	}

	val, err := abi.Decode(method.Inputs, input[abiMethodIDLength:])
	if err != nil {
		return err
	}

	return decodeImpl(val, out)
}

func decodeEvent(event *abi.Event, log *ethgo.Log, out interface{}) (bool, error) {
	if len(log.Topics) == 0 || log.Topics[0] != event.ID() {
		return false, nil
	}

	val, err := event.ParseLog(log)
	if err != nil {
		return false, err
	}

	return true, decodeImpl(val, out)
}

func decodeImpl(input interface{}, out interface{}) error {
	metadata := &mapstructure.Metadata{}
	dc := &mapstructure.DecoderConfig{
		Result:     out,
		TagName:    "abi",
		Metadata:   metadata,
		DecodeHook: customHook,
	}

	ms, err := mapstructure.NewDecoder(dc)
	if err != nil {
		return err
	}

	if err = ms.Decode(input); err != nil {
		return err
	}

	if len(metadata.Unused) != 0 {
		return fmt.Errorf("some keys not used: %v", metadata.Unused)
	}

	return nil
}

var bigTyp = reflect.TypeOf(new(big.Int))

func customHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if f == bigTyp && t.Kind() == reflect.Uint64 {
		// convert big.Int to uint64 (if possible)
		b, ok := data.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("data not a big.Int")
		}

		if !b.IsUint64() {
			return nil, fmt.Errorf("cannot format big.Int to uint64")
		}

		return b.Uint64(), nil
	}

	return data, nil
}
