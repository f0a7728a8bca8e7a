package contracts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Ethernal-Tech/ethgo/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	jsoniter "github.com/json-iterator/go"
)

// ErrArtifactNotFound is returned when no artifact file exists for a contract
var ErrArtifactNotFound = errors.New("artifact not found")

// Artifact is a compiled contract
type Artifact struct {
	Abi              *abi.ABI
	Bytecode         []byte
	DeployedBytecode []byte
}

// HexArtifact is the on-disk representation of a compiled contract,
// as produced by hardhat and truffle
type HexArtifact struct {
	ContractName     string              `json:"contractName"`
	Bytecode         string              `json:"bytecode"`
	DeployedBytecode string              `json:"deployedBytecode"`
	Abi              jsoniter.RawMessage `json:"abi"`
}

// DecodeArtifact unmarshals an artifact from its JSON representation
func DecodeArtifact(data []byte) (*Artifact, error) {
	var hexRes HexArtifact
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &hexRes); err != nil {
		return nil, fmt.Errorf("artifact found but no correct format: %w", err)
	}

	if hexRes.Bytecode == "" || hexRes.Bytecode == "0x" {
		return nil, fmt.Errorf("artifact %s has no bytecode", hexRes.ContractName)
	}

	bytecode, err := hexutil.Decode(hexRes.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bytecode: %w", err)
	}

	var deployedBytecode []byte

	if hexRes.DeployedBytecode != "" && hexRes.DeployedBytecode != "0x" {
		if deployedBytecode, err = hexutil.Decode(hexRes.DeployedBytecode); err != nil {
			return nil, fmt.Errorf("failed to decode deployed bytecode: %w", err)
		}
	}

	artifact := &Artifact{
		Bytecode:         bytecode,
		DeployedBytecode: deployedBytecode,
	}

	if len(hexRes.Abi) > 0 {
		if artifact.Abi, err = abi.NewABI(string(hexRes.Abi)); err != nil {
			return nil, fmt.Errorf("failed to decode abi: %w", err)
		}
	}

	return artifact, nil
}

// ArtifactPaths lists the locations searched for a contract artifact under dir:
// a flat layout, the hardhat layout and the truffle layout
func ArtifactPaths(dir, name string) []string {
	file := name + ".json"

	return []string{
		filepath.Join(dir, file),
		filepath.Join(dir, "contracts", name+".sol", file),
		filepath.Join(dir, "build", "contracts", file),
	}
}

// ReadArtifact reads the artifact of the named contract from dir
func ReadArtifact(dir, name string) (*Artifact, error) {
	for _, path := range ArtifactPaths(dir, name) {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}

			return nil, err
		}

		artifact, err := DecodeArtifact(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		return artifact, nil
	}

	return nil, fmt.Errorf("%w: %s in %s", ErrArtifactNotFound, name, dir)
}
