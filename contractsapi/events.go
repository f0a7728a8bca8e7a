package contractsapi

import (
	"math/big"

	"github.com/Ethernal-Tech/ethgo"
)

var (
	_ EventAbi = &MintedWithExternalURIEvent{}
	_ EventAbi = &EvolvedWithExternalURIEvent{}
	_ EventAbi = &NewCollectionEvent{}
	_ EventAbi = &OwnershipTransferredEvent{}
)

type MintedWithExternalURIEvent struct {
	To       ethgo.Address `abi:"_to"`
	Slot     *big.Int      `abi:"_slot"`
	TokenID  *big.Int      `abi:"_tokenId"`
	TokenURI string        `abi:"_tokenURI"`
}

func (*MintedWithExternalURIEvent) Sig() ethgo.Hash {
	return EvolutionCollectionABI.Events[eventMintedWithExternalURI].ID()
}

func (m *MintedWithExternalURIEvent) ParseLog(log *ethgo.Log) (bool, error) {
	return decodeEvent(EvolutionCollectionABI.Events[eventMintedWithExternalURI], log, m)
}

type EvolvedWithExternalURIEvent struct {
	TokenID  *big.Int `abi:"_tokenId"`
	TokenURI string   `abi:"_tokenURI"`
}

func (*EvolvedWithExternalURIEvent) Sig() ethgo.Hash {
	return EvolutionCollectionABI.Events[eventEvolvedWithExternalURI].ID()
}

func (e *EvolvedWithExternalURIEvent) ParseLog(log *ethgo.Log) (bool, error) {
	return decodeEvent(EvolutionCollectionABI.Events[eventEvolvedWithExternalURI], log, e)
}

type NewCollectionEvent struct {
	Owner             ethgo.Address `abi:"_owner"`
	CollectionAddress ethgo.Address `abi:"_collectionAddress"`
}

func (*NewCollectionEvent) Sig() ethgo.Hash {
	return EvolutionCollectionFactoryABI.Events[eventNewCollection].ID()
}

func (n *NewCollectionEvent) ParseLog(log *ethgo.Log) (bool, error) {
	return decodeEvent(EvolutionCollectionFactoryABI.Events[eventNewCollection], log, n)
}

type OwnershipTransferredEvent struct {
	PreviousOwner ethgo.Address `abi:"previousOwner"`
	NewOwner      ethgo.Address `abi:"newOwner"`
}

func (*OwnershipTransferredEvent) Sig() ethgo.Hash {
	return EvolutionCollectionABI.Events[eventOwnershipTransferred].ID()
}

func (o *OwnershipTransferredEvent) ParseLog(log *ethgo.Log) (bool, error) {
	return decodeEvent(EvolutionCollectionABI.Events[eventOwnershipTransferred], log, o)
}
