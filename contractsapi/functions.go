package contractsapi

import (
	"math/big"

	"github.com/Ethernal-Tech/ethgo"
)

var (
	_ FunctionAbi = &MintWithExternalURIFn{}
	_ FunctionAbi = &MintWithExternalURIBatchFn{}
	_ FunctionAbi = &EvolveWithExternalURIFn{}
	_ FunctionAbi = &EvolveWithExternalURIBatchFn{}
	_ FunctionAbi = &TransferOwnershipFn{}
	_ FunctionAbi = &TransferBatchMinterOwnershipFn{}
	_ FunctionAbi = &TransferPublicMinterOwnershipFn{}
	_ FunctionAbi = &SetPrecompileAddressFn{}
	_ FunctionAbi = &CreateCollectionFn{}
	_ FunctionAbi = &EnablePublicMintingFn{}
	_ FunctionAbi = &DisablePublicMintingFn{}
	_ FunctionAbi = &GrantRoleFn{}
	_ FunctionAbi = &RevokeRoleFn{}
	_ FunctionAbi = &MintToFn{}
	_ FunctionAbi = &TransferFromFn{}
)

type MintWithExternalURIFn struct {
	To       ethgo.Address `abi:"_to"`
	Slot     *big.Int      `abi:"_slot"`
	TokenURI string        `abi:"_tokenURI"`
}

func (m *MintWithExternalURIFn) Sig() []byte {
	return EvolutionCollectionABI.Methods["mintWithExternalURI"].ID()
}

func (m *MintWithExternalURIFn) EncodeAbi() ([]byte, error) {
	return EvolutionCollectionABI.Methods["mintWithExternalURI"].Encode(m)
}

func (m *MintWithExternalURIFn) DecodeAbi(buf []byte) error {
	return decodeMethod(EvolutionCollectionABI.Methods["mintWithExternalURI"], buf, m)
}

type MintWithExternalURIBatchFn struct {
	To       []ethgo.Address `abi:"_to"`
	Slot     []*big.Int      `abi:"_slot"`
	TokenURI []string        `abi:"_tokenURI"`
}

func (m *MintWithExternalURIBatchFn) Sig() []byte {
	return BatchMinterABI.Methods["mintWithExternalURIBatch"].ID()
}

func (m *MintWithExternalURIBatchFn) EncodeAbi() ([]byte, error) {
	return BatchMinterABI.Methods["mintWithExternalURIBatch"].Encode(m)
}

func (m *MintWithExternalURIBatchFn) DecodeAbi(buf []byte) error {
	return decodeMethod(BatchMinterABI.Methods["mintWithExternalURIBatch"], buf, m)
}

type EvolveWithExternalURIFn struct {
	TokenID  *big.Int `abi:"_tokenId"`
	TokenURI string   `abi:"_tokenURI"`
}

func (e *EvolveWithExternalURIFn) Sig() []byte {
	return EvolutionCollectionABI.Methods["evolveWithExternalURI"].ID()
}

func (e *EvolveWithExternalURIFn) EncodeAbi() ([]byte, error) {
	return EvolutionCollectionABI.Methods["evolveWithExternalURI"].Encode(e)
}

func (e *EvolveWithExternalURIFn) DecodeAbi(buf []byte) error {
	return decodeMethod(EvolutionCollectionABI.Methods["evolveWithExternalURI"], buf, e)
}

type EvolveWithExternalURIBatchFn struct {
	TokenID  []*big.Int `abi:"_tokenId"`
	TokenURI []string   `abi:"_tokenURI"`
}

func (e *EvolveWithExternalURIBatchFn) Sig() []byte {
	return BatchMinterABI.Methods["evolveWithExternalURIBatch"].ID()
}

func (e *EvolveWithExternalURIBatchFn) EncodeAbi() ([]byte, error) {
	return BatchMinterABI.Methods["evolveWithExternalURIBatch"].Encode(e)
}

func (e *EvolveWithExternalURIBatchFn) DecodeAbi(buf []byte) error {
	return decodeMethod(BatchMinterABI.Methods["evolveWithExternalURIBatch"], buf, e)
}

type TransferOwnershipFn struct {
	NewOwner ethgo.Address `abi:"_newOwner"`
}

func (t *TransferOwnershipFn) Sig() []byte {
	return EvolutionCollectionABI.Methods["transferOwnership"].ID()
}

func (t *TransferOwnershipFn) EncodeAbi() ([]byte, error) {
	return EvolutionCollectionABI.Methods["transferOwnership"].Encode(t)
}

func (t *TransferOwnershipFn) DecodeAbi(buf []byte) error {
	return decodeMethod(EvolutionCollectionABI.Methods["transferOwnership"], buf, t)
}

type TransferBatchMinterOwnershipFn struct {
	NewOwner ethgo.Address `abi:"_newOwner"`
}

func (t *TransferBatchMinterOwnershipFn) Sig() []byte {
	return BatchMinterABI.Methods["transferBatchMinterOwnership"].ID()
}

func (t *TransferBatchMinterOwnershipFn) EncodeAbi() ([]byte, error) {
	return BatchMinterABI.Methods["transferBatchMinterOwnership"].Encode(t)
}

func (t *TransferBatchMinterOwnershipFn) DecodeAbi(buf []byte) error {
	return decodeMethod(BatchMinterABI.Methods["transferBatchMinterOwnership"], buf, t)
}

type TransferPublicMinterOwnershipFn struct {
	NewOwner ethgo.Address `abi:"_newOwner"`
}

func (t *TransferPublicMinterOwnershipFn) Sig() []byte {
	return PublicMinterABI.Methods["transferPublicMinterOwnership"].ID()
}

func (t *TransferPublicMinterOwnershipFn) EncodeAbi() ([]byte, error) {
	return PublicMinterABI.Methods["transferPublicMinterOwnership"].Encode(t)
}

func (t *TransferPublicMinterOwnershipFn) DecodeAbi(buf []byte) error {
	return decodeMethod(PublicMinterABI.Methods["transferPublicMinterOwnership"], buf, t)
}

type SetPrecompileAddressFn struct {
	NewAddress ethgo.Address `abi:"_newAddress"`
}

func (s *SetPrecompileAddressFn) Sig() []byte {
	return BatchMinterABI.Methods["setPrecompileAddress"].ID()
}

func (s *SetPrecompileAddressFn) EncodeAbi() ([]byte, error) {
	return BatchMinterABI.Methods["setPrecompileAddress"].Encode(s)
}

func (s *SetPrecompileAddressFn) DecodeAbi(buf []byte) error {
	return decodeMethod(BatchMinterABI.Methods["setPrecompileAddress"], buf, s)
}

type CreateCollectionFn struct {
	Owner ethgo.Address `abi:"_owner"`
}

func (c *CreateCollectionFn) Sig() []byte {
	return EvolutionCollectionFactoryABI.Methods["createCollection"].ID()
}

func (c *CreateCollectionFn) EncodeAbi() ([]byte, error) {
	return EvolutionCollectionFactoryABI.Methods["createCollection"].Encode(c)
}

func (c *CreateCollectionFn) DecodeAbi(buf []byte) error {
	return decodeMethod(EvolutionCollectionFactoryABI.Methods["createCollection"], buf, c)
}

type EnablePublicMintingFn struct{}

func (e *EnablePublicMintingFn) Sig() []byte {
	return PublicMinterABI.Methods["enablePublicMinting"].ID()
}

func (e *EnablePublicMintingFn) EncodeAbi() ([]byte, error) {
	return encodeMethod(PublicMinterABI.Methods["enablePublicMinting"], e)
}

func (e *EnablePublicMintingFn) DecodeAbi(buf []byte) error {
	return decodeMethod(PublicMinterABI.Methods["enablePublicMinting"], buf, e)
}

type DisablePublicMintingFn struct{}

func (d *DisablePublicMintingFn) Sig() []byte {
	return PublicMinterABI.Methods["disablePublicMinting"].ID()
}

func (d *DisablePublicMintingFn) EncodeAbi() ([]byte, error) {
	return encodeMethod(PublicMinterABI.Methods["disablePublicMinting"], d)
}

func (d *DisablePublicMintingFn) DecodeAbi(buf []byte) error {
	return decodeMethod(PublicMinterABI.Methods["disablePublicMinting"], buf, d)
}

type GrantRoleFn struct {
	Role    [32]byte      `abi:"_role"`
	Account ethgo.Address `abi:"_account"`
}

func (g *GrantRoleFn) Sig() []byte {
	return MinterControlledABI.Methods["grantRole"].ID()
}

func (g *GrantRoleFn) EncodeAbi() ([]byte, error) {
	return MinterControlledABI.Methods["grantRole"].Encode(g)
}

func (g *GrantRoleFn) DecodeAbi(buf []byte) error {
	return decodeMethod(MinterControlledABI.Methods["grantRole"], buf, g)
}

type RevokeRoleFn struct {
	Role    [32]byte      `abi:"_role"`
	Account ethgo.Address `abi:"_account"`
}

func (r *RevokeRoleFn) Sig() []byte {
	return MinterControlledABI.Methods["revokeRole"].ID()
}

func (r *RevokeRoleFn) EncodeAbi() ([]byte, error) {
	return MinterControlledABI.Methods["revokeRole"].Encode(r)
}

func (r *RevokeRoleFn) DecodeAbi(buf []byte) error {
	return decodeMethod(MinterControlledABI.Methods["revokeRole"], buf, r)
}

type MintToFn struct {
	To       ethgo.Address `abi:"_to"`
	TokenURI string        `abi:"_tokenURI"`
}

func (m *MintToFn) Sig() []byte {
	return BatchMinterABI.Methods["mintTo"].ID()
}

func (m *MintToFn) EncodeAbi() ([]byte, error) {
	return BatchMinterABI.Methods["mintTo"].Encode(m)
}

func (m *MintToFn) DecodeAbi(buf []byte) error {
	return decodeMethod(BatchMinterABI.Methods["mintTo"], buf, m)
}

type TransferFromFn struct {
	From    ethgo.Address `abi:"_from"`
	To      ethgo.Address `abi:"_to"`
	TokenID *big.Int      `abi:"_tokenId"`
}

func (t *TransferFromFn) Sig() []byte {
	return BatchMinterABI.Methods["transferFrom"].ID()
}

func (t *TransferFromFn) EncodeAbi() ([]byte, error) {
	return BatchMinterABI.Methods["transferFrom"].Encode(t)
}

func (t *TransferFromFn) DecodeAbi(buf []byte) error {
	return decodeMethod(BatchMinterABI.Methods["transferFrom"], buf, t)
}
