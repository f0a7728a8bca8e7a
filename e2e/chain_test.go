package e2e

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/Ethernal-Tech/ethgo/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/contractsapi"
	"github.com/freeverseio/laos-minters/jsonrpc"
	"github.com/freeverseio/laos-minters/tokenid"
	"github.com/freeverseio/laos-minters/txrelayer"
	"github.com/holiman/uint256"
)

var (
	minterRole = [32]byte(crypto.Keccak256([]byte("MINTER_ROLE")))
	adminRole  = [32]byte{}

	mintedDataType   = abi.MustNewType("tuple(uint96,uint256,string)")
	evolvedDataType  = abi.MustNewType("tuple(string)")
	newCollectionTyp = abi.MustNewType("tuple(address)")
)

type fakeCollection struct {
	owner  ethgo.Address
	tokens map[string]string
}

type fakeMinter struct {
	kind          contracts.Kind
	owner         ethgo.Address
	precompile    ethgo.Address
	publicEnabled bool
	roles         map[[32]byte]map[ethgo.Address]bool
}

// fakeChain emulates the LAOS collection precompiles and the minter contracts in memory
type fakeChain struct {
	lock sync.Mutex

	artifacts   map[contracts.Kind]*contracts.Artifact
	collections map[ethgo.Address]*fakeCollection
	minters     map[ethgo.Address]*fakeMinter

	nextCollection uint64
	nonce          uint64
	transfers      int

	// permissive accepts every transaction, as a chain that never enforces ownership would
	permissive bool
}

var _ txrelayer.TxRelayer = (*fakeChain)(nil)

func newFakeChain() *fakeChain {
	c := &fakeChain{
		artifacts:   map[contracts.Kind]*contracts.Artifact{},
		collections: map[ethgo.Address]*fakeCollection{},
		minters:     map[ethgo.Address]*fakeMinter{},
	}

	for i, kind := range contracts.Kinds() {
		c.artifacts[kind] = &contracts.Artifact{Bytecode: []byte{0x60, 0x80, 0x60, 0x40, byte(i + 1)}}
	}

	return c
}

func (c *fakeChain) loader(kind contracts.Kind) (*contracts.Artifact, error) {
	artifact, ok := c.artifacts[kind]
	if !ok {
		return nil, contracts.ErrArtifactNotFound
	}

	return artifact, nil
}

func (c *fakeChain) Client() *jsonrpc.EthClient {
	return nil
}

func (c *fakeChain) Call(_ context.Context, _ ethgo.Address, to ethgo.Address, input []byte) ([]byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if col, ok := c.collections[to]; ok {
		method, args, err := decodeInput(contractsapi.EvolutionCollectionABI, input)
		if err != nil {
			return nil, err
		}

		switch method.Name {
		case "owner":
			return encodeOutput(method, col.owner)
		case "tokenURI":
			return encodeOutput(method, col.tokens[bigArg(args, "_tokenId").String()])
		}

		return nil, fmt.Errorf("unsupported collection view %s", method.Name)
	}

	m, ok := c.minters[to]
	if !ok {
		return nil, fmt.Errorf("no contract at %s", to)
	}

	method, args, err := decodeInput(minterABI(m.kind), input)
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case "owner":
		return encodeOutput(method, c.collections[m.precompile].owner)
	case "precompileAddress":
		return encodeOutput(method, m.precompile)
	case "batchMinterOwner", "publicMinterOwner":
		return encodeOutput(method, m.owner)
	case "isPublicMintingEnabled":
		return encodeOutput(method, m.publicEnabled)
	case "MINTER_ROLE":
		return encodeOutput(method, minterRole)
	case "DEFAULT_ADMIN_ROLE":
		return encodeOutput(method, adminRole)
	case "hasRole":
		role, _ := args["_role"].([32]byte)
		account, _ := args["_account"].(ethgo.Address)

		return encodeOutput(method, m.roles[role][account])
	}

	return nil, fmt.Errorf("unsupported minter view %s", method.Name)
}

func (c *fakeChain) SendTransaction(
	_ context.Context, txn *txrelayer.Transaction, sender txrelayer.Signer,
) (*types.Receipt, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.nonce++

	receipt := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      common.BigToHash(new(big.Int).SetUint64(c.nonce)),
		BlockNumber: new(big.Int).SetUint64(c.nonce),
		GasUsed:     21000,
	}

	var err error

	switch {
	case txn.To == nil:
		err = c.deploy(txn.Input, receipt)
	case *txn.To == contracts.EvolutionCollectionFactoryPrecompile:
		err = c.createCollection(txn.Input, receipt)
	case c.collections[*txn.To] != nil:
		err = c.collectionTx(*txn.To, sender.Address(), txn.Input, receipt)
	case c.minters[*txn.To] != nil:
		err = c.minterTx(*txn.To, sender.Address(), txn.Input, receipt)
	case len(txn.Input) == 0:
		c.transfers++
	default:
		err = fmt.Errorf("no contract at %s", *txn.To)
	}

	var revertErr *jsonrpc.RevertError
	if errors.As(err, &revertErr) {
		receipt.Status = types.ReceiptStatusFailed
		receipt.Logs = nil
	}

	return receipt, err
}

func (c *fakeChain) newCollection(owner ethgo.Address) ethgo.Address {
	c.nextCollection++
	address := contracts.CollectionAddress(c.nextCollection)
	c.collections[address] = &fakeCollection{owner: owner, tokens: map[string]string{}}

	return address
}

func (c *fakeChain) deploy(input []byte, receipt *types.Receipt) error {
	for kind, artifact := range c.artifacts {
		if !bytes.HasPrefix(input, artifact.Bytecode) || len(input) != len(artifact.Bytecode)+32 {
			continue
		}

		var owner, address ethgo.Address

		copy(owner[:], input[len(input)-20:])
		copy(address[:], crypto.Keccak256(receipt.TxHash[:])[12:])

		m := &fakeMinter{
			kind:       kind,
			owner:      owner,
			precompile: c.newCollection(address),
			roles: map[[32]byte]map[ethgo.Address]bool{
				adminRole:  {owner: true},
				minterRole: {},
			},
		}
		c.minters[address] = m
		receipt.ContractAddress = common.Address(address)

		return nil
	}

	return errors.New("unknown bytecode")
}

func (c *fakeChain) createCollection(input []byte, receipt *types.Receipt) error {
	_, args, err := decodeInput(contractsapi.EvolutionCollectionFactoryABI, input)
	if err != nil {
		return err
	}

	owner, _ := args["_owner"].(ethgo.Address)
	address := c.newCollection(owner)

	data, err := newCollectionTyp.Encode([]interface{}{address})
	if err != nil {
		return err
	}

	receipt.Logs = append(receipt.Logs, &types.Log{
		Address: common.Address(contracts.EvolutionCollectionFactoryPrecompile),
		Topics: []common.Hash{
			common.Hash(new(contractsapi.NewCollectionEvent).Sig()),
			common.BytesToHash(owner[:]),
		},
		Data: data,
	})

	return nil
}

func (c *fakeChain) collectionTx(address, sender ethgo.Address, input []byte, receipt *types.Receipt) error {
	method, args, err := decodeInput(contractsapi.EvolutionCollectionABI, input)
	if err != nil {
		return err
	}

	col := c.collections[address]
	if !c.permissive && sender != col.owner {
		return unauthorized(sender)
	}

	switch method.Name {
	case "mintWithExternalURI":
		to, _ := args["_to"].(ethgo.Address)

		return c.mint(address, to, bigArg(args, "_slot"), args["_tokenURI"].(string), receipt) //nolint:forcetypeassert
	case "evolveWithExternalURI":
		return c.evolve(address, bigArg(args, "_tokenId"), args["_tokenURI"].(string), receipt) //nolint:forcetypeassert
	case "transferOwnership":
		col.owner, _ = args["_newOwner"].(ethgo.Address)

		return nil
	}

	return fmt.Errorf("unsupported collection method %s", method.Name)
}

//nolint:forcetypeassert
func (c *fakeChain) minterTx(address, sender ethgo.Address, input []byte, receipt *types.Receipt) error {
	m := c.minters[address]

	method, args, err := decodeInput(minterABI(m.kind), input)
	if err != nil {
		return err
	}

	isOwner := c.permissive || sender == m.owner
	isAdmin := c.permissive || m.roles[adminRole][sender]

	if m.kind.IsBatchMinter() || m.kind.IsPublicMinter() {
		isAdmin = isOwner
	}

	// the minter acts on the collection only while owning it
	col := c.collections[m.precompile]
	if col == nil || (!c.permissive && col.owner != address) {
		switch method.Name {
		case "mintWithExternalURI", "mintWithExternalURIBatch", "evolveWithExternalURI",
			"evolveWithExternalURIBatch", "transferOwnership", "mintTo":
			return unauthorized(address)
		}
	}

	switch method.Name {
	case "mintWithExternalURI":
		if !c.canMint(m, sender) {
			return unauthorized(sender)
		}

		return c.mint(m.precompile, args["_to"].(ethgo.Address), bigArg(args, "_slot"),
			args["_tokenURI"].(string), receipt)
	case "mintWithExternalURIBatch":
		if !isOwner {
			return unauthorized(sender)
		}

		owners := args["_to"].([]ethgo.Address)
		slots := args["_slot"].([]*big.Int)
		uris := args["_tokenURI"].([]string)

		for i := range owners {
			if err := c.mint(m.precompile, owners[i], slots[i], uris[i], receipt); err != nil {
				return err
			}
		}

		return nil
	case "evolveWithExternalURI":
		if !c.canMint(m, sender) {
			return unauthorized(sender)
		}

		return c.evolve(m.precompile, bigArg(args, "_tokenId"), args["_tokenURI"].(string), receipt)
	case "evolveWithExternalURIBatch":
		if !isOwner {
			return unauthorized(sender)
		}

		ids := args["_tokenId"].([]*big.Int)
		uris := args["_tokenURI"].([]string)

		for i := range ids {
			if err := c.evolve(m.precompile, ids[i], uris[i], receipt); err != nil {
				return err
			}
		}

		return nil
	case "mintTo":
		if !isOwner {
			return unauthorized(sender)
		}

		return c.mint(m.precompile, args["_to"].(ethgo.Address), new(big.Int).SetUint64(c.nonce),
			args["_tokenURI"].(string), receipt)
	case "transferFrom":
		return &jsonrpc.RevertError{Reason: "transfers disabled"}
	case "transferOwnership":
		if !isAdmin {
			return unauthorized(sender)
		}

		col.owner = args["_newOwner"].(ethgo.Address)
	case "transferBatchMinterOwnership", "transferPublicMinterOwnership":
		if !isOwner {
			return unauthorized(sender)
		}

		m.owner = args["_newOwner"].(ethgo.Address)
	case "setPrecompileAddress":
		if !isAdmin {
			return unauthorized(sender)
		}

		m.precompile = args["_newAddress"].(ethgo.Address)
	case "enablePublicMinting", "disablePublicMinting":
		if !isOwner {
			return unauthorized(sender)
		}

		m.publicEnabled = method.Name == "enablePublicMinting"
	case "grantRole", "revokeRole":
		if !isAdmin {
			return unauthorized(sender)
		}

		role := args["_role"].([32]byte)
		account := args["_account"].(ethgo.Address)

		if m.roles[role] == nil {
			m.roles[role] = map[ethgo.Address]bool{}
		}

		m.roles[role][account] = method.Name == "grantRole"
	default:
		return fmt.Errorf("unsupported minter method %s", method.Name)
	}

	return nil
}

func (c *fakeChain) canMint(m *fakeMinter, sender ethgo.Address) bool {
	switch {
	case c.permissive:
		return true
	case m.kind == contracts.PublicMinterMinimal:
		return true
	case m.kind == contracts.PublicMinter:
		return m.publicEnabled || sender == m.owner
	case m.kind == contracts.MinterControlled:
		return m.roles[minterRole][sender]
	default:
		return sender == m.owner
	}
}

func (c *fakeChain) mint(collection, to ethgo.Address, slot *big.Int, uri string, receipt *types.Receipt) error {
	s, _ := uint256.FromBig(slot)

	id, err := tokenid.Compute(to, s)
	if err != nil {
		return err
	}

	c.collections[collection].tokens[id.ToBig().String()] = uri

	data, err := mintedDataType.Encode([]interface{}{slot, id.ToBig(), uri})
	if err != nil {
		return err
	}

	receipt.Logs = append(receipt.Logs, &types.Log{
		Address: common.Address(collection),
		Topics: []common.Hash{
			common.Hash(new(contractsapi.MintedWithExternalURIEvent).Sig()),
			common.BytesToHash(to[:]),
		},
		Data: data,
	})

	return nil
}

func (c *fakeChain) evolve(collection ethgo.Address, id *big.Int, uri string, receipt *types.Receipt) error {
	tokens := c.collections[collection].tokens
	if _, ok := tokens[id.String()]; !ok {
		return &jsonrpc.RevertError{Reason: "token does not exist"}
	}

	tokens[id.String()] = uri

	data, err := evolvedDataType.Encode([]interface{}{uri})
	if err != nil {
		return err
	}

	receipt.Logs = append(receipt.Logs, &types.Log{
		Address: common.Address(collection),
		Topics: []common.Hash{
			common.Hash(new(contractsapi.EvolvedWithExternalURIEvent).Sig()),
			common.BigToHash(id),
		},
		Data: data,
	})

	return nil
}

func minterABI(kind contracts.Kind) *abi.ABI {
	switch {
	case kind.IsBatchMinter():
		return contractsapi.BatchMinterABI
	case kind.IsPublicMinter():
		return contractsapi.PublicMinterABI
	default:
		return contractsapi.MinterControlledABI
	}
}

func decodeInput(contractABI *abi.ABI, input []byte) (*abi.Method, map[string]interface{}, error) {
	if len(input) < 4 {
		return nil, nil, errors.New("input too short")
	}

	for _, method := range contractABI.Methods {
		if !bytes.Equal(method.ID(), input[:4]) {
			continue
		}

		if len(input) == 4 {
			return method, map[string]interface{}{}, nil
		}

		raw, err := method.Inputs.Decode(input[4:])
		if err != nil {
			return nil, nil, err
		}

		args, _ := raw.(map[string]interface{})

		return method, args, nil
	}

	return nil, nil, fmt.Errorf("unknown selector %x", input[:4])
}

func encodeOutput(method *abi.Method, value interface{}) ([]byte, error) {
	return method.Outputs.Encode([]interface{}{value})
}

func bigArg(args map[string]interface{}, name string) *big.Int {
	v, _ := args[name].(*big.Int)
	if v == nil {
		return new(big.Int)
	}

	return v
}

func unauthorized(account ethgo.Address) error {
	return &jsonrpc.RevertError{Reason: fmt.Sprintf("OwnableUnauthorizedAccount(%s)", account)}
}
