package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var errEmptyKey = errors.New("private key is empty")

// Account is a secp256k1 key able to sign transactions
type Account struct {
	key     *ecdsa.PrivateKey
	address ethgo.Address
}

// NewAccount wraps the given private key
func NewAccount(key *ecdsa.PrivateKey) *Account {
	return &Account{
		key:     key,
		address: ethgo.Address(crypto.PubkeyToAddress(key.PublicKey)),
	}
}

// NewAccountFromHex decodes a hex-encoded private key, with or without 0x prefix
func NewAccountFromHex(hexKey string) (*Account, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, errEmptyKey
	}

	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}

	return NewAccount(key), nil
}

// GenerateAccount creates an account with a fresh random key
func GenerateAccount() (*Account, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	return NewAccount(key), nil
}

// Address returns the account address
func (a *Account) Address() ethgo.Address {
	return a.address
}

// SignTx signs the transaction for the given chain
func (a *Account) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), a.key)
}

// MarshalPrivateKey returns the hex-encoded private key without 0x prefix
func (a *Account) MarshalPrivateKey() string {
	return fmt.Sprintf("%x", crypto.FromECDSA(a.key))
}

func (a *Account) String() string {
	return a.address.String()
}
