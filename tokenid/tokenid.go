// Package tokenid packs an initial owner address and a slot into a LAOS token identifier.
//
// A token id is a 256-bit unsigned integer whose low 160 bits hold the initial owner
// and whose high 96 bits hold the slot:
//
//	tokenId = slot << 160 | initOwner
package tokenid

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/hashicorp/go-multierror"
	"github.com/holiman/uint256"
)

const (
	// OwnerBits is the width of the initial owner field
	OwnerBits = 160
	// SlotBits is the width of the slot field
	SlotBits = 96
)

// ErrInvalidInput is returned for out-of-domain codec arguments
var ErrInvalidInput = errors.New("invalid input")

var (
	// MaxSlot is the largest slot that fits into a token id (2^96 - 1)
	MaxSlot = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), SlotBits), uint256.NewInt(1))
	// MaxOwner is the largest initial owner value (2^160 - 1)
	MaxOwner = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), OwnerBits), uint256.NewInt(1))
)

// Compute returns the token id for the given initial owner and slot
func Compute(initOwner ethgo.Address, slot *uint256.Int) (*uint256.Int, error) {
	if slot == nil {
		return nil, fmt.Errorf("%w: slot is not set", ErrInvalidInput)
	}

	if slot.BitLen() > SlotBits {
		return nil, fmt.Errorf("%w: slot %s exceeds %d bits", ErrInvalidInput, slot.Hex(), SlotBits)
	}

	id := new(uint256.Int).Lsh(slot, OwnerBits)
	owner := new(uint256.Int).SetBytes20(initOwner[:])

	return id.Or(id, owner), nil
}

// ComputeBatch returns the token ids for the given owners and slots, preserving the input order.
// All per-index violations are reported together.
func ComputeBatch(owners []ethgo.Address, slots []*uint256.Int) ([]*uint256.Int, error) {
	if len(owners) != len(slots) {
		return nil, fmt.Errorf("%w: %d owners and %d slots", ErrInvalidInput, len(owners), len(slots))
	}

	var (
		ids  = make([]*uint256.Int, len(owners))
		errs *multierror.Error
	)

	for i, owner := range owners {
		id, err := Compute(owner, slots[i])
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("index %d: %w", i, err))

			continue
		}

		ids[i] = id
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return ids, nil
}

// Decode splits a token id into its initial owner and slot
func Decode(tokenID *uint256.Int) (ethgo.Address, *uint256.Int) {
	return ethgo.Address(tokenID.Bytes20()), new(uint256.Int).Rsh(tokenID, OwnerBits)
}

// Parse computes a token id from textual owner and slot values.
// Both accept 0x-prefixed hex or decimal notation.
func Parse(owner, slot string) (*uint256.Int, error) {
	ownerValue, err := ParseUint(owner, OwnerBits)
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}

	slotValue, err := ParseUint(slot, SlotBits)
	if err != nil {
		return nil, fmt.Errorf("slot: %w", err)
	}

	return Compute(ethgo.Address(ownerValue.Bytes20()), slotValue)
}

// ParseUint parses a 0x-prefixed hex or decimal unsigned value no wider than bits
func ParseUint(s string, bits int) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidInput)
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}

	b, ok := new(big.Int).SetString(s, base)
	if !ok || b.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q is not an unsigned integer", ErrInvalidInput, s)
	}

	if b.BitLen() > bits {
		return nil, fmt.Errorf("%w: value exceeds %d bits", ErrInvalidInput, bits)
	}

	v, _ := uint256.FromBig(b)

	return v, nil
}

// ParseOwner parses an address given as 0x-prefixed hex
func ParseOwner(s string) (ethgo.Address, error) {
	v, err := ParseUint(s, OwnerBits)
	if err != nil {
		return ethgo.ZeroAddress, err
	}

	return ethgo.Address(v.Bytes20()), nil
}

// Hex renders a token id as minimal 0x-prefixed hex
func Hex(tokenID *uint256.Int) string {
	return tokenID.Hex()
}

// Dec renders a token id in decimal
func Dec(tokenID *uint256.Int) string {
	return tokenID.Dec()
}
