package tokenid

import (
	"testing"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var maxUint256 = new(uint256.Int).SetAllOne()

func TestCompute_Vectors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		owner string
		slot  string
		dec   string
		hex   string
	}{
		{
			name:  "zero",
			owner: "0x0000000000000000000000000000000000000000",
			slot:  "0x0",
			dec:   "0",
			hex:   "0x0",
		},
		{
			name:  "mixed",
			owner: "0x90abcdef1234567890abcdef1234567890abcdef",
			slot:  "0x1234567890abcdef",
			dec:   "1917151762750544880654683969214147817878133287987683378847961304559",
			hex:   "0x1234567890abcdef90abcdef1234567890abcdef1234567890abcdef",
		},
		{
			name:  "max owner zero slot",
			owner: "0xffffffffffffffffffffffffffffffffffffffff",
			slot:  "0",
			dec:   "1461501637330902918203684832716283019655932542975",
			hex:   "0xffffffffffffffffffffffffffffffffffffffff",
		},
		{
			name:  "one one",
			owner: "0x0000000000000000000000000000000000000001",
			slot:  "1",
			dec:   "1461501637330902918203684832716283019655932542977",
			hex:   "0x10000000000000000000000000000000000000001",
		},
		{
			name:  "eighty bit slot",
			owner: "0x1234567890abcdef1234567890abcdef12345678",
			slot:  "0xffffffffffffffffffff",
			dec:   "1766847064778384329583296143170286492852322417545392043886226158472418936",
			hex:   "0xffffffffffffffffffff1234567890abcdef1234567890abcdef12345678",
		},
		{
			name:  "max slot",
			owner: "0x1234567890abcdef1234567890abcdef12345678",
			slot:  "0xffffffffffffffffffffffff",
			dec:   "115792089237316195423570985007330335221247009504161233812543348627870309439096",
			hex:   "0xffffffffffffffffffffffff1234567890abcdef1234567890abcdef12345678",
		},
		{
			name:  "max owner max slot",
			owner: "0xffffffffffffffffffffffffffffffffffffffff",
			slot:  "0xffffffffffffffffffffffff",
			dec:   "115792089237316195423570985008687907853269984665640564039457584007913129639935",
			hex:   "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		},
	}

	for _, c := range cases {
		c := c

		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			id, err := Parse(c.owner, c.slot)
			require.NoError(t, err)
			require.Equal(t, c.dec, Dec(id))
			require.Equal(t, c.hex, Hex(id))
		})
	}
}

func TestCompute_Edges(t *testing.T) {
	t.Parallel()

	id, err := Compute(ethgo.ZeroAddress, uint256.NewInt(0))
	require.NoError(t, err)
	require.True(t, id.IsZero())

	id, err = Compute(ethgo.Address(MaxOwner.Bytes20()), MaxSlot)
	require.NoError(t, err)
	require.True(t, id.Eq(maxUint256))

	owner := ethgo.HexToAddress("0x1234567890abcdef1234567890abcdef12345678")
	id, err = Compute(owner, uint256.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, owner, ethgo.Address(id.Bytes20()))
	require.LessOrEqual(t, id.BitLen(), OwnerBits)
}

func TestCompute_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Compute(ethgo.ZeroAddress, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	tooWide := new(uint256.Int).Lsh(uint256.NewInt(1), SlotBits)
	_, err = Compute(ethgo.ZeroAddress, tooWide)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = Parse("0x1ffffffffffffffffffffffffffffffffffffffff", "0")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = Parse("0x01", "-1")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = Parse("", "1")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = Parse("0xzz", "1")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestComputeBatch(t *testing.T) {
	t.Parallel()

	owners := []ethgo.Address{
		ethgo.HexToAddress("0x90abcdef1234567890abcdef1234567890abcdef"),
		ethgo.HexToAddress("0x0000000000000000000000000000000000000001"),
		ethgo.HexToAddress("0x1234567890abcdef1234567890abcdef12345678"),
	}
	slots := []*uint256.Int{
		uint256.MustFromHex("0x1234567890abcdef"),
		uint256.NewInt(1),
		MaxSlot,
	}

	ids, err := ComputeBatch(owners, slots)
	require.NoError(t, err)
	require.Len(t, ids, len(owners))

	for i := range owners {
		expected, err := Compute(owners[i], slots[i])
		require.NoError(t, err)
		require.True(t, expected.Eq(ids[i]), "index %d", i)
	}

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		ids, err := ComputeBatch(nil, nil)
		require.NoError(t, err)
		require.Empty(t, ids)
	})

	t.Run("length mismatch", func(t *testing.T) {
		t.Parallel()

		_, err := ComputeBatch(owners, slots[:2])
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("overflowing slot", func(t *testing.T) {
		t.Parallel()

		bad := []*uint256.Int{uint256.NewInt(1), new(uint256.Int).Lsh(uint256.NewInt(1), 100), nil}

		_, err := ComputeBatch(owners, bad)
		require.ErrorIs(t, err, ErrInvalidInput)
		require.ErrorContains(t, err, "index 1")
		require.ErrorContains(t, err, "index 2")
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	id, err := Parse("0x1234567890abcdef1234567890abcdef12345678", "0xffffffffffffffffffff")
	require.NoError(t, err)

	owner, slot := Decode(id)
	require.Equal(t, ethgo.HexToAddress("0x1234567890abcdef1234567890abcdef12345678"), owner)
	require.Equal(t, "0xffffffffffffffffffff", slot.Hex())
}

func TestCompute_Properties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		var owner ethgo.Address

		copy(owner[:], rapid.SliceOfN(rapid.Byte(), 20, 20).Draw(t, "owner"))

		slot := new(uint256.Int).SetBytes(rapid.SliceOfN(rapid.Byte(), 0, 12).Draw(t, "slot"))

		first, err := Compute(owner, slot)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		second, err := Compute(owner, slot)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !first.Eq(second) {
			t.Fatalf("non deterministic result: %s != %s", first.Hex(), second.Hex())
		}

		decodedOwner, decodedSlot := Decode(first)
		if decodedOwner != owner || !decodedSlot.Eq(slot) {
			t.Fatalf("decode mismatch for %s", first.Hex())
		}
	})
}

func TestComputeBatch_Properties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 16).Draw(t, "n")
		owners := make([]ethgo.Address, n)
		slots := make([]*uint256.Int, n)

		for i := 0; i < n; i++ {
			copy(owners[i][:], rapid.SliceOfN(rapid.Byte(), 20, 20).Draw(t, "owner"))
			slots[i] = uint256.NewInt(rapid.Uint64().Draw(t, "slot"))
		}

		ids, err := ComputeBatch(owners, slots)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for i := range ids {
			single, err := Compute(owners[i], slots[i])
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !single.Eq(ids[i]) {
				t.Fatalf("index %d mismatch", i)
			}
		}
	})
}
