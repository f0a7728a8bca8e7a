package deployments

import (
	"testing"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestStore_InsertList(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	first := &Record{
		ChainID:  62850,
		Contract: "batch-minter",
		Address:  ethgo.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3"),
	}
	second := &Record{
		ChainID:  62850,
		Contract: "public-minter",
		Address:  ethgo.HexToAddress("0xe7f1725e7734ce288f8367e1bb143e90bb3f0512"),
	}
	other := &Record{ChainID: 667, Contract: "batch-minter"}

	storedFirst, err := store.Insert(first, nil)
	require.NoError(t, err)

	storedSecond, err := store.Insert(second, nil)
	require.NoError(t, err)

	_, err = store.Insert(other, nil)
	require.NoError(t, err)

	require.NotEmpty(t, storedFirst.ID)
	require.NotEqual(t, storedFirst.ID, storedSecond.ID)
	require.False(t, storedFirst.CreatedAt.IsZero())
	require.Empty(t, first.ID)
	require.True(t, first.CreatedAt.IsZero())

	records, err := store.List(62850)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, storedFirst.ID, records[0].ID)
	require.Equal(t, first.Address, records[0].Address)
	require.Equal(t, "public-minter", records[1].Contract)

	records, err = store.List(1)
	require.NoError(t, err)
	require.Empty(t, records)

	chains, err := store.Chains()
	require.NoError(t, err)
	require.Equal(t, []uint64{667, 62850}, chains)
}

func TestStore_Latest(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	for _, addr := range []string{
		"0x5fbdb2315678afecb367f032d93f642f64180aa3",
		"0xe7f1725e7734ce288f8367e1bb143e90bb3f0512",
	} {
		record := &Record{ChainID: 667, Contract: "batch-minter", Address: ethgo.HexToAddress(addr)}
		_, err := store.Insert(record, nil)
		require.NoError(t, err)
	}

	_, err := store.Insert(&Record{ChainID: 667, Contract: "public-minter"}, nil)
	require.NoError(t, err)

	latest, err := store.Latest(667, "batch-minter")
	require.NoError(t, err)
	require.Equal(t, ethgo.HexToAddress("0xe7f1725e7734ce288f8367e1bb143e90bb3f0512"), latest.Address)

	_, err = store.Latest(667, "minter-controlled")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.Latest(1, "batch-minter")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_InsertInTransaction(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	tx, err := store.BeginDBTransaction(true)
	require.NoError(t, err)

	record := &Record{ChainID: 1337, Contract: "batch-minter"}

	_, err = store.Insert(record, tx)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	require.Empty(t, record.ID)
	require.True(t, record.CreatedAt.IsZero())

	records, err := store.List(1337)
	require.NoError(t, err)
	require.Empty(t, records)

	tx, err = store.BeginDBTransaction(true)
	require.NoError(t, err)

	stored, err := store.Insert(record, tx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	records, err = store.List(1337)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, stored.ID, records[0].ID)
}
