package deployments

import (
	"testing"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/freeverseio/laos-minters/command/helper"
	"github.com/freeverseio/laos-minters/deployments"
	"github.com/stretchr/testify/require"
)

func TestListParams_Validate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, (&listParams{all: true, chainID: 1}).validateFlags(), errAllWithChainID)
	require.Error(t, (&listParams{contract: "erc721"}).validateFlags())

	p := &listParams{all: true, contract: "batch-minter"}
	require.NoError(t, p.validateFlags())
	require.Equal(t, "batch-minter", string(p.kind))
}

func TestListRecords(t *testing.T) {
	t.Parallel()

	store, err := helper.OpenStore(t.TempDir())
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	insert := func(chainID uint64, name, contract string, address string) {
		_, err := store.Insert(&deployments.Record{
			ChainID:  chainID,
			Name:     name,
			Contract: contract,
			Address:  ethgo.HexToAddress(address),
		}, nil)
		require.NoError(t, err)
	}

	insert(1, "batch-minter", "LaosBatchMinter", "0x01")
	insert(1, "public-minter", "LaosPublicMinter", "0x02")
	insert(2, "batch-minter", "LaosBatchMinter", "0x03")

	records, err := listRecords(store, []uint64{1}, "")
	require.NoError(t, err)
	require.Len(t, records, 2)

	records, err = listRecords(store, []uint64{1, 2}, "batch-minter")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, ethgo.HexToAddress("0x03"), records[1].Address)

	records, err = listRecords(store, []uint64{3}, "")
	require.NoError(t, err)
	require.Empty(t, records)

	output := (&listResult{Records: records}).GetOutput()
	require.Contains(t, output, "No deployments recorded")
}
