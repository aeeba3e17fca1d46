package marketplace

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/maxion-tech/marketplace-indexer/core/types"
	"github.com/stretchr/testify/require"
)

func TestProcessBlock(t *testing.T) {
	ctx := context.Background()
	dg := newFakeDataGateway()
	p := newProjectionProcessor(dg)

	setFeeData, err := marketplaceABI.Events["SetFeePercent"].Inputs.Pack(percentRaw(60), percentRaw(40))
	require.NoError(t, err)
	soldData, err := marketplaceABI.Events["Sold"].Inputs.Pack(
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		common.HexToAddress("0x2222222222222222222222222222222222222222"),
		big.NewInt(7),
		baseUnits(1),
		baseUnits(100),
		baseUnits(90),
		false,
	)
	require.NoError(t, err)

	txHash := common.HexToHash("0xfeed")
	block := &types.Block{
		Header: types.BlockHeader{
			Hash:      common.HexToHash("0xb10c"),
			Height:    42,
			Timestamp: time.Unix(1000, 0).UTC(),
		},
		Logs: []ethtypes.Log{
			{
				Topics:      []common.Hash{marketplaceABI.Events["SetFeePercent"].ID},
				Data:        setFeeData,
				BlockNumber: 42,
				TxHash:      txHash,
				Index:       0,
			},
			{
				// unrelated contract log, must be skipped
				Topics:      []common.Hash{common.HexToHash("0xdeadbeef")},
				BlockNumber: 42,
				TxHash:      txHash,
				Index:       1,
			},
			{
				Topics:      []common.Hash{marketplaceABI.Events["Sold"].ID},
				Data:        soldData,
				BlockNumber: 42,
				TxHash:      txHash,
				Index:       2,
			},
		},
	}

	require.NoError(t, p.Process(ctx, []*types.Block{block}))
	require.Equal(t, 1, dg.commits)

	latest, err := dg.GetLatestIndexedBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(42), latest.Height)
	require.Equal(t, common.HexToHash("0xb10c"), latest.Hash)

	// fee split uses the configuration updated earlier in the same block
	require.Len(t, dg.transactions, 1)
	tx := dg.transactions[0]
	require.Equal(t, txHash.Hex()+"-2", tx.Id)
	require.Equal(t, "6", tx.PlatformFeeAmount.String())
	require.Equal(t, "4", tx.PartnerFeeAmount.String())
}


func TestCurrentBlock(t *testing.T) {
	ctx := context.Background()
	dg := newFakeDataGateway()
	p := newProjectionProcessor(dg)

	_, err := p.CurrentBlock(ctx)
	require.Error(t, err)

	require.NoError(t, p.Process(ctx, []*types.Block{{
		Header: types.BlockHeader{Hash: common.HexToHash("0x01"), Height: 7, Timestamp: time.Unix(1000, 0)},
	}}))

	header, err := p.CurrentBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(7), header.Height)
	require.Equal(t, common.HexToHash("0x01"), header.Hash)
}
