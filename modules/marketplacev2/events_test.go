package marketplacev2

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func TestParseLogSold(t *testing.T) {
	seller := common.HexToAddress("0x1111111111111111111111111111111111111111")
	buyer := common.HexToAddress("0x2222222222222222222222222222222222222222")
	nftTo := common.HexToAddress("0x3333333333333333333333333333333333333333")
	data, err := marketplaceV2ABI.Events["Sold"].Inputs.Pack(
		seller,
		buyer,
		nftTo,
		big.NewInt(7),
		baseUnits(2),
		baseUnits(100),
		baseUnits(94),
		baseUnits(5),
		baseUnits(1),
		true,
	)
	require.NoError(t, err)

	blockTime := time.Unix(1700000000, 0).UTC()
	event, ok, err := ParseLog(ethtypes.Log{
		Topics:      []common.Hash{marketplaceV2ABI.Events["Sold"].ID},
		Data:        data,
		BlockNumber: 42,
		TxHash:      common.HexToHash("0xabc"),
		Index:       3,
	}, blockTime)
	require.NoError(t, err)
	require.True(t, ok)

	sold, isSold := event.(*SoldEvent)
	require.True(t, isSold)
	require.Equal(t, seller, sold.Seller)
	require.Equal(t, buyer, sold.Buyer)
	require.Equal(t, nftTo, sold.NftTo)
	require.Equal(t, "7", sold.TokenId.String())
	require.Equal(t, baseUnits(2).String(), sold.Amount.String())
	require.Equal(t, baseUnits(100).String(), sold.Price.String())
	require.Equal(t, baseUnits(94).String(), sold.NetAmount.String())
	require.Equal(t, baseUnits(5).String(), sold.PercentageFeeAmount.String())
	require.Equal(t, baseUnits(1).String(), sold.FixedFeeAmount.String())
	require.True(t, sold.IsBuyLimit)
	require.Equal(t, common.HexToHash("0xabc").Hex()+"-3", sold.Meta.Id())
}

func TestParseLogFeeUpdated(t *testing.T) {
	data, err := marketplaceV2ABI.Events["FeeUpdated"].Inputs.Pack(big.NewInt(500_000_000), baseUnits(1))
	require.NoError(t, err)

	event, ok, err := ParseLog(ethtypes.Log{
		Topics: []common.Hash{marketplaceV2ABI.Events["FeeUpdated"].ID},
		Data:   data,
	}, time.Unix(0, 0))
	require.NoError(t, err)
	require.True(t, ok)

	feeUpdated, isFeeUpdated := event.(*FeeUpdatedEvent)
	require.True(t, isFeeUpdated)
	require.Equal(t, "500000000", feeUpdated.NewPercentageFee.String())
	require.Equal(t, baseUnits(1).String(), feeUpdated.NewFixedFee.String())
}

func TestParseLogUnknownTopic(t *testing.T) {
	event, ok, err := ParseLog(ethtypes.Log{
		Topics: []common.Hash{common.HexToHash("0xdeadbeef")},
	}, time.Unix(0, 0))
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, event)
}
