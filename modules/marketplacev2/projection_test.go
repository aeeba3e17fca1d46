package marketplacev2

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/internal/entity"

	appcommon "github.com/maxion-tech/marketplace-indexer/common"
	"github.com/stretchr/testify/require"
)

func baseUnits(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}

func testEnvelope(txHash string, logIndex uint, blockNumber int64, unixTime int64) Envelope {
	return Envelope{
		BlockNumber:     blockNumber,
		BlockTimestamp:  time.Unix(unixTime, 0).UTC(),
		TransactionHash: common.HexToHash(txHash),
		LogIndex:        logIndex,
	}
}

func soldEvent(meta Envelope, price, netAmount, percentageFeeAmount *big.Int) *SoldEvent {
	return &SoldEvent{
		Meta:                meta,
		Seller:              common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Buyer:               common.HexToAddress("0x2222222222222222222222222222222222222222"),
		NftTo:               common.HexToAddress("0x3333333333333333333333333333333333333333"),
		TokenId:             big.NewInt(7),
		Amount:              baseUnits(1),
		Price:               price,
		NetAmount:           netAmount,
		PercentageFeeAmount: percentageFeeAmount,
		FixedFeeAmount:      baseUnits(1),
		IsBuyLimit:          false,
	}
}

func newProjectionProcessor(dg *fakeDataGateway) *Processor {
	return NewProcessor(dg, appcommon.NetworkMaxiTestnet, appcommon.StrategyProjection, nil)
}

func TestProjectionConfigSingleton(t *testing.T) {
	ctx := context.Background()

	t.Run("created_with_zero_defaults_on_first_event", func(t *testing.T) {
		dg := newFakeDataGateway()
		p := newProjectionProcessor(dg)

		err := p.processProjection(ctx, dg, &PausedEvent{Meta: testEnvelope("0xaa", 0, 10, 1000)})
		require.NoError(t, err)

		require.NotNil(t, dg.config)
		require.Equal(t, entity.ConfigId, dg.config.Id)
		require.Equal(t, "0", dg.config.PercentageFee.String())
		require.Equal(t, "0", dg.config.FixedFee.String())
		require.Equal(t, "0", dg.config.MinimumTradePrice.String())
		require.True(t, dg.config.Paused)
	})

	t.Run("fee_updated_sets_both_fee_fields", func(t *testing.T) {
		dg := newFakeDataGateway()
		p := newProjectionProcessor(dg)

		err := p.processProjection(ctx, dg, &FeeUpdatedEvent{
			Meta:             testEnvelope("0xaa", 0, 10, 1000),
			NewPercentageFee: big.NewInt(500_000_000),
			NewFixedFee:      baseUnits(1),
		})
		require.NoError(t, err)

		require.Equal(t, "500000000", dg.config.PercentageFee.String())
		require.Equal(t, baseUnits(1).String(), dg.config.FixedFee.String())
	})

	t.Run("minimum_trade_price_updated_touches_only_that_field", func(t *testing.T) {
		dg := newFakeDataGateway()
		p := newProjectionProcessor(dg)

		require.NoError(t, p.processProjection(ctx, dg, &FeeUpdatedEvent{
			Meta:             testEnvelope("0xaa", 0, 10, 1000),
			NewPercentageFee: big.NewInt(500_000_000),
			NewFixedFee:      baseUnits(1),
		}))
		require.NoError(t, p.processProjection(ctx, dg, &MinimumTradePriceUpdatedEvent{
			Meta:                 testEnvelope("0xab", 0, 11, 1100),
			NewMinimumTradePrice: baseUnits(5),
		}))

		require.Equal(t, baseUnits(5).String(), dg.config.MinimumTradePrice.String())
		require.Equal(t, "500000000", dg.config.PercentageFee.String())
		require.Equal(t, baseUnits(1).String(), dg.config.FixedFee.String())
	})
}

func TestProjectionSoldFees(t *testing.T) {
	ctx := context.Background()
	dg := newFakeDataGateway()
	p := newProjectionProcessor(dg)

	require.NoError(t, p.processProjection(ctx, dg, &FeeUpdatedEvent{
		Meta:             testEnvelope("0xaa", 0, 9, 900),
		NewPercentageFee: big.NewInt(500_000_000),
		NewFixedFee:      baseUnits(1),
	}))

	// price 100, net amount 94: the 6 of fee splits into 5 percentage + 1 fixed
	event := soldEvent(testEnvelope("0xbb", 2, 10, 1000), baseUnits(100), baseUnits(94), baseUnits(5))
	require.NoError(t, p.processProjection(ctx, dg, event))

	require.Len(t, dg.transactions, 1)
	tx := dg.transactions[0]
	require.Equal(t, event.Meta.Id(), tx.Id)
	require.Equal(t, event.NftTo, tx.NftTo)
	require.Equal(t, "100", tx.Price.String())
	require.Equal(t, "94", tx.NetAmount.String())
	require.Equal(t, "6", tx.TotalFee.String())
	require.Equal(t, "5", tx.PercentageFeeAmount.String())
	// fixed fee is read from the current configuration, not the event payload
	require.Equal(t, "1", tx.FixedFeeAmount.String())
	require.True(t, tx.TotalFee.Equal(tx.Price.Sub(tx.NetAmount)))

	for _, window := range entity.BucketWindows {
		bucket, err := dg.GetBucket(ctx, window, window.Floor(1000))
		require.NoError(t, err)
		require.Equal(t, int64(1), bucket.TotalTransaction)
		require.Equal(t, "100", bucket.TotalPrice.String())
		require.Equal(t, "94", bucket.TotalNetAmount.String())
		require.Equal(t, "6", bucket.TotalFee.String())
		require.Equal(t, "1", bucket.TotalFixedFee.String())
		require.Equal(t, "5", bucket.TotalPercentageFee.String())
	}
}

func TestProjectionSoldWithoutFeeConfig(t *testing.T) {
	ctx := context.Background()
	dg := newFakeDataGateway()
	p := newProjectionProcessor(dg)

	// no FeeUpdated seen yet, the zero-valued config contributes no fixed fee
	event := soldEvent(testEnvelope("0xbb", 0, 10, 1000), baseUnits(100), baseUnits(94), baseUnits(6))
	require.NoError(t, p.processProjection(ctx, dg, event))

	tx := dg.transactions[0]
	require.Equal(t, "0", tx.FixedFeeAmount.String())

	bucket, err := dg.GetBucket(ctx, entity.BucketWindowHour, 0)
	require.NoError(t, err)
	require.Equal(t, "0", bucket.TotalFixedFee.String())
	require.Equal(t, "6", bucket.TotalPercentageFee.String())
}

func TestProjectionBucketAccumulation(t *testing.T) {
	ctx := context.Background()
	dg := newFakeDataGateway()
	p := newProjectionProcessor(dg)

	require.NoError(t, p.processProjection(ctx, dg, &FeeUpdatedEvent{
		Meta:             testEnvelope("0xaa", 0, 9, 900),
		NewPercentageFee: big.NewInt(500_000_000),
		NewFixedFee:      baseUnits(1),
	}))

	require.NoError(t, p.processProjection(ctx, dg, soldEvent(testEnvelope("0xee", 0, 10, 1000), baseUnits(100), baseUnits(94), baseUnits(5))))
	require.NoError(t, p.processProjection(ctx, dg, soldEvent(testEnvelope("0xee", 1, 10, 1000), baseUnits(40), baseUnits(37), baseUnits(2))))

	bucket, err := dg.GetBucket(ctx, entity.BucketWindowHour, 0)
	require.NoError(t, err)
	require.Equal(t, int64(2), bucket.TotalTransaction)
	require.Equal(t, "140", bucket.TotalPrice.String())
	require.Equal(t, "131", bucket.TotalNetAmount.String())
	require.True(t, bucket.TotalFee.Equal(bucket.TotalPrice.Sub(bucket.TotalNetAmount)))
	require.Equal(t, "9", bucket.TotalFee.String())
	// fixed portion scales with the transaction count
	require.Equal(t, "2", bucket.TotalFixedFee.String())
	require.Equal(t, "7", bucket.TotalPercentageFee.String())
}

func TestRevertDataProjection(t *testing.T) {
	ctx := context.Background()
	dg := newFakeDataGateway()
	p := newProjectionProcessor(dg)

	require.NoError(t, p.processProjection(ctx, dg, &FeeUpdatedEvent{
		Meta:             testEnvelope("0xaa", 0, 9, 900),
		NewPercentageFee: big.NewInt(500_000_000),
		NewFixedFee:      baseUnits(1),
	}))
	require.NoError(t, p.processProjection(ctx, dg, soldEvent(testEnvelope("0xf1", 0, 10, 1000), baseUnits(100), baseUnits(94), baseUnits(5))))
	require.NoError(t, p.processProjection(ctx, dg, soldEvent(testEnvelope("0xf2", 0, 12, 4000), baseUnits(40), baseUnits(37), baseUnits(2))))
	for height := int64(9); height <= 12; height++ {
		require.NoError(t, dg.CreateIndexedBlock(ctx, &entity.IndexedBlock{Height: height}))
	}

	require.NoError(t, p.RevertData(ctx, 12))

	require.Len(t, dg.transactions, 1)
	latest, err := dg.GetLatestIndexedBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(11), latest.Height)

	bucket, err := dg.GetBucket(ctx, entity.BucketWindowHour, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), bucket.TotalTransaction)
	require.Equal(t, "100", bucket.TotalPrice.String())
	require.Equal(t, "94", bucket.TotalNetAmount.String())
	require.Equal(t, "6", bucket.TotalFee.String())
	require.Equal(t, "1", bucket.TotalFixedFee.String())
	require.Equal(t, "5", bucket.TotalPercentageFee.String())

	_, err = dg.GetBucket(ctx, entity.BucketWindowHour, 3600)
	require.Error(t, err)
}
