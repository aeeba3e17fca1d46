package marketplace

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/entity"

	appcommon "github.com/maxion-tech/marketplace-indexer/common"
	"github.com/stretchr/testify/require"
)

func baseUnits(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}

func percentRaw(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(100_000_000))
}

func testEnvelope(txHash string, logIndex uint, blockNumber int64, unixTime int64) Envelope {
	return Envelope{
		BlockNumber:     blockNumber,
		BlockTimestamp:  time.Unix(unixTime, 0).UTC(),
		TransactionHash: common.HexToHash(txHash),
		LogIndex:        logIndex,
	}
}

func soldEvent(meta Envelope, price, priceAfterFee *big.Int) *SoldEvent {
	return &SoldEvent{
		Meta:          meta,
		Seller:        common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Buyer:         common.HexToAddress("0x2222222222222222222222222222222222222222"),
		TokenId:       big.NewInt(7),
		Amount:        baseUnits(1),
		Price:         price,
		PriceAfterFee: priceAfterFee,
		IsBuyLimit:    false,
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
		require.Equal(t, "0", dg.config.TotalFeePercent.String())
		require.Equal(t, "0", dg.config.PlatformFeePercent.String())
		require.Equal(t, "0", dg.config.PartnerFeePercent.String())
		require.Equal(t, "0", dg.config.MinimumTradePrice.String())
		require.True(t, dg.config.Paused)
	})

	t.Run("reused_on_later_events", func(t *testing.T) {
		dg := newFakeDataGateway()
		p := newProjectionProcessor(dg)

		require.NoError(t, p.processProjection(ctx, dg, &PausedEvent{Meta: testEnvelope("0xaa", 0, 10, 1000)}))
		first := dg.config
		require.NoError(t, p.processProjection(ctx, dg, &UnpausedEvent{Meta: testEnvelope("0xab", 0, 11, 1100)}))

		require.Same(t, first, dg.config)
		require.False(t, dg.config.Paused)
	})

	t.Run("set_fee_percent_updates_both_split_fields", func(t *testing.T) {
		dg := newFakeDataGateway()
		p := newProjectionProcessor(dg)

		err := p.processProjection(ctx, dg, &SetFeePercentEvent{
			Meta:                  testEnvelope("0xaa", 0, 10, 1000),
			NewPlatformFeePercent: percentRaw(60),
			NewPartnerFeePercent:  percentRaw(40),
		})
		require.NoError(t, err)

		require.Equal(t, percentRaw(60).String(), dg.config.PlatformFeePercent.String())
		require.Equal(t, percentRaw(40).String(), dg.config.PartnerFeePercent.String())
		require.Equal(t, "0", dg.config.TotalFeePercent.String())
	})

	t.Run("set_total_fee_percent", func(t *testing.T) {
		dg := newFakeDataGateway()
		p := newProjectionProcessor(dg)

		err := p.processProjection(ctx, dg, &SetTotalFeePercentEvent{
			Meta:               testEnvelope("0xaa", 0, 10, 1000),
			NewTotalFeePercent: percentRaw(10),
		})
		require.NoError(t, err)
		require.Equal(t, percentRaw(10).String(), dg.config.TotalFeePercent.String())
	})

	t.Run("set_minimum_trade_price_touches_only_that_field", func(t *testing.T) {
		dg := newFakeDataGateway()
		p := newProjectionProcessor(dg)

		require.NoError(t, p.processProjection(ctx, dg, &SetFeePercentEvent{
			Meta:                  testEnvelope("0xaa", 0, 10, 1000),
			NewPlatformFeePercent: percentRaw(60),
			NewPartnerFeePercent:  percentRaw(40),
		}))
		require.NoError(t, p.processProjection(ctx, dg, &SetMinimumTradePriceEvent{
			Meta:                 testEnvelope("0xab", 0, 11, 1100),
			NewMinimumTradePrice: baseUnits(5),
		}))

		require.Equal(t, baseUnits(5).String(), dg.config.MinimumTradePrice.String())
		require.Equal(t, percentRaw(60).String(), dg.config.PlatformFeePercent.String())
		require.Equal(t, percentRaw(40).String(), dg.config.PartnerFeePercent.String())
		require.False(t, dg.config.Paused)
	})

	t.Run("role_events_are_ignored", func(t *testing.T) {
		dg := newFakeDataGateway()
		p := newProjectionProcessor(dg)

		err := p.processProjection(ctx, dg, &RoleGrantedEvent{Meta: testEnvelope("0xaa", 0, 10, 1000)})
		require.NoError(t, err)
		require.Nil(t, dg.config)
	})
}

func TestProjectionSoldFeeSplit(t *testing.T) {
	ctx := context.Background()
	dg := newFakeDataGateway()
	p := newProjectionProcessor(dg)

	require.NoError(t, p.processProjection(ctx, dg, &SetFeePercentEvent{
		Meta:                  testEnvelope("0xaa", 0, 9, 900),
		NewPlatformFeePercent: percentRaw(60),
		NewPartnerFeePercent:  percentRaw(40),
	}))

	event := soldEvent(testEnvelope("0xbb", 3, 10, 1000), baseUnits(100), baseUnits(90))
	require.NoError(t, p.processProjection(ctx, dg, event))

	require.Len(t, dg.transactions, 1)
	tx := dg.transactions[0]
	require.Equal(t, event.Meta.Id(), tx.Id)
	require.Equal(t, "1", tx.Amount.String())
	require.Equal(t, "100", tx.Price.String())
	require.Equal(t, "90", tx.PriceAfterFee.String())
	require.Equal(t, "10", tx.TotalFee.String())
	require.Equal(t, "6", tx.PlatformFeeAmount.String())
	require.Equal(t, "4", tx.PartnerFeeAmount.String())
	require.True(t, tx.TotalFee.Equal(tx.Price.Sub(tx.PriceAfterFee)))

	// every window gets the same sale folded in
	for _, window := range entity.BucketWindows {
		bucket, err := dg.GetBucket(ctx, window, window.Floor(1000))
		require.NoError(t, err)
		require.Equal(t, int64(1), bucket.TotalTransaction)
		require.Equal(t, baseUnits(1).String(), bucket.TotalAmount.String())
		require.Equal(t, "100", bucket.TotalPrice.String())
		require.Equal(t, "90", bucket.TotalPriceAfterFee.String())
		require.Equal(t, "10", bucket.TotalFee.String())
		require.Equal(t, "6", bucket.TotalPlatformFee.String())
		require.Equal(t, "4", bucket.TotalPartnerFee.String())
	}
}

func TestProjectionSoldCompositeIds(t *testing.T) {
	ctx := context.Background()
	dg := newFakeDataGateway()
	p := newProjectionProcessor(dg)

	// two fills inside one on-chain transaction must not collide
	require.NoError(t, p.processProjection(ctx, dg, soldEvent(testEnvelope("0xcc", 0, 10, 1000), baseUnits(10), baseUnits(9))))
	require.NoError(t, p.processProjection(ctx, dg, soldEvent(testEnvelope("0xcc", 1, 10, 1000), baseUnits(20), baseUnits(18))))

	require.Len(t, dg.transactions, 2)
	require.NotEqual(t, dg.transactions[0].Id, dg.transactions[1].Id)
	require.Equal(t, common.HexToHash("0xcc").Hex()+"-0", dg.transactions[0].Id)
	require.Equal(t, common.HexToHash("0xcc").Hex()+"-1", dg.transactions[1].Id)
}

func TestProjectionBucketFlooring(t *testing.T) {
	ctx := context.Background()
	dg := newFakeDataGateway()
	p := newProjectionProcessor(dg)

	// 1000 and 2000 share the first hour, 4000 starts the second
	require.NoError(t, p.processProjection(ctx, dg, soldEvent(testEnvelope("0xd1", 0, 10, 1000), baseUnits(10), baseUnits(9))))
	require.NoError(t, p.processProjection(ctx, dg, soldEvent(testEnvelope("0xd2", 0, 10, 2000), baseUnits(10), baseUnits(9))))
	require.NoError(t, p.processProjection(ctx, dg, soldEvent(testEnvelope("0xd3", 0, 11, 4000), baseUnits(10), baseUnits(9))))

	first, err := dg.GetBucket(ctx, entity.BucketWindowHour, 0)
	require.NoError(t, err)
	require.Equal(t, int64(2), first.TotalTransaction)
	require.Equal(t, "0", first.Id())

	second, err := dg.GetBucket(ctx, entity.BucketWindowHour, 3600)
	require.NoError(t, err)
	require.Equal(t, int64(1), second.TotalTransaction)
	require.Equal(t, "3600", second.Id())

	// all three land in one day bucket
	day, err := dg.GetBucket(ctx, entity.BucketWindowDay, 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), day.TotalTransaction)
}

func TestProjectionBucketAccumulation(t *testing.T) {
	ctx := context.Background()
	dg := newFakeDataGateway()
	p := newProjectionProcessor(dg)

	require.NoError(t, p.processProjection(ctx, dg, &SetFeePercentEvent{
		Meta:                  testEnvelope("0xaa", 0, 9, 900),
		NewPlatformFeePercent: percentRaw(60),
		NewPartnerFeePercent:  percentRaw(40),
	}))

	prices := []int64{100, 50, 10}
	pricesAfterFee := []int64{90, 45, 9}
	for i := range prices {
		event := soldEvent(testEnvelope("0xee", uint(i), 10, 1000), baseUnits(prices[i]), baseUnits(pricesAfterFee[i]))
		require.NoError(t, p.processProjection(ctx, dg, event))
	}

	bucket, err := dg.GetBucket(ctx, entity.BucketWindowHour, 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), bucket.TotalTransaction)
	require.Equal(t, baseUnits(3).String(), bucket.TotalAmount.String())
	require.Equal(t, "160", bucket.TotalPrice.String())
	require.Equal(t, "144", bucket.TotalPriceAfterFee.String())

	// the identity holds however many sales folded in
	require.True(t, bucket.TotalFee.Equal(bucket.TotalPrice.Sub(bucket.TotalPriceAfterFee)))
	require.Equal(t, "16", bucket.TotalFee.String())
	require.Equal(t, "9.6", bucket.TotalPlatformFee.String())
	require.Equal(t, "6.4", bucket.TotalPartnerFee.String())
}

func TestRevertDataProjection(t *testing.T) {
	ctx := context.Background()
	dg := newFakeDataGateway()
	p := newProjectionProcessor(dg)

	require.NoError(t, p.processProjection(ctx, dg, &SetFeePercentEvent{
		Meta:                  testEnvelope("0xaa", 0, 9, 900),
		NewPlatformFeePercent: percentRaw(60),
		NewPartnerFeePercent:  percentRaw(40),
	}))
	require.NoError(t, p.processProjection(ctx, dg, soldEvent(testEnvelope("0xf1", 0, 10, 1000), baseUnits(100), baseUnits(90))))
	require.NoError(t, p.processProjection(ctx, dg, soldEvent(testEnvelope("0xf2", 0, 11, 2000), baseUnits(50), baseUnits(45))))
	require.NoError(t, p.processProjection(ctx, dg, soldEvent(testEnvelope("0xf3", 0, 12, 4000), baseUnits(10), baseUnits(9))))
	for height := int64(9); height <= 12; height++ {
		require.NoError(t, dg.CreateIndexedBlock(ctx, &entity.IndexedBlock{Height: height}))
	}

	require.NoError(t, p.RevertData(ctx, 12))

	require.Len(t, dg.transactions, 2)
	latest, err := dg.GetLatestIndexedBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(11), latest.Height)

	// surviving sales rebuilt into the first hour bucket only
	bucket, err := dg.GetBucket(ctx, entity.BucketWindowHour, 0)
	require.NoError(t, err)
	require.Equal(t, int64(2), bucket.TotalTransaction)
	require.Equal(t, "150", bucket.TotalPrice.String())
	require.Equal(t, "135", bucket.TotalPriceAfterFee.String())
	require.Equal(t, "15", bucket.TotalFee.String())
	require.Equal(t, "9", bucket.TotalPlatformFee.String())
	require.Equal(t, "6", bucket.TotalPartnerFee.String())

	_, err = dg.GetBucket(ctx, entity.BucketWindowHour, 3600)
	require.Error(t, err)
}

func TestRevertDataRawLog(t *testing.T) {
	ctx := context.Background()
	dg := newFakeDataGateway()
	p := NewProcessor(dg, appcommon.NetworkMaxiTestnet, appcommon.StrategyRawLog, nil)

	require.NoError(t, p.processRawLog(ctx, dg, soldEvent(testEnvelope("0xf1", 0, 10, 1000), baseUnits(100), baseUnits(90))))
	require.NoError(t, p.processRawLog(ctx, dg, soldEvent(testEnvelope("0xf2", 0, 12, 4000), baseUnits(10), baseUnits(9))))
	for height := int64(10); height <= 12; height++ {
		require.NoError(t, dg.CreateIndexedBlock(ctx, &entity.IndexedBlock{Height: height}))
	}

	require.NoError(t, p.RevertData(ctx, 11))

	require.Len(t, dg.rawEvents, 1)
	require.Equal(t, int64(10), dg.rawEvents[0].BlockNumber)
	latest, err := dg.GetLatestIndexedBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(10), latest.Height)
}
