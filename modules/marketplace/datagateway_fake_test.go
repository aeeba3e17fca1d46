package marketplace

import (
	"context"
	"math/big"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/maxion-tech/marketplace-indexer/common/errs"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/datagateway"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/entity"
	"github.com/maxion-tech/marketplace-indexer/pkg/decimals"
	"github.com/shopspring/decimal"
)

// fakeDataGateway keeps everything in memory for processor tests. Begin
// returns the gateway itself so state written inside a "transaction" is
// immediately visible to assertions.
type fakeDataGateway struct {
	indexedBlocks []*entity.IndexedBlock
	config        *entity.MarketplaceConfig
	transactions  []*entity.Transaction
	buckets       map[entity.BucketWindow]map[int64]*entity.TransactionBucket
	rawEvents     []*entity.RawEvent

	commits   int
	rollbacks int
}

var _ datagateway.MarketplaceDataGatewayWithTx = (*fakeDataGateway)(nil)

func newFakeDataGateway() *fakeDataGateway {
	return &fakeDataGateway{
		buckets: make(map[entity.BucketWindow]map[int64]*entity.TransactionBucket),
	}
}

func (f *fakeDataGateway) BeginMarketplaceTx(ctx context.Context) (datagateway.MarketplaceDataGatewayWithTx, error) {
	return f, nil
}

func (f *fakeDataGateway) Commit(ctx context.Context) error {
	f.commits++
	return nil
}

func (f *fakeDataGateway) Rollback(ctx context.Context) error {
	f.rollbacks++
	return nil
}

func (f *fakeDataGateway) GetLatestIndexedBlock(ctx context.Context) (*entity.IndexedBlock, error) {
	if len(f.indexedBlocks) == 0 {
		return nil, errors.WithStack(errs.NotFound)
	}
	latest := f.indexedBlocks[0]
	for _, block := range f.indexedBlocks[1:] {
		if block.Height > latest.Height {
			latest = block
		}
	}
	return latest, nil
}

func (f *fakeDataGateway) GetIndexedBlockByHeight(ctx context.Context, height int64) (*entity.IndexedBlock, error) {
	for _, block := range f.indexedBlocks {
		if block.Height == height {
			return block, nil
		}
	}
	return nil, errors.WithStack(errs.NotFound)
}

func (f *fakeDataGateway) GetConfig(ctx context.Context) (*entity.MarketplaceConfig, error) {
	if f.config == nil {
		return nil, errors.WithStack(errs.NotFound)
	}
	return f.config, nil
}

func (f *fakeDataGateway) GetTransactions(ctx context.Context, filter datagateway.TransactionFilter) ([]*entity.Transaction, error) {
	result := make([]*entity.Transaction, 0, len(f.transactions))
	for _, tx := range f.transactions {
		if filter.Seller != "" && tx.Seller.Hex() != filter.Seller {
			continue
		}
		if filter.Buyer != "" && tx.Buyer.Hex() != filter.Buyer {
			continue
		}
		result = append(result, tx)
	}
	return result, nil
}

func (f *fakeDataGateway) GetBucket(ctx context.Context, window entity.BucketWindow, startUnixTime int64) (*entity.TransactionBucket, error) {
	bucket, ok := f.buckets[window][startUnixTime]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return bucket, nil
}

func (f *fakeDataGateway) GetBuckets(ctx context.Context, window entity.BucketWindow, fromUnixTime, toUnixTime int64, limit, offset int32) ([]*entity.TransactionBucket, error) {
	result := make([]*entity.TransactionBucket, 0, len(f.buckets[window]))
	for start, bucket := range f.buckets[window] {
		if fromUnixTime != 0 && start < fromUnixTime {
			continue
		}
		if toUnixTime != 0 && start > toUnixTime {
			continue
		}
		result = append(result, bucket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartUnixTime > result[j].StartUnixTime })
	return result, nil
}

func (f *fakeDataGateway) GetRawEvents(ctx context.Context, filter datagateway.RawEventFilter) ([]*entity.RawEvent, error) {
	result := make([]*entity.RawEvent, 0, len(f.rawEvents))
	for _, event := range f.rawEvents {
		if filter.Name != "" && event.Name != filter.Name {
			continue
		}
		result = append(result, event)
	}
	return result, nil
}

func (f *fakeDataGateway) CreateIndexedBlock(ctx context.Context, block *entity.IndexedBlock) error {
	f.indexedBlocks = append(f.indexedBlocks, block)
	return nil
}

func (f *fakeDataGateway) SaveConfig(ctx context.Context, config *entity.MarketplaceConfig) error {
	f.config = config
	return nil
}

func (f *fakeDataGateway) CreateTransaction(ctx context.Context, transaction *entity.Transaction) error {
	for _, existing := range f.transactions {
		if existing.Id == transaction.Id {
			return errors.Errorf("duplicate transaction id %q", transaction.Id)
		}
	}
	f.transactions = append(f.transactions, transaction)
	return nil
}

func (f *fakeDataGateway) SaveBucket(ctx context.Context, window entity.BucketWindow, bucket *entity.TransactionBucket) error {
	byStart, ok := f.buckets[window]
	if !ok {
		byStart = make(map[int64]*entity.TransactionBucket)
		f.buckets[window] = byStart
	}
	byStart[bucket.StartUnixTime] = bucket
	return nil
}

func (f *fakeDataGateway) CreateRawEvent(ctx context.Context, event *entity.RawEvent) error {
	f.rawEvents = append(f.rawEvents, event)
	return nil
}

func (f *fakeDataGateway) DeleteIndexedBlocksSinceHeight(ctx context.Context, sinceHeight int64) error {
	kept := f.indexedBlocks[:0]
	for _, block := range f.indexedBlocks {
		if block.Height < sinceHeight {
			kept = append(kept, block)
		}
	}
	f.indexedBlocks = kept
	return nil
}

func (f *fakeDataGateway) DeleteTransactionsSinceHeight(ctx context.Context, sinceHeight int64) error {
	kept := f.transactions[:0]
	for _, tx := range f.transactions {
		if tx.BlockNumber < sinceHeight {
			kept = append(kept, tx)
		}
	}
	f.transactions = kept
	return nil
}

func (f *fakeDataGateway) DeleteRawEventsSinceHeight(ctx context.Context, sinceHeight int64) error {
	kept := f.rawEvents[:0]
	for _, event := range f.rawEvents {
		if event.BlockNumber < sinceHeight {
			kept = append(kept, event)
		}
	}
	f.rawEvents = kept
	return nil
}

func (f *fakeDataGateway) RebuildBuckets(ctx context.Context, platformFeePercent, partnerFeePercent decimal.Decimal) error {
	f.buckets = make(map[entity.BucketWindow]map[int64]*entity.TransactionBucket)
	for _, tx := range f.transactions {
		for _, window := range entity.BucketWindows {
			start := window.Floor(tx.BlockTimestamp.Unix())
			byStart, ok := f.buckets[window]
			if !ok {
				byStart = make(map[int64]*entity.TransactionBucket)
				f.buckets[window] = byStart
			}
			bucket, ok := byStart[start]
			if !ok {
				bucket = entity.NewTransactionBucket(start)
				byStart[start] = bucket
			}
			rawAmount := tx.Amount.Mul(decimals.PowerOfTen(decimals.TokenDecimals)).BigInt()
			bucket.TotalAmount = new(big.Int).Add(bucket.TotalAmount, rawAmount)
			bucket.TotalPrice = bucket.TotalPrice.Add(tx.Price)
			bucket.TotalPriceAfterFee = bucket.TotalPriceAfterFee.Add(tx.PriceAfterFee)
			bucket.TotalTransaction++
		}
	}
	for _, byStart := range f.buckets {
		for _, bucket := range byStart {
			bucket.TotalFee = bucket.TotalPrice.Sub(bucket.TotalPriceAfterFee)
			bucket.TotalPlatformFee = bucket.TotalFee.Mul(platformFeePercent).Div(decimal.NewFromInt(100))
			bucket.TotalPartnerFee = bucket.TotalFee.Mul(partnerFeePercent).Div(decimal.NewFromInt(100))
		}
	}
	return nil
}
