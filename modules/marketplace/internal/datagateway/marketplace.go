package datagateway

import (
	"context"

	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/entity"
	"github.com/shopspring/decimal"
)

// TransactionFilter narrows GetTransactions. Zero values mean unfiltered.
type TransactionFilter struct {
	Seller    string
	Buyer     string
	TokenId   string
	FromBlock int64
	ToBlock   int64
	Limit     int32
	Offset    int32
}

// RawEventFilter narrows GetRawEvents. An empty Name matches every event.
type RawEventFilter struct {
	Name      string
	FromBlock int64
	ToBlock   int64
	Limit     int32
	Offset    int32
}

type MarketplaceReaderDataGateway interface {
	// GetLatestIndexedBlock returns errs.NotFound before the first block is indexed.
	GetLatestIndexedBlock(ctx context.Context) (*entity.IndexedBlock, error)
	GetIndexedBlockByHeight(ctx context.Context, height int64) (*entity.IndexedBlock, error)

	// GetConfig returns errs.NotFound until the singleton has been created.
	GetConfig(ctx context.Context) (*entity.MarketplaceConfig, error)

	GetTransactions(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)

	// GetBucket returns errs.NotFound when no sale has landed in the bucket yet.
	GetBucket(ctx context.Context, window entity.BucketWindow, startUnixTime int64) (*entity.TransactionBucket, error)
	GetBuckets(ctx context.Context, window entity.BucketWindow, fromUnixTime, toUnixTime int64, limit, offset int32) ([]*entity.TransactionBucket, error)

	GetRawEvents(ctx context.Context, filter RawEventFilter) ([]*entity.RawEvent, error)
}

type MarketplaceWriterDataGateway interface {
	CreateIndexedBlock(ctx context.Context, block *entity.IndexedBlock) error
	SaveConfig(ctx context.Context, config *entity.MarketplaceConfig) error
	CreateTransaction(ctx context.Context, transaction *entity.Transaction) error
	SaveBucket(ctx context.Context, window entity.BucketWindow, bucket *entity.TransactionBucket) error
	CreateRawEvent(ctx context.Context, event *entity.RawEvent) error

	DeleteIndexedBlocksSinceHeight(ctx context.Context, sinceHeight int64) error
	DeleteTransactionsSinceHeight(ctx context.Context, sinceHeight int64) error
	DeleteRawEventsSinceHeight(ctx context.Context, sinceHeight int64) error

	// RebuildBuckets recomputes every bucket from the surviving transaction
	// records. Fee splits are derived from the given percentages, matching how
	// live processing applies the configuration current at processing time.
	RebuildBuckets(ctx context.Context, platformFeePercent, partnerFeePercent decimal.Decimal) error
}

type MarketplaceDataGateway interface {
	MarketplaceReaderDataGateway
	MarketplaceWriterDataGateway

	BeginMarketplaceTx(ctx context.Context) (MarketplaceDataGatewayWithTx, error)
}

type MarketplaceDataGatewayWithTx interface {
	MarketplaceDataGateway
	Tx
}
