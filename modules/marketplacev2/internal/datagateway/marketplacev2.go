package datagateway

import (
	"context"

	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/internal/entity"
	"github.com/shopspring/decimal"
)

type TransactionFilter struct {
	Seller    string
	Buyer     string
	NftTo     string
	TokenId   string
	FromBlock int64
	ToBlock   int64
	Limit     int32
	Offset    int32
}

type RawEventFilter struct {
	Name      string
	FromBlock int64
	ToBlock   int64
	Limit     int32
	Offset    int32
}

type MarketplaceV2ReaderDataGateway interface {
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

type MarketplaceV2WriterDataGateway interface {
	CreateIndexedBlock(ctx context.Context, block *entity.IndexedBlock) error
	SaveConfig(ctx context.Context, config *entity.MarketplaceConfig) error
	CreateTransaction(ctx context.Context, transaction *entity.Transaction) error
	SaveBucket(ctx context.Context, window entity.BucketWindow, bucket *entity.TransactionBucket) error
	CreateRawEvent(ctx context.Context, event *entity.RawEvent) error

	DeleteIndexedBlocksSinceHeight(ctx context.Context, sinceHeight int64) error
	DeleteTransactionsSinceHeight(ctx context.Context, sinceHeight int64) error
	DeleteRawEventsSinceHeight(ctx context.Context, sinceHeight int64) error

	// RebuildBuckets recomputes every bucket from the surviving transaction
	// records using the given scaled fixed fee per sale.
	RebuildBuckets(ctx context.Context, scaledFixedFee decimal.Decimal) error
}

type MarketplaceV2DataGateway interface {
	MarketplaceV2ReaderDataGateway
	MarketplaceV2WriterDataGateway

	BeginMarketplaceV2Tx(ctx context.Context) (MarketplaceV2DataGatewayWithTx, error)
}

type MarketplaceV2DataGatewayWithTx interface {
	MarketplaceV2DataGateway
	Tx
}
