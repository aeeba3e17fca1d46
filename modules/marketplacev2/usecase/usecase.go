package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/internal/datagateway"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/internal/entity"
)

type Usecase struct {
	marketplaceDg datagateway.MarketplaceV2DataGateway
}

func New(marketplaceDg datagateway.MarketplaceV2DataGateway) *Usecase {
	return &Usecase{
		marketplaceDg: marketplaceDg,
	}
}

func (u *Usecase) GetLatestIndexedBlock(ctx context.Context) (*entity.IndexedBlock, error) {
	block, err := u.marketplaceDg.GetLatestIndexedBlock(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetLatestIndexedBlock")
	}
	return block, nil
}

func (u *Usecase) GetConfig(ctx context.Context) (*entity.MarketplaceConfig, error) {
	config, err := u.marketplaceDg.GetConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetConfig")
	}
	return config, nil
}

func (u *Usecase) GetTransactions(ctx context.Context, filter datagateway.TransactionFilter) ([]*entity.Transaction, error) {
	transactions, err := u.marketplaceDg.GetTransactions(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTransactions")
	}
	return transactions, nil
}

func (u *Usecase) GetBuckets(ctx context.Context, window entity.BucketWindow, fromUnixTime, toUnixTime int64, limit, offset int32) ([]*entity.TransactionBucket, error) {
	buckets, err := u.marketplaceDg.GetBuckets(ctx, window, fromUnixTime, toUnixTime, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetBuckets")
	}
	return buckets, nil
}

func (u *Usecase) GetRawEvents(ctx context.Context, filter datagateway.RawEventFilter) ([]*entity.RawEvent, error) {
	events, err := u.marketplaceDg.GetRawEvents(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetRawEvents")
	}
	return events, nil
}
