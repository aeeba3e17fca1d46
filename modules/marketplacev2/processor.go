package marketplacev2

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/maxion-tech/marketplace-indexer/common"
	"github.com/maxion-tech/marketplace-indexer/common/errs"
	"github.com/maxion-tech/marketplace-indexer/core/indexer"
	"github.com/maxion-tech/marketplace-indexer/core/types"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/internal/datagateway"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/internal/entity"
	"github.com/maxion-tech/marketplace-indexer/pkg/decimals"
	"github.com/maxion-tech/marketplace-indexer/pkg/logger"
	"github.com/maxion-tech/marketplace-indexer/pkg/logger/slogx"
)

type Processor struct {
	marketplaceDg datagateway.MarketplaceV2DataGateway
	network       common.Network
	strategy      common.IndexingStrategy
	cleanupFuncs  []func(context.Context) error
}

func NewProcessor(
	marketplaceDg datagateway.MarketplaceV2DataGateway,
	network common.Network,
	strategy common.IndexingStrategy,
	cleanupFuncs []func(context.Context) error,
) *Processor {
	return &Processor{
		marketplaceDg: marketplaceDg,
		network:       network,
		strategy:      strategy,
		cleanupFuncs:  cleanupFuncs,
	}
}

// Name implements indexer.Processor.
func (p *Processor) Name() string {
	return "marketplace-v2"
}

// CurrentBlock implements indexer.Processor.
func (p *Processor) CurrentBlock(ctx context.Context) (types.BlockHeader, error) {
	block, err := p.marketplaceDg.GetLatestIndexedBlock(ctx)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return types.BlockHeader{}, errors.WithStack(err)
		}
		return types.BlockHeader{}, errors.Wrap(err, "failed to get latest indexed block")
	}
	return types.BlockHeader{
		Hash:   block.Hash,
		Height: block.Height,
	}, nil
}

// GetIndexedBlock implements indexer.Processor.
func (p *Processor) GetIndexedBlock(ctx context.Context, height int64) (types.BlockHeader, error) {
	block, err := p.marketplaceDg.GetIndexedBlockByHeight(ctx, height)
	if err != nil {
		return types.BlockHeader{}, errors.Wrapf(err, "failed to get indexed block, height: %d", height)
	}
	return types.BlockHeader{
		Hash:   block.Hash,
		Height: block.Height,
	}, nil
}

// Process implements indexer.Processor.
func (p *Processor) Process(ctx context.Context, inputs []*types.Block) error {
	for _, block := range inputs {
		if err := p.processBlock(ctx, block); err != nil {
			return errors.Wrapf(err, "failed to process block %d", block.Header.Height)
		}
	}
	return nil
}

func (p *Processor) processBlock(ctx context.Context, block *types.Block) (err error) {
	qtx, err := p.marketplaceDg.BeginMarketplaceV2Tx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if rollbackErr := qtx.Rollback(ctx); rollbackErr != nil {
			logger.ErrorContext(ctx, "Failed to rollback transaction", slogx.Error(rollbackErr))
		}
	}()

	if err := qtx.CreateIndexedBlock(ctx, &entity.IndexedBlock{
		Height:    block.Header.Height,
		Hash:      block.Header.Hash,
		Timestamp: block.Header.Timestamp,
	}); err != nil {
		return errors.Wrap(err, "failed to create indexed block")
	}

	for _, log := range block.Logs {
		event, ok, err := ParseLog(log, block.Header.Timestamp)
		if err != nil {
			return errors.Wrapf(err, "failed to parse log, tx: %s, log index: %d", log.TxHash, log.Index)
		}
		if !ok {
			logger.DebugContext(ctx, "Skipping unrecognized log",
				slogx.Stringer("tx_hash", log.TxHash),
				slogx.Uint64("log_index", uint64(log.Index)),
			)
			continue
		}

		logger.DebugContext(ctx, "Processing event",
			slogx.String("event", event.Name()),
			slogx.Stringer("tx_hash", log.TxHash),
			slogx.Uint64("log_index", uint64(log.Index)),
		)
		switch p.strategy {
		case common.StrategyProjection:
			err = p.processProjection(ctx, qtx, event)
		case common.StrategyRawLog:
			err = p.processRawLog(ctx, qtx, event)
		default:
			err = errors.Wrapf(errs.Unsupported, "indexing strategy %q", p.strategy)
		}
		if err != nil {
			return errors.Wrapf(err, "failed to process %s event, id: %s", event.Name(), event.Envelope().Id())
		}
	}

	if err := qtx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	logger.InfoContext(ctx, "Processed marketplace-v2 block",
		slogx.Int64("height", block.Header.Height),
		slogx.Stringer("hash", block.Header.Hash),
		slogx.Int("total_logs", len(block.Logs)),
	)
	return nil
}

// RevertData implements indexer.Processor.
func (p *Processor) RevertData(ctx context.Context, from int64) (err error) {
	qtx, err := p.marketplaceDg.BeginMarketplaceV2Tx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if rollbackErr := qtx.Rollback(ctx); rollbackErr != nil {
			logger.ErrorContext(ctx, "Failed to rollback transaction", slogx.Error(rollbackErr))
		}
	}()

	if err := qtx.DeleteIndexedBlocksSinceHeight(ctx, from); err != nil {
		return errors.Wrap(err, "failed to delete indexed blocks")
	}
	switch p.strategy {
	case common.StrategyProjection:
		if err := qtx.DeleteTransactionsSinceHeight(ctx, from); err != nil {
			return errors.Wrap(err, "failed to delete transactions")
		}
		config, err := getOrInitConfig(ctx, qtx)
		if err != nil {
			return errors.Wrap(err, "failed to load config")
		}
		if err := qtx.RebuildBuckets(ctx, decimals.FromBaseUnits(config.FixedFee)); err != nil {
			return errors.Wrap(err, "failed to rebuild buckets")
		}
	case common.StrategyRawLog:
		if err := qtx.DeleteRawEventsSinceHeight(ctx, from); err != nil {
			return errors.Wrap(err, "failed to delete raw events")
		}
	}

	if err := qtx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	logger.InfoContext(ctx, "Reverted marketplace-v2 data",
		slogx.Int64("since", from),
		slogx.String("strategy", p.strategy.String()),
	)
	return nil
}

// Shutdown implements indexer.Processor.
func (p *Processor) Shutdown(ctx context.Context) error {
	for _, cleanupFunc := range p.cleanupFuncs {
		if err := cleanupFunc(ctx); err != nil {
			return errors.Wrap(err, "cleanup function error")
		}
	}
	return nil
}

var _ indexer.Processor[*types.Block] = (*Processor)(nil)
