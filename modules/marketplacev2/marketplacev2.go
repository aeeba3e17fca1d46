package marketplacev2

import (
	"context"

	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gofiber/fiber/v2"
	"github.com/maxion-tech/marketplace-indexer/common/errs"
	"github.com/maxion-tech/marketplace-indexer/core"
	"github.com/maxion-tech/marketplace-indexer/core/datasources"
	"github.com/maxion-tech/marketplace-indexer/core/indexer"
	"github.com/maxion-tech/marketplace-indexer/internal/config"
	"github.com/maxion-tech/marketplace-indexer/internal/postgres"
	marketplacev2api "github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/api"
	marketplacev2postgres "github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/repository/postgres"
	marketplacev2usecase "github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/usecase"
	"github.com/maxion-tech/marketplace-indexer/pkg/logger"
	"github.com/samber/do/v2"
)

func New(injector do.Injector) (core.IndexerWorker, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	moduleConf := conf.Modules.MarketplaceV2

	if !moduleConf.Strategy.IsSupported() {
		return nil, errors.Wrapf(errs.Unsupported, "%q indexing strategy is not supported", moduleConf.Strategy)
	}
	if !ethcommon.IsHexAddress(moduleConf.ContractAddress) {
		return nil, errors.Wrapf(errs.InvalidArgument, "invalid contract address %q", moduleConf.ContractAddress)
	}

	var cleanupFuncs []func(context.Context) error
	pg, err := postgres.NewPool(ctx, moduleConf.Postgres)
	if err != nil {
		if errors.Is(err, errs.InvalidArgument) {
			return nil, errors.Wrap(err, "invalid Postgres configuration for indexer")
		}
		return nil, errors.Wrap(err, "can't create Postgres connection pool")
	}
	cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
		pg.Close()
		return nil
	})
	repo := marketplacev2postgres.NewRepository(pg)

	ethClient := do.MustInvoke[*ethclient.Client](injector)
	datasource := datasources.NewEVMNode(ethClient, ethcommon.HexToAddress(moduleConf.ContractAddress), moduleConf.StartBlock)

	processor := NewProcessor(repo, conf.Network, moduleConf.Strategy, cleanupFuncs)

	// Mount API
	httpServer := do.MustInvoke[*fiber.App](injector)
	handler := marketplacev2api.NewHTTPHandler(conf.Network, marketplacev2usecase.New(repo))
	if err := handler.Mount(httpServer); err != nil {
		return nil, errors.Wrap(err, "can't mount marketplace-v2 API")
	}
	logger.InfoContext(ctx, "Mounted HTTP handler")

	indexer := indexer.New(processor, datasource)
	return indexer, nil
}
