package datasources

import (
	"context"
	"math/big"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/maxion-tech/marketplace-indexer/core/types"
	"github.com/maxion-tech/marketplace-indexer/internal/subscription"
	"github.com/maxion-tech/marketplace-indexer/pkg/logger"
	"github.com/maxion-tech/marketplace-indexer/pkg/logger/slogx"
)

// maxBlockRangePerFetch limits how many blocks (and one eth_getLogs call)
// are fetched per batch sent to the subscription channel.
const maxBlockRangePerFetch = 500

// Make sure to implement the Datasource interface
var _ Datasource[*types.Block] = (*EVMNodeDatasource)(nil)

// EVMNodeDatasource fetches marketplace contract logs from an EVM
// JSON-RPC node, grouped per block in canonical order.
type EVMNodeDatasource struct {
	client          *ethclient.Client
	contractAddress common.Address
	startBlock      int64
}

func NewEVMNode(client *ethclient.Client, contractAddress common.Address, startBlock int64) *EVMNodeDatasource {
	return &EVMNodeDatasource{
		client:          client,
		contractAddress: contractAddress,
		startBlock:      startBlock,
	}
}

func (d *EVMNodeDatasource) Name() string {
	return "evm_node"
}

// Fetch fetches blocks with contract logs in the given height range.
//
//   - from: block height to start fetching, if -1, it will start from the configured start block
//   - to: block height to stop fetching, if -1, it will fetch until the latest block
func (d *EVMNodeDatasource) Fetch(ctx context.Context, from, to int64) ([]*types.Block, error) {
	ch := make(chan []*types.Block)
	sub, err := d.FetchAsync(ctx, from, to, ch)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer sub.Unsubscribe()

	blocks := make([]*types.Block, 0)
	for {
		select {
		case b := <-ch:
			blocks = append(blocks, b...)
		case <-sub.Done():
			return blocks, nil
		case err := <-sub.Err():
			if err != nil {
				return nil, errors.WithStack(err)
			}
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "context done")
		}
	}
}

// FetchAsync fetches blocks with contract logs asynchronously (non-blocking)
func (d *EVMNodeDatasource) FetchAsync(ctx context.Context, from, to int64, ch chan<- []*types.Block) (*subscription.ClientSubscription[[]*types.Block], error) {
	start, end, skip, err := d.prepareRange(ctx, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare fetch range")
	}

	sub := subscription.NewSubscription(ch)
	if skip {
		if err := sub.UnsubscribeWithContext(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to unsubscribe")
		}
		return sub.Client(), nil
	}

	go func() {
		defer sub.Unsubscribe()
		for chunkStart := start; chunkStart <= end; chunkStart += maxBlockRangePerFetch {
			chunkEnd := chunkStart + maxBlockRangePerFetch - 1
			if chunkEnd > end {
				chunkEnd = end
			}

			blocks, err := d.fetchRange(ctx, chunkStart, chunkEnd)
			if err != nil {
				if err := sub.SendError(ctx, errors.WithStack(err)); err != nil {
					logger.WarnContext(ctx, "Failed to send datasource error to subscription client", slogx.Error(err))
				}
				return
			}

			if err := sub.Send(ctx, blocks); err != nil {
				if !sub.IsClosed() {
					logger.WarnContext(ctx, "Failed to send blocks to subscription client", slogx.Error(err))
				}
				return
			}
		}
	}()

	return sub.Client(), nil
}

// GetBlockHeader returns the chain block header at the given height.
func (d *EVMNodeDatasource) GetBlockHeader(ctx context.Context, height int64) (types.BlockHeader, error) {
	header, err := d.client.HeaderByNumber(ctx, big.NewInt(height))
	if err != nil {
		return types.BlockHeader{}, errors.Wrapf(err, "failed to get block header, height: %d", height)
	}
	return types.ParseEthHeader(header), nil
}

// fetchRange filters contract logs for [from, to] with one eth_getLogs
// call and assembles one types.Block per height, logs ordered by log index.
func (d *EVMNodeDatasource) fetchRange(ctx context.Context, from, to int64) ([]*types.Block, error) {
	logs, err := d.client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: big.NewInt(from),
		ToBlock:   big.NewInt(to),
		Addresses: []common.Address{d.contractAddress},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to filter logs, range: %d-%d", from, to)
	}

	logsByHeight := make(map[int64][]ethtypes.Log)
	for _, log := range logs {
		if log.Removed {
			continue
		}
		height := int64(log.BlockNumber)
		logsByHeight[height] = append(logsByHeight[height], log)
	}
	for _, blockLogs := range logsByHeight {
		sort.Slice(blockLogs, func(i, j int) bool { return blockLogs[i].Index < blockLogs[j].Index })
	}

	blocks := make([]*types.Block, 0, to-from+1)
	for height := from; height <= to; height++ {
		header, err := d.GetBlockHeader(ctx, height)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		blocks = append(blocks, &types.Block{
			Header: header,
			Logs:   logsByHeight[height],
		})
	}
	return blocks, nil
}

func (d *EVMNodeDatasource) prepareRange(ctx context.Context, fromHeight, toHeight int64) (start, end int64, skip bool, err error) {
	start = fromHeight
	end = toHeight

	// get current chain height
	latestBlockHeight, err := d.client.BlockNumber(ctx)
	if err != nil {
		return -1, -1, false, errors.Wrap(err, "failed to get latest block number")
	}

	// set start to the configured contract deployment block
	if start < 0 || start < d.startBlock {
		start = d.startBlock
	}

	// set end to current chain height if
	// - end is -1
	// - end is greater than current chain height
	if end < 0 || end > int64(latestBlockHeight) {
		end = int64(latestBlockHeight)
	}

	// if start is greater than end, skip this round
	if start > end {
		return -1, -1, true, nil
	}

	return start, end, false, nil
}
