package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/maxion-tech/marketplace-indexer/common/errs"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/datagateway"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/entity"
	"github.com/shopspring/decimal"
)

func (r *Repository) GetLatestIndexedBlock(ctx context.Context) (*entity.IndexedBlock, error) {
	var block entity.IndexedBlock
	var hash string
	err := r.queryable().QueryRow(ctx, `
		SELECT block_height, block_hash, block_timestamp
		FROM marketplace_indexed_blocks
		ORDER BY block_height DESC
		LIMIT 1
	`).Scan(&block.Height, &hash, &block.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to query latest indexed block")
	}
	block.Hash = hashFromHex(hash)
	return &block, nil
}

func (r *Repository) GetIndexedBlockByHeight(ctx context.Context, height int64) (*entity.IndexedBlock, error) {
	var block entity.IndexedBlock
	var hash string
	err := r.queryable().QueryRow(ctx, `
		SELECT block_height, block_hash, block_timestamp
		FROM marketplace_indexed_blocks
		WHERE block_height = $1
	`, height).Scan(&block.Height, &hash, &block.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrapf(err, "failed to query indexed block %d", height)
	}
	block.Hash = hashFromHex(hash)
	return &block, nil
}

func (r *Repository) CreateIndexedBlock(ctx context.Context, block *entity.IndexedBlock) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO marketplace_indexed_blocks (block_height, block_hash, block_timestamp)
		VALUES ($1, $2, $3)
		ON CONFLICT (block_height) DO UPDATE SET
			block_hash = excluded.block_hash,
			block_timestamp = excluded.block_timestamp
	`, block.Height, block.Hash.Hex(), timestampFromTime(block.Timestamp))
	return errors.Wrap(err, "failed to insert indexed block")
}

func (r *Repository) GetConfig(ctx context.Context) (*entity.MarketplaceConfig, error) {
	var (
		config entity.MarketplaceConfig
		model  configModel
	)
	err := r.queryable().QueryRow(ctx, `
		SELECT id, total_fee_percent, platform_fee_percent, partner_fee_percent, minimum_trade_price, paused
		FROM marketplace_config
		WHERE id = $1
	`, entity.ConfigId).Scan(
		&model.Id,
		&model.TotalFeePercent,
		&model.PlatformFeePercent,
		&model.PartnerFeePercent,
		&model.MinimumTradePrice,
		&model.Paused,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to query config")
	}
	config = entity.MarketplaceConfig{
		Id:                 model.Id,
		TotalFeePercent:    bigIntFromNumeric(model.TotalFeePercent),
		PlatformFeePercent: bigIntFromNumeric(model.PlatformFeePercent),
		PartnerFeePercent:  bigIntFromNumeric(model.PartnerFeePercent),
		MinimumTradePrice:  bigIntFromNumeric(model.MinimumTradePrice),
		Paused:             model.Paused,
	}
	return &config, nil
}

func (r *Repository) SaveConfig(ctx context.Context, config *entity.MarketplaceConfig) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO marketplace_config (id, total_fee_percent, platform_fee_percent, partner_fee_percent, minimum_trade_price, paused)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			total_fee_percent = excluded.total_fee_percent,
			platform_fee_percent = excluded.platform_fee_percent,
			partner_fee_percent = excluded.partner_fee_percent,
			minimum_trade_price = excluded.minimum_trade_price,
			paused = excluded.paused
	`,
		config.Id,
		numericFromBigInt(config.TotalFeePercent),
		numericFromBigInt(config.PlatformFeePercent),
		numericFromBigInt(config.PartnerFeePercent),
		numericFromBigInt(config.MinimumTradePrice),
		config.Paused,
	)
	return errors.Wrap(err, "failed to upsert config")
}

func (r *Repository) CreateTransaction(ctx context.Context, transaction *entity.Transaction) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO marketplace_transactions (
			id, seller, buyer, token_id, amount, price, price_after_fee,
			total_fee, platform_fee_amount, partner_fee_amount, is_buy_limit,
			block_number, block_timestamp, tx_hash, log_index
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		transaction.Id,
		transaction.Seller.Hex(),
		transaction.Buyer.Hex(),
		numericFromBigInt(transaction.TokenId),
		numericFromDecimal(transaction.Amount),
		numericFromDecimal(transaction.Price),
		numericFromDecimal(transaction.PriceAfterFee),
		numericFromDecimal(transaction.TotalFee),
		numericFromDecimal(transaction.PlatformFeeAmount),
		numericFromDecimal(transaction.PartnerFeeAmount),
		transaction.IsBuyLimit,
		transaction.BlockNumber,
		timestampFromTime(transaction.BlockTimestamp),
		transaction.TransactionHash.Hex(),
		int64(transaction.LogIndex),
	)
	return errors.Wrap(err, "failed to insert transaction")
}

func (r *Repository) GetTransactions(ctx context.Context, filter datagateway.TransactionFilter) ([]*entity.Transaction, error) {
	var (
		conds []string
		args  []any
	)
	addCond := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Seller != "" {
		addCond("seller = $%d", filter.Seller)
	}
	if filter.Buyer != "" {
		addCond("buyer = $%d", filter.Buyer)
	}
	if filter.TokenId != "" {
		addCond("token_id = $%d::numeric", filter.TokenId)
	}
	if filter.FromBlock > 0 {
		addCond("block_number >= $%d", filter.FromBlock)
	}
	if filter.ToBlock > 0 {
		addCond("block_number <= $%d", filter.ToBlock)
	}

	query := `
		SELECT id, seller, buyer, token_id, amount, price, price_after_fee,
			total_fee, platform_fee_amount, partner_fee_amount, is_buy_limit,
			block_number, block_timestamp, tx_hash, log_index
		FROM marketplace_transactions
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY block_number DESC, log_index DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.queryable().Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query transactions")
	}
	defer rows.Close()

	var transactions []*entity.Transaction
	for rows.Next() {
		var m transactionModel
		if err := rows.Scan(
			&m.Id, &m.Seller, &m.Buyer, &m.TokenId, &m.Amount, &m.Price, &m.PriceAfterFee,
			&m.TotalFee, &m.PlatformFeeAmount, &m.PartnerFeeAmount, &m.IsBuyLimit,
			&m.BlockNumber, &m.BlockTimestamp, &m.TxHash, &m.LogIndex,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan transaction row")
		}
		transactions = append(transactions, mapTransactionModel(m))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate transaction rows")
	}
	return transactions, nil
}

func (r *Repository) GetBucket(ctx context.Context, window entity.BucketWindow, startUnixTime int64) (*entity.TransactionBucket, error) {
	var m bucketModel
	err := r.queryable().QueryRow(ctx, `
		SELECT start_unix_time, total_amount, total_price, total_price_after_fee,
			total_fee, total_platform_fee, total_partner_fee, total_transaction
		FROM marketplace_transaction_buckets
		WHERE bucket_window = $1 AND start_unix_time = $2
	`, window.String(), startUnixTime).Scan(
		&m.StartUnixTime, &m.TotalAmount, &m.TotalPrice, &m.TotalPriceAfterFee,
		&m.TotalFee, &m.TotalPlatformFee, &m.TotalPartnerFee, &m.TotalTransaction,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to query bucket")
	}
	return mapBucketModel(m), nil
}

func (r *Repository) GetBuckets(ctx context.Context, window entity.BucketWindow, fromUnixTime, toUnixTime int64, limit, offset int32) ([]*entity.TransactionBucket, error) {
	var (
		conds = []string{"bucket_window = $1"}
		args  = []any{window.String()}
	)
	if fromUnixTime > 0 {
		args = append(args, fromUnixTime)
		conds = append(conds, fmt.Sprintf("start_unix_time >= $%d", len(args)))
	}
	if toUnixTime > 0 {
		args = append(args, toUnixTime)
		conds = append(conds, fmt.Sprintf("start_unix_time <= $%d", len(args)))
	}

	query := `
		SELECT start_unix_time, total_amount, total_price, total_price_after_fee,
			total_fee, total_platform_fee, total_partner_fee, total_transaction
		FROM marketplace_transaction_buckets
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY start_unix_time DESC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.queryable().Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query buckets")
	}
	defer rows.Close()

	var buckets []*entity.TransactionBucket
	for rows.Next() {
		var m bucketModel
		if err := rows.Scan(
			&m.StartUnixTime, &m.TotalAmount, &m.TotalPrice, &m.TotalPriceAfterFee,
			&m.TotalFee, &m.TotalPlatformFee, &m.TotalPartnerFee, &m.TotalTransaction,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan bucket row")
		}
		buckets = append(buckets, mapBucketModel(m))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate bucket rows")
	}
	return buckets, nil
}

func (r *Repository) SaveBucket(ctx context.Context, window entity.BucketWindow, bucket *entity.TransactionBucket) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO marketplace_transaction_buckets (
			bucket_window, start_unix_time, total_amount, total_price, total_price_after_fee,
			total_fee, total_platform_fee, total_partner_fee, total_transaction
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (bucket_window, start_unix_time) DO UPDATE SET
			total_amount = excluded.total_amount,
			total_price = excluded.total_price,
			total_price_after_fee = excluded.total_price_after_fee,
			total_fee = excluded.total_fee,
			total_platform_fee = excluded.total_platform_fee,
			total_partner_fee = excluded.total_partner_fee,
			total_transaction = excluded.total_transaction
	`,
		window.String(),
		bucket.StartUnixTime,
		numericFromBigInt(bucket.TotalAmount),
		numericFromDecimal(bucket.TotalPrice),
		numericFromDecimal(bucket.TotalPriceAfterFee),
		numericFromDecimal(bucket.TotalFee),
		numericFromDecimal(bucket.TotalPlatformFee),
		numericFromDecimal(bucket.TotalPartnerFee),
		bucket.TotalTransaction,
	)
	return errors.Wrap(err, "failed to upsert bucket")
}

func (r *Repository) CreateRawEvent(ctx context.Context, event *entity.RawEvent) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO marketplace_raw_events (id, name, params, block_number, block_timestamp, tx_hash, log_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		event.Id,
		event.Name,
		[]byte(event.Params),
		event.BlockNumber,
		timestampFromTime(event.BlockTimestamp),
		event.TransactionHash.Hex(),
		int64(event.LogIndex),
	)
	return errors.Wrap(err, "failed to insert raw event")
}

func (r *Repository) GetRawEvents(ctx context.Context, filter datagateway.RawEventFilter) ([]*entity.RawEvent, error) {
	var (
		conds []string
		args  []any
	)
	addCond := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Name != "" {
		addCond("name = $%d", filter.Name)
	}
	if filter.FromBlock > 0 {
		addCond("block_number >= $%d", filter.FromBlock)
	}
	if filter.ToBlock > 0 {
		addCond("block_number <= $%d", filter.ToBlock)
	}

	query := `
		SELECT id, name, params, block_number, block_timestamp, tx_hash, log_index
		FROM marketplace_raw_events
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY block_number DESC, log_index DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.queryable().Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query raw events")
	}
	defer rows.Close()

	var events []*entity.RawEvent
	for rows.Next() {
		var (
			event   entity.RawEvent
			ts      time.Time
			txHash  string
			logIdx  int64
			rawJSON []byte
		)
		if err := rows.Scan(&event.Id, &event.Name, &rawJSON, &event.BlockNumber, &ts, &txHash, &logIdx); err != nil {
			return nil, errors.Wrap(err, "failed to scan raw event row")
		}
		event.Params = rawJSON
		event.BlockTimestamp = ts
		event.TransactionHash = hashFromHex(txHash)
		event.LogIndex = uint(logIdx)
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate raw event rows")
	}
	return events, nil
}

func (r *Repository) DeleteIndexedBlocksSinceHeight(ctx context.Context, sinceHeight int64) error {
	_, err := r.queryable().Exec(ctx, `DELETE FROM marketplace_indexed_blocks WHERE block_height >= $1`, sinceHeight)
	return errors.Wrap(err, "failed to delete indexed blocks")
}

func (r *Repository) DeleteTransactionsSinceHeight(ctx context.Context, sinceHeight int64) error {
	_, err := r.queryable().Exec(ctx, `DELETE FROM marketplace_transactions WHERE block_number >= $1`, sinceHeight)
	return errors.Wrap(err, "failed to delete transactions")
}

func (r *Repository) DeleteRawEventsSinceHeight(ctx context.Context, sinceHeight int64) error {
	_, err := r.queryable().Exec(ctx, `DELETE FROM marketplace_raw_events WHERE block_number >= $1`, sinceHeight)
	return errors.Wrap(err, "failed to delete raw events")
}

// RebuildBuckets derives every bucket from scratch out of the surviving
// transaction rows. The percentage arguments are shares of one hundred and
// are applied to the rebuilt fee totals the same way live folding applies
// the current configuration.
func (r *Repository) RebuildBuckets(ctx context.Context, platformFeePercent, partnerFeePercent decimal.Decimal) error {
	if _, err := r.queryable().Exec(ctx, `DELETE FROM marketplace_transaction_buckets`); err != nil {
		return errors.Wrap(err, "failed to clear buckets")
	}
	for _, window := range entity.BucketWindows {
		_, err := r.queryable().Exec(ctx, `
			INSERT INTO marketplace_transaction_buckets (
				bucket_window, start_unix_time, total_amount, total_price, total_price_after_fee,
				total_fee, total_platform_fee, total_partner_fee, total_transaction
			)
			SELECT
				$1,
				(floor(extract(epoch FROM block_timestamp))::bigint / $2::bigint) * $2::bigint,
				sum(amount) * 1000000000000000000::numeric,
				sum(price),
				sum(price_after_fee),
				sum(price) - sum(price_after_fee),
				(sum(price) - sum(price_after_fee)) * $3::numeric / 100,
				(sum(price) - sum(price_after_fee)) * $4::numeric / 100,
				count(*)
			FROM marketplace_transactions
			GROUP BY 2
		`,
			window.String(),
			window.WidthSeconds(),
			numericFromDecimal(platformFeePercent),
			numericFromDecimal(partnerFeePercent),
		)
		if err != nil {
			return errors.Wrapf(err, "failed to rebuild %s buckets", window)
		}
	}
	return nil
}
