package postgres

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/entity"
	"github.com/shopspring/decimal"
)

func hashFromHex(s string) common.Hash {
	return common.HexToHash(s)
}

type configModel struct {
	Id                 string
	TotalFeePercent    pgtype.Numeric
	PlatformFeePercent pgtype.Numeric
	PartnerFeePercent  pgtype.Numeric
	MinimumTradePrice  pgtype.Numeric
	Paused             bool
}

func numericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   d.Coefficient(),
		Exp:   d.Exponent(),
		Valid: true,
	}
}

func decimalFromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func numericFromBigInt(v *big.Int) pgtype.Numeric {
	if v == nil {
		v = new(big.Int)
	}
	return pgtype.Numeric{
		Int:   new(big.Int).Set(v),
		Valid: true,
	}
}

func bigIntFromNumeric(n pgtype.Numeric) *big.Int {
	// exact for integer-valued numerics, which is all we store
	return decimalFromNumeric(n).BigInt()
}

func timestampFromTime(t time.Time) pgtype.Timestamp {
	return pgtype.Timestamp{Time: t.UTC(), Valid: true}
}

type transactionModel struct {
	Id                string
	Seller            string
	Buyer             string
	TokenId           pgtype.Numeric
	Amount            pgtype.Numeric
	Price             pgtype.Numeric
	PriceAfterFee     pgtype.Numeric
	TotalFee          pgtype.Numeric
	PlatformFeeAmount pgtype.Numeric
	PartnerFeeAmount  pgtype.Numeric
	IsBuyLimit        bool
	BlockNumber       int64
	BlockTimestamp    pgtype.Timestamp
	TxHash            string
	LogIndex          int64
}

func mapTransactionModel(m transactionModel) *entity.Transaction {
	return &entity.Transaction{
		Id:                m.Id,
		Seller:            common.HexToAddress(m.Seller),
		Buyer:             common.HexToAddress(m.Buyer),
		TokenId:           bigIntFromNumeric(m.TokenId),
		Amount:            decimalFromNumeric(m.Amount),
		Price:             decimalFromNumeric(m.Price),
		PriceAfterFee:     decimalFromNumeric(m.PriceAfterFee),
		TotalFee:          decimalFromNumeric(m.TotalFee),
		PlatformFeeAmount: decimalFromNumeric(m.PlatformFeeAmount),
		PartnerFeeAmount:  decimalFromNumeric(m.PartnerFeeAmount),
		IsBuyLimit:        m.IsBuyLimit,
		BlockNumber:       m.BlockNumber,
		BlockTimestamp:    m.BlockTimestamp.Time,
		TransactionHash:   common.HexToHash(m.TxHash),
		LogIndex:          uint(m.LogIndex),
	}
}

type bucketModel struct {
	StartUnixTime      int64
	TotalAmount        pgtype.Numeric
	TotalPrice         pgtype.Numeric
	TotalPriceAfterFee pgtype.Numeric
	TotalFee           pgtype.Numeric
	TotalPlatformFee   pgtype.Numeric
	TotalPartnerFee    pgtype.Numeric
	TotalTransaction   int64
}

func mapBucketModel(m bucketModel) *entity.TransactionBucket {
	return &entity.TransactionBucket{
		StartUnixTime:      m.StartUnixTime,
		TotalAmount:        bigIntFromNumeric(m.TotalAmount),
		TotalPrice:         decimalFromNumeric(m.TotalPrice),
		TotalPriceAfterFee: decimalFromNumeric(m.TotalPriceAfterFee),
		TotalFee:           decimalFromNumeric(m.TotalFee),
		TotalPlatformFee:   decimalFromNumeric(m.TotalPlatformFee),
		TotalPartnerFee:    decimalFromNumeric(m.TotalPartnerFee),
		TotalTransaction:   m.TotalTransaction,
	}
}
