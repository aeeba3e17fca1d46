package postgres

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/internal/entity"
	"github.com/shopspring/decimal"
)

func hashFromHex(s string) common.Hash {
	return common.HexToHash(s)
}

type configModel struct {
	Id                string
	PercentageFee     pgtype.Numeric
	FixedFee          pgtype.Numeric
	MinimumTradePrice pgtype.Numeric
	Paused            bool
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
	Id                  string
	Seller              string
	Buyer               string
	NftTo               string
	TokenId             pgtype.Numeric
	Amount              pgtype.Numeric
	Price               pgtype.Numeric
	NetAmount           pgtype.Numeric
	TotalFee            pgtype.Numeric
	PercentageFeeAmount pgtype.Numeric
	FixedFeeAmount      pgtype.Numeric
	IsBuyLimit          bool
	BlockNumber         int64
	BlockTimestamp      pgtype.Timestamp
	TxHash              string
	LogIndex            int64
}

func mapTransactionModel(m transactionModel) *entity.Transaction {
	return &entity.Transaction{
		Id:                  m.Id,
		Seller:              common.HexToAddress(m.Seller),
		Buyer:               common.HexToAddress(m.Buyer),
		NftTo:               common.HexToAddress(m.NftTo),
		TokenId:             bigIntFromNumeric(m.TokenId),
		Amount:              decimalFromNumeric(m.Amount),
		Price:               decimalFromNumeric(m.Price),
		NetAmount:           decimalFromNumeric(m.NetAmount),
		TotalFee:            decimalFromNumeric(m.TotalFee),
		PercentageFeeAmount: decimalFromNumeric(m.PercentageFeeAmount),
		FixedFeeAmount:      decimalFromNumeric(m.FixedFeeAmount),
		IsBuyLimit:          m.IsBuyLimit,
		BlockNumber:         m.BlockNumber,
		BlockTimestamp:      m.BlockTimestamp.Time,
		TransactionHash:     common.HexToHash(m.TxHash),
		LogIndex:            uint(m.LogIndex),
	}
}

type bucketModel struct {
	StartUnixTime      int64
	TotalAmount        pgtype.Numeric
	TotalPrice         pgtype.Numeric
	TotalNetAmount     pgtype.Numeric
	TotalFee           pgtype.Numeric
	TotalPercentageFee pgtype.Numeric
	TotalFixedFee      pgtype.Numeric
	TotalTransaction   int64
}

func mapBucketModel(m bucketModel) *entity.TransactionBucket {
	return &entity.TransactionBucket{
		StartUnixTime:      m.StartUnixTime,
		TotalAmount:        bigIntFromNumeric(m.TotalAmount),
		TotalPrice:         decimalFromNumeric(m.TotalPrice),
		TotalNetAmount:     decimalFromNumeric(m.TotalNetAmount),
		TotalFee:           decimalFromNumeric(m.TotalFee),
		TotalPercentageFee: decimalFromNumeric(m.TotalPercentageFee),
		TotalFixedFee:      decimalFromNumeric(m.TotalFixedFee),
		TotalTransaction:   m.TotalTransaction,
	}
}
