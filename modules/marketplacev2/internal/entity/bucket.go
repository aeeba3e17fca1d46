package entity

import (
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

type BucketWindow string

const (
	BucketWindowHour  BucketWindow = "hour"
	BucketWindowDay   BucketWindow = "day"
	BucketWindowMonth BucketWindow = "month"
)

var BucketWindows = []BucketWindow{BucketWindowHour, BucketWindowDay, BucketWindowMonth}

func (w BucketWindow) IsSupported() bool {
	switch w {
	case BucketWindowHour, BucketWindowDay, BucketWindowMonth:
		return true
	}
	return false
}

func (w BucketWindow) WidthSeconds() int64 {
	switch w {
	case BucketWindowHour:
		return 3600
	case BucketWindowDay:
		return 86400
	case BucketWindowMonth:
		// flat 30 days, epoch-aligned like the other windows
		return 2592000
	}
	return 0
}

func (w BucketWindow) Floor(unixTime int64) int64 {
	width := w.WidthSeconds()
	return (unixTime / width) * width
}

func (w BucketWindow) String() string {
	return string(w)
}

// TransactionBucket accumulates V2 sale totals for one (window, start) pair.
// TotalFee is TotalPrice minus TotalNetAmount. TotalFixedFee is the scaled
// configured fixed fee times TotalTransaction, and TotalPercentageFee is the
// remainder of TotalFee after the fixed portion.
type TransactionBucket struct {
	StartUnixTime      int64
	TotalAmount        *big.Int
	TotalPrice         decimal.Decimal
	TotalNetAmount     decimal.Decimal
	TotalFee           decimal.Decimal
	TotalPercentageFee decimal.Decimal
	TotalFixedFee      decimal.Decimal
	TotalTransaction   int64
}

func NewTransactionBucket(startUnixTime int64) *TransactionBucket {
	return &TransactionBucket{
		StartUnixTime: startUnixTime,
		TotalAmount:   new(big.Int),
	}
}

func (b *TransactionBucket) Id() string {
	return strconv.FormatInt(b.StartUnixTime, 10)
}
