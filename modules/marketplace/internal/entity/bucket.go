package entity

import (
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// BucketWindow selects one of the fixed aggregation windows. Month is a flat
// 30 days so that bucket boundaries stay aligned to the unix epoch like the
// hour and day windows do.
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

// WidthSeconds returns the window width in seconds.
func (w BucketWindow) WidthSeconds() int64 {
	switch w {
	case BucketWindowHour:
		return 3600
	case BucketWindowDay:
		return 86400
	case BucketWindowMonth:
		return 2592000
	}
	return 0
}

// Floor truncates a unix timestamp down to the start of its bucket.
func (w BucketWindow) Floor(unixTime int64) int64 {
	width := w.WidthSeconds()
	return (unixTime / width) * width
}

func (w BucketWindow) String() string {
	return string(w)
}

// TransactionBucket accumulates sale totals for one (window, start) pair.
// TotalAmount sums the raw token quantities; monetary totals carry the same
// 1e18 scaling as Transaction. TotalFee is always TotalPrice minus
// TotalPriceAfterFee rather than a running sum, so the three monetary totals
// stay mutually consistent however many events fold into the bucket.
type TransactionBucket struct {
	StartUnixTime      int64
	TotalAmount        *big.Int
	TotalPrice         decimal.Decimal
	TotalPriceAfterFee decimal.Decimal
	TotalFee           decimal.Decimal
	TotalPlatformFee   decimal.Decimal
	TotalPartnerFee    decimal.Decimal
	TotalTransaction   int64
}

// NewTransactionBucket returns an empty bucket starting at the given floored
// unix timestamp.
func NewTransactionBucket(startUnixTime int64) *TransactionBucket {
	return &TransactionBucket{
		StartUnixTime: startUnixTime,
		TotalAmount:   new(big.Int),
	}
}

// Id renders the bucket key the way it is exposed over the API, the bucket
// start time as a decimal string.
func (b *TransactionBucket) Id() string {
	return strconv.FormatInt(b.StartUnixTime, 10)
}
