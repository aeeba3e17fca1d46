package entity

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Transaction is one completed sale. The id is the transaction hash joined
// with the log index, so a single on-chain transaction that fills multiple
// orders yields one record per Sold event.
type Transaction struct {
	Id                string
	Seller            common.Address
	Buyer             common.Address
	TokenId           *big.Int
	Amount            decimal.Decimal
	Price             decimal.Decimal
	PriceAfterFee     decimal.Decimal
	TotalFee          decimal.Decimal
	PlatformFeeAmount decimal.Decimal
	PartnerFeeAmount  decimal.Decimal
	IsBuyLimit        bool
	BlockNumber       int64
	BlockTimestamp    time.Time
	TransactionHash   common.Hash
	LogIndex          uint
}
