package entity

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Transaction is one completed V2 sale. NftTo is the receiving wallet, which
// can differ from the buyer when purchasing on behalf of another account.
// PercentageFeeAmount comes from the sale event itself; FixedFeeAmount is
// taken from the configuration current at processing time.
type Transaction struct {
	Id                  string
	Seller              common.Address
	Buyer               common.Address
	NftTo               common.Address
	TokenId             *big.Int
	Amount              decimal.Decimal
	Price               decimal.Decimal
	NetAmount           decimal.Decimal
	TotalFee            decimal.Decimal
	PercentageFeeAmount decimal.Decimal
	FixedFeeAmount      decimal.Decimal
	IsBuyLimit          bool
	BlockNumber         int64
	BlockTimestamp      time.Time
	TransactionHash     common.Hash
	LogIndex            uint
}
