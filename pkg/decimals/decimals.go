package decimals

import (
	"math/big"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/shopspring/decimal"
)

const (
	DefaultDivPrecision = 36

	// TokenDecimals is the base-unit scale of the ERC-20 payment token.
	// Monetary event values arrive as integers scaled by 10^18.
	TokenDecimals = 18

	// PercentDecimals is the scale of marketplace fee percentages.
	// A raw value of 10^9 means 10 percent.
	PercentDecimals = 8
)

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// FromBaseUnits converts a raw integer token amount to its decimal
// representation by shifting TokenDecimals places.
func FromBaseUnits(value *big.Int) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(value, -TokenDecimals)
}

// PercentFromRaw converts a raw 10^8-scaled fee percentage to its
// decimal percent value, e.g. raw 60_00000000 -> 60.
func PercentFromRaw(value *big.Int) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(value, -PercentDecimals)
}

// PowerOfTen returns 10^n as a decimal.
func PowerOfTen(n int32) decimal.Decimal {
	return decimal.New(1, n)
}
