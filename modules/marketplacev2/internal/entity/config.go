package entity

import "math/big"

const ConfigId = "1"

// MarketplaceConfig holds the V2 contract fee parameters. PercentageFee is a
// raw value scaled by 1e8 (1e9 == 10%); FixedFee and MinimumTradePrice are
// raw 1e18 base-unit amounts.
type MarketplaceConfig struct {
	Id                string
	PercentageFee     *big.Int
	FixedFee          *big.Int
	MinimumTradePrice *big.Int
	Paused            bool
}

func NewDefaultConfig() *MarketplaceConfig {
	return &MarketplaceConfig{
		Id:                ConfigId,
		PercentageFee:     new(big.Int),
		FixedFee:          new(big.Int),
		MinimumTradePrice: new(big.Int),
		Paused:            false,
	}
}
