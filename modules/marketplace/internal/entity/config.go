package entity

import "math/big"

// ConfigId is the primary key of the config singleton. The contract keeps a
// single global fee configuration, so one row is all there ever is.
const ConfigId = "1"

// MarketplaceConfig mirrors the contract's fee and trading parameters as of
// the latest processed event. Percent fields are raw contract values scaled
// by 1e8 (1e9 == 10%); MinimumTradePrice is a raw 1e18 base-unit amount.
type MarketplaceConfig struct {
	Id                 string
	TotalFeePercent    *big.Int
	PlatformFeePercent *big.Int
	PartnerFeePercent  *big.Int
	MinimumTradePrice  *big.Int
	Paused             bool
}

// NewDefaultConfig returns the zero-valued singleton used before the first
// configuration event is observed on chain.
func NewDefaultConfig() *MarketplaceConfig {
	return &MarketplaceConfig{
		Id:                 ConfigId,
		TotalFeePercent:    new(big.Int),
		PlatformFeePercent: new(big.Int),
		PartnerFeePercent:  new(big.Int),
		MinimumTradePrice:  new(big.Int),
		Paused:             false,
	}
}
