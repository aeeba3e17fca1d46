package common

// IndexingStrategy selects how a marketplace module materializes events.
// A deployment runs exactly one strategy per module.
type IndexingStrategy string

const (
	// StrategyProjection folds config events into a mutable singleton and
	// aggregates Sold events into transaction and time-bucket records.
	StrategyProjection IndexingStrategy = "projection"

	// StrategyRawLog persists one immutable record per observed event.
	StrategyRawLog IndexingStrategy = "rawlog"
)

var supportedStrategies = map[IndexingStrategy]struct{}{
	StrategyProjection: {},
	StrategyRawLog:     {},
}

func (s IndexingStrategy) IsSupported() bool {
	_, ok := supportedStrategies[s]
	return ok
}

func (s IndexingStrategy) String() string {
	return string(s)
}
