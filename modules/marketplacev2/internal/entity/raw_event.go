package entity

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// RawEvent is one marketplace log preserved verbatim. Records are immutable
// once written; the raw-log strategy never folds state, it only appends.
type RawEvent struct {
	Id              string
	Name            string
	Params          json.RawMessage
	BlockNumber     int64
	BlockTimestamp  time.Time
	TransactionHash common.Hash
	LogIndex        uint
}
