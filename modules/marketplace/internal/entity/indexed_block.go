package entity

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// IndexedBlock records a block the module finished processing. The stored
// hash is what reorg detection compares against the node's view of the chain.
type IndexedBlock struct {
	Height    int64
	Hash      common.Hash
	Timestamp time.Time
}
