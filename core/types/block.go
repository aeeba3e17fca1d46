package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

type BlockHeader struct {
	Hash       common.Hash
	Height     int64
	ParentHash common.Hash
	Timestamp  time.Time
}

// Block is one chain block together with the marketplace contract logs it
// carries, ordered by ascending log index.
type Block struct {
	Header BlockHeader
	Logs   []ethtypes.Log
}

func (b *Block) BlockHeader() BlockHeader {
	return b.Header
}

func ParseEthHeader(src *ethtypes.Header) BlockHeader {
	return BlockHeader{
		Hash:       src.Hash(),
		Height:     src.Number.Int64(),
		ParentHash: src.ParentHash,
		Timestamp:  time.Unix(int64(src.Time), 0).UTC(),
	}
}
