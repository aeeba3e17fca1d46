package marketplacev2

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/samber/lo"
)

const marketplaceV2ABIJSON = `[
	{"type":"event","name":"Sold","inputs":[
		{"name":"seller","type":"address","indexed":false},
		{"name":"buyer","type":"address","indexed":false},
		{"name":"nftTo","type":"address","indexed":false},
		{"name":"tokenId","type":"uint256","indexed":false},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"price","type":"uint256","indexed":false},
		{"name":"netAmount","type":"uint256","indexed":false},
		{"name":"percentageFeeAmount","type":"uint256","indexed":false},
		{"name":"fixedFeeAmount","type":"uint256","indexed":false},
		{"name":"isBuyLimit","type":"bool","indexed":false}]},
	{"type":"event","name":"FeeUpdated","inputs":[
		{"name":"newPercentageFee","type":"uint256","indexed":false},
		{"name":"newFixedFee","type":"uint256","indexed":false}]},
	{"type":"event","name":"MinimumTradePriceUpdated","inputs":[
		{"name":"newMinimumTradePrice","type":"uint256","indexed":false}]},
	{"type":"event","name":"Paused","inputs":[
		{"name":"account","type":"address","indexed":false}]},
	{"type":"event","name":"Unpaused","inputs":[
		{"name":"account","type":"address","indexed":false}]},
	{"type":"event","name":"RoleAdminChanged","inputs":[
		{"name":"role","type":"bytes32","indexed":true},
		{"name":"previousAdminRole","type":"bytes32","indexed":true},
		{"name":"newAdminRole","type":"bytes32","indexed":true}]},
	{"type":"event","name":"RoleGranted","inputs":[
		{"name":"role","type":"bytes32","indexed":true},
		{"name":"account","type":"address","indexed":true},
		{"name":"sender","type":"address","indexed":true}]},
	{"type":"event","name":"RoleRevoked","inputs":[
		{"name":"role","type":"bytes32","indexed":true},
		{"name":"account","type":"address","indexed":true},
		{"name":"sender","type":"address","indexed":true}]}
]`

var marketplaceV2ABI = utils.Must(abi.JSON(strings.NewReader(marketplaceV2ABIJSON)))

type Envelope struct {
	BlockNumber     int64
	BlockTimestamp  time.Time
	TransactionHash common.Hash
	LogIndex        uint
}

func (e Envelope) Id() string {
	return fmt.Sprintf("%s-%d", e.TransactionHash.Hex(), e.LogIndex)
}

type Event interface {
	Name() string
	Envelope() Envelope
}

type SoldEvent struct {
	Meta                Envelope
	Seller              common.Address
	Buyer               common.Address
	NftTo               common.Address
	TokenId             *big.Int
	Amount              *big.Int
	Price               *big.Int
	NetAmount           *big.Int
	PercentageFeeAmount *big.Int
	FixedFeeAmount      *big.Int
	IsBuyLimit          bool
}

type FeeUpdatedEvent struct {
	Meta             Envelope
	NewPercentageFee *big.Int
	NewFixedFee      *big.Int
}

type MinimumTradePriceUpdatedEvent struct {
	Meta                 Envelope
	NewMinimumTradePrice *big.Int
}

type PausedEvent struct {
	Meta    Envelope
	Account common.Address
}

type UnpausedEvent struct {
	Meta    Envelope
	Account common.Address
}

type RoleAdminChangedEvent struct {
	Meta              Envelope
	Role              common.Hash
	PreviousAdminRole common.Hash
	NewAdminRole      common.Hash
}

type RoleGrantedEvent struct {
	Meta    Envelope
	Role    common.Hash
	Account common.Address
	Sender  common.Address
}

type RoleRevokedEvent struct {
	Meta    Envelope
	Role    common.Hash
	Account common.Address
	Sender  common.Address
}

func (e *SoldEvent) Name() string                     { return "Sold" }
func (e *FeeUpdatedEvent) Name() string               { return "FeeUpdated" }
func (e *MinimumTradePriceUpdatedEvent) Name() string { return "MinimumTradePriceUpdated" }
func (e *PausedEvent) Name() string                   { return "Paused" }
func (e *UnpausedEvent) Name() string                 { return "Unpaused" }
func (e *RoleAdminChangedEvent) Name() string         { return "RoleAdminChanged" }
func (e *RoleGrantedEvent) Name() string              { return "RoleGranted" }
func (e *RoleRevokedEvent) Name() string              { return "RoleRevoked" }

func (e *SoldEvent) Envelope() Envelope                     { return e.Meta }
func (e *FeeUpdatedEvent) Envelope() Envelope               { return e.Meta }
func (e *MinimumTradePriceUpdatedEvent) Envelope() Envelope { return e.Meta }
func (e *PausedEvent) Envelope() Envelope                   { return e.Meta }
func (e *UnpausedEvent) Envelope() Envelope                 { return e.Meta }
func (e *RoleAdminChangedEvent) Envelope() Envelope         { return e.Meta }
func (e *RoleGrantedEvent) Envelope() Envelope              { return e.Meta }
func (e *RoleRevokedEvent) Envelope() Envelope              { return e.Meta }

func indexedInputs(abiEvent *abi.Event) abi.Arguments {
	return lo.Filter(abiEvent.Inputs, func(arg abi.Argument, _ int) bool { return arg.Indexed })
}

func newEnvelope(log ethtypes.Log, blockTimestamp time.Time) Envelope {
	return Envelope{
		BlockNumber:     int64(log.BlockNumber),
		BlockTimestamp:  blockTimestamp,
		TransactionHash: log.TxHash,
		LogIndex:        log.Index,
	}
}

// ParseLog decodes a V2 contract log into its typed event. Unknown topics
// return ok == false.
func ParseLog(log ethtypes.Log, blockTimestamp time.Time) (event Event, ok bool, err error) {
	if len(log.Topics) == 0 {
		return nil, false, nil
	}
	abiEvent, err := marketplaceV2ABI.EventByID(log.Topics[0])
	if err != nil {
		return nil, false, nil
	}
	meta := newEnvelope(log, blockTimestamp)
	switch abiEvent.Name {
	case "Sold":
		var out SoldEvent
		if err := marketplaceV2ABI.UnpackIntoInterface(&out, abiEvent.Name, log.Data); err != nil {
			return nil, false, errors.Wrapf(err, "can't unpack %s event data", abiEvent.Name)
		}
		out.Meta = meta
		return &out, true, nil
	case "FeeUpdated":
		var out FeeUpdatedEvent
		if err := marketplaceV2ABI.UnpackIntoInterface(&out, abiEvent.Name, log.Data); err != nil {
			return nil, false, errors.Wrapf(err, "can't unpack %s event data", abiEvent.Name)
		}
		out.Meta = meta
		return &out, true, nil
	case "MinimumTradePriceUpdated":
		var out MinimumTradePriceUpdatedEvent
		if err := marketplaceV2ABI.UnpackIntoInterface(&out, abiEvent.Name, log.Data); err != nil {
			return nil, false, errors.Wrapf(err, "can't unpack %s event data", abiEvent.Name)
		}
		out.Meta = meta
		return &out, true, nil
	case "Paused":
		var out PausedEvent
		if err := marketplaceV2ABI.UnpackIntoInterface(&out, abiEvent.Name, log.Data); err != nil {
			return nil, false, errors.Wrapf(err, "can't unpack %s event data", abiEvent.Name)
		}
		out.Meta = meta
		return &out, true, nil
	case "Unpaused":
		var out UnpausedEvent
		if err := marketplaceV2ABI.UnpackIntoInterface(&out, abiEvent.Name, log.Data); err != nil {
			return nil, false, errors.Wrapf(err, "can't unpack %s event data", abiEvent.Name)
		}
		out.Meta = meta
		return &out, true, nil
	case "RoleAdminChanged":
		var out RoleAdminChangedEvent
		if err := abi.ParseTopics(&out, indexedInputs(abiEvent), log.Topics[1:]); err != nil {
			return nil, false, errors.Wrapf(err, "can't parse %s event topics", abiEvent.Name)
		}
		out.Meta = meta
		return &out, true, nil
	case "RoleGranted":
		var out RoleGrantedEvent
		if err := abi.ParseTopics(&out, indexedInputs(abiEvent), log.Topics[1:]); err != nil {
			return nil, false, errors.Wrapf(err, "can't parse %s event topics", abiEvent.Name)
		}
		out.Meta = meta
		return &out, true, nil
	case "RoleRevoked":
		var out RoleRevokedEvent
		if err := abi.ParseTopics(&out, indexedInputs(abiEvent), log.Topics[1:]); err != nil {
			return nil, false, errors.Wrapf(err, "can't parse %s event topics", abiEvent.Name)
		}
		out.Meta = meta
		return &out, true, nil
	}
	return nil, false, nil
}
