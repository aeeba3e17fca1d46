package marketplace

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

const marketplaceABIJSON = `[
	{"type":"event","name":"Sold","inputs":[
		{"name":"seller","type":"address","indexed":false},
		{"name":"buyer","type":"address","indexed":false},
		{"name":"tokenId","type":"uint256","indexed":false},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"price","type":"uint256","indexed":false},
		{"name":"priceAfterFee","type":"uint256","indexed":false},
		{"name":"isBuyLimit","type":"bool","indexed":false}]},
	{"type":"event","name":"SetFeePercent","inputs":[
		{"name":"newPlatformFeePercent","type":"uint256","indexed":false},
		{"name":"newPartnerFeePercent","type":"uint256","indexed":false}]},
	{"type":"event","name":"SetTotalFeePercent","inputs":[
		{"name":"newTotalFeePercent","type":"uint256","indexed":false}]},
	{"type":"event","name":"SetMinimumTradePrice","inputs":[
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

var marketplaceABI = utils.Must(abi.JSON(strings.NewReader(marketplaceABIJSON)))

// Envelope carries the chain provenance shared by every decoded event. It
// identifies the log uniquely within the chain.
type Envelope struct {
	BlockNumber     int64
	BlockTimestamp  time.Time
	TransactionHash common.Hash
	LogIndex        uint
}

// Id returns the composite key for records derived from this log. Two events
// in one transaction keep distinct ids because the log index differs.
func (e Envelope) Id() string {
	return fmt.Sprintf("%s-%d", e.TransactionHash.Hex(), e.LogIndex)
}

// Event is one decoded marketplace log.
type Event interface {
	Name() string
	Envelope() Envelope
}

type SoldEvent struct {
	Meta          Envelope
	Seller        common.Address
	Buyer         common.Address
	TokenId       *big.Int
	Amount        *big.Int
	Price         *big.Int
	PriceAfterFee *big.Int
	IsBuyLimit    bool
}

type SetFeePercentEvent struct {
	Meta                  Envelope
	NewPlatformFeePercent *big.Int
	NewPartnerFeePercent  *big.Int
}

type SetTotalFeePercentEvent struct {
	Meta               Envelope
	NewTotalFeePercent *big.Int
}

type SetMinimumTradePriceEvent struct {
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

func (e *SoldEvent) Name() string                 { return "Sold" }
func (e *SetFeePercentEvent) Name() string        { return "SetFeePercent" }
func (e *SetTotalFeePercentEvent) Name() string   { return "SetTotalFeePercent" }
func (e *SetMinimumTradePriceEvent) Name() string { return "SetMinimumTradePrice" }
func (e *PausedEvent) Name() string               { return "Paused" }
func (e *UnpausedEvent) Name() string             { return "Unpaused" }
func (e *RoleAdminChangedEvent) Name() string     { return "RoleAdminChanged" }
func (e *RoleGrantedEvent) Name() string          { return "RoleGranted" }
func (e *RoleRevokedEvent) Name() string          { return "RoleRevoked" }

func (e *SoldEvent) Envelope() Envelope                 { return e.Meta }
func (e *SetFeePercentEvent) Envelope() Envelope        { return e.Meta }
func (e *SetTotalFeePercentEvent) Envelope() Envelope   { return e.Meta }
func (e *SetMinimumTradePriceEvent) Envelope() Envelope { return e.Meta }
func (e *PausedEvent) Envelope() Envelope               { return e.Meta }
func (e *UnpausedEvent) Envelope() Envelope             { return e.Meta }
func (e *RoleAdminChangedEvent) Envelope() Envelope     { return e.Meta }
func (e *RoleGrantedEvent) Envelope() Envelope          { return e.Meta }
func (e *RoleRevokedEvent) Envelope() Envelope          { return e.Meta }

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

// ParseLog decodes a contract log into its typed event. Logs whose topic does
// not belong to the marketplace ABI return ok == false and are skipped by the
// caller rather than treated as an error, since unrelated contracts can share
// an address filter during testing.
func ParseLog(log ethtypes.Log, blockTimestamp time.Time) (event Event, ok bool, err error) {
	if len(log.Topics) == 0 {
		return nil, false, nil
	}
	abiEvent, err := marketplaceABI.EventByID(log.Topics[0])
	if err != nil {
		return nil, false, nil
	}
	meta := newEnvelope(log, blockTimestamp)
	switch abiEvent.Name {
	case "Sold":
		var out SoldEvent
		if err := marketplaceABI.UnpackIntoInterface(&out, abiEvent.Name, log.Data); err != nil {
			return nil, false, errors.Wrapf(err, "can't unpack %s event data", abiEvent.Name)
		}
		out.Meta = meta
		return &out, true, nil
	case "SetFeePercent":
		var out SetFeePercentEvent
		if err := marketplaceABI.UnpackIntoInterface(&out, abiEvent.Name, log.Data); err != nil {
			return nil, false, errors.Wrapf(err, "can't unpack %s event data", abiEvent.Name)
		}
		out.Meta = meta
		return &out, true, nil
	case "SetTotalFeePercent":
		var out SetTotalFeePercentEvent
		if err := marketplaceABI.UnpackIntoInterface(&out, abiEvent.Name, log.Data); err != nil {
			return nil, false, errors.Wrapf(err, "can't unpack %s event data", abiEvent.Name)
		}
		out.Meta = meta
		return &out, true, nil
	case "SetMinimumTradePrice":
		var out SetMinimumTradePriceEvent
		if err := marketplaceABI.UnpackIntoInterface(&out, abiEvent.Name, log.Data); err != nil {
			return nil, false, errors.Wrapf(err, "can't unpack %s event data", abiEvent.Name)
		}
		out.Meta = meta
		return &out, true, nil
	case "Paused":
		var out PausedEvent
		if err := marketplaceABI.UnpackIntoInterface(&out, abiEvent.Name, log.Data); err != nil {
			return nil, false, errors.Wrapf(err, "can't unpack %s event data", abiEvent.Name)
		}
		out.Meta = meta
		return &out, true, nil
	case "Unpaused":
		var out UnpausedEvent
		if err := marketplaceABI.UnpackIntoInterface(&out, abiEvent.Name, log.Data); err != nil {
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
