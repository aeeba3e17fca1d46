package marketplace

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func TestParseLogSold(t *testing.T) {
	seller := common.HexToAddress("0x1111111111111111111111111111111111111111")
	buyer := common.HexToAddress("0x2222222222222222222222222222222222222222")
	data, err := marketplaceABI.Events["Sold"].Inputs.Pack(
		seller,
		buyer,
		big.NewInt(7),
		baseUnits(2),
		baseUnits(100),
		baseUnits(90),
		true,
	)
	require.NoError(t, err)

	blockTime := time.Unix(1700000000, 0).UTC()
	log := ethtypes.Log{
		Topics:      []common.Hash{marketplaceABI.Events["Sold"].ID},
		Data:        data,
		BlockNumber: 42,
		TxHash:      common.HexToHash("0xabc"),
		Index:       3,
	}

	event, ok, err := ParseLog(log, blockTime)
	require.NoError(t, err)
	require.True(t, ok)

	sold, isSold := event.(*SoldEvent)
	require.True(t, isSold)
	require.Equal(t, seller, sold.Seller)
	require.Equal(t, buyer, sold.Buyer)
	require.Equal(t, "7", sold.TokenId.String())
	require.Equal(t, baseUnits(2).String(), sold.Amount.String())
	require.Equal(t, baseUnits(100).String(), sold.Price.String())
	require.Equal(t, baseUnits(90).String(), sold.PriceAfterFee.String())
	require.True(t, sold.IsBuyLimit)

	require.Equal(t, int64(42), sold.Meta.BlockNumber)
	require.Equal(t, blockTime, sold.Meta.BlockTimestamp)
	require.Equal(t, uint(3), sold.Meta.LogIndex)
	require.Equal(t, common.HexToHash("0xabc").Hex()+"-3", sold.Meta.Id())
}

func TestParseLogSetFeePercent(t *testing.T) {
	data, err := marketplaceABI.Events["SetFeePercent"].Inputs.Pack(percentRaw(60), percentRaw(40))
	require.NoError(t, err)

	event, ok, err := ParseLog(ethtypes.Log{
		Topics: []common.Hash{marketplaceABI.Events["SetFeePercent"].ID},
		Data:   data,
	}, time.Unix(0, 0))
	require.NoError(t, err)
	require.True(t, ok)

	setFee, isSetFee := event.(*SetFeePercentEvent)
	require.True(t, isSetFee)
	require.Equal(t, percentRaw(60).String(), setFee.NewPlatformFeePercent.String())
	require.Equal(t, percentRaw(40).String(), setFee.NewPartnerFeePercent.String())
}

func TestParseLogRoleGranted(t *testing.T) {
	role := common.HexToHash("0x01")
	account := common.HexToAddress("0x3333333333333333333333333333333333333333")
	sender := common.HexToAddress("0x4444444444444444444444444444444444444444")

	event, ok, err := ParseLog(ethtypes.Log{
		Topics: []common.Hash{
			marketplaceABI.Events["RoleGranted"].ID,
			role,
			common.BytesToHash(account.Bytes()),
			common.BytesToHash(sender.Bytes()),
		},
	}, time.Unix(0, 0))
	require.NoError(t, err)
	require.True(t, ok)

	granted, isGranted := event.(*RoleGrantedEvent)
	require.True(t, isGranted)
	require.Equal(t, role, granted.Role)
	require.Equal(t, account, granted.Account)
	require.Equal(t, sender, granted.Sender)
}

func TestParseLogUnknownTopic(t *testing.T) {
	event, ok, err := ParseLog(ethtypes.Log{
		Topics: []common.Hash{common.HexToHash("0xdeadbeef")},
	}, time.Unix(0, 0))
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, event)

	event, ok, err = ParseLog(ethtypes.Log{}, time.Unix(0, 0))
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, event)
}

func TestRawEventParams(t *testing.T) {
	event := soldEvent(testEnvelope("0xbb", 1, 10, 1000), baseUnits(100), baseUnits(90))
	raw, err := rawEventParams(event)
	require.NoError(t, err)

	var params map[string]any
	require.NoError(t, json.Unmarshal(raw, &params))
	require.Equal(t, event.Seller.Hex(), params["seller"])
	require.Equal(t, event.Buyer.Hex(), params["buyer"])
	require.Equal(t, "7", params["tokenId"])
	require.Equal(t, baseUnits(100).String(), params["price"])
	require.Equal(t, baseUnits(90).String(), params["priceAfterFee"])
	require.Equal(t, false, params["isBuyLimit"])
}
