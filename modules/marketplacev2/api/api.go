package api

import (
	"github.com/maxion-tech/marketplace-indexer/common"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/api/httphandler"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/usecase"
)

func NewHTTPHandler(network common.Network, usecase *usecase.Usecase) *httphandler.HttpHandler {
	return httphandler.New(network, usecase)
}
