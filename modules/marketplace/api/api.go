package api

import (
	"github.com/maxion-tech/marketplace-indexer/common"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/api/httphandler"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/usecase"
)

func NewHTTPHandler(network common.Network, usecase *usecase.Usecase) *httphandler.HttpHandler {
	return httphandler.New(network, usecase)
}
