package postgres

import (
	"github.com/jackc/pgx/v5"
	"github.com/maxion-tech/marketplace-indexer/internal/postgres"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/datagateway"
)

type Repository struct {
	db postgres.DB
	tx pgx.Tx
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// queryable routes statements through the open transaction when one exists.
func (r *Repository) queryable() postgres.Queryable {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

var _ datagateway.MarketplaceDataGateway = (*Repository)(nil)
