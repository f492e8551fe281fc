package repository

import (
	"freight-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type CarrierRepository struct {
	db *sqlx.DB
}

func NewCarrierRepository(db *sqlx.DB) *CarrierRepository {
	return &CarrierRepository{db: db}
}

func (r *CarrierRepository) FindByID(id int64) (*models.Carrier, error) {
	var carrier models.Carrier
	query := "SELECT * FROM carriers WHERE id = ? LIMIT 1"
	err := r.db.Get(&carrier, query, id)
	if err != nil {
		return nil, err
	}
	return &carrier, nil
}

// ResolveDisplayName returns the name shown on quotes: trade name, then legal
// name, then profile name, then a literal fallback. Lookup failures fall back
// too; a quote never fails because of a missing directory entry.
func (r *CarrierRepository) ResolveDisplayName(carrierID int64) string {
	carrier, err := r.FindByID(carrierID)
	if err != nil {
		return models.FallbackCarrierName
	}
	return carrier.DisplayName()
}
