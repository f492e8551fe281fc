package models

import (
	"database/sql"
	"time"
)

type Carrier struct {
	ID          int64          `db:"id" json:"id"`
	TradeName   sql.NullString `db:"trade_name" json:"trade_name"`
	LegalName   sql.NullString `db:"legal_name" json:"legal_name"`
	ProfileName sql.NullString `db:"profile_name" json:"profile_name"`
	CNPJ        sql.NullString `db:"cnpj" json:"cnpj"`
	IsActive    bool           `db:"is_active" json:"is_active"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// FallbackCarrierName is used when a carrier has no usable name on record.
const FallbackCarrierName = "Transportadora"

// DisplayName resolves the name shown on quotes: trade name, then legal name,
// then profile name, then a literal fallback.
func (c *Carrier) DisplayName() string {
	if c.TradeName.Valid && c.TradeName.String != "" {
		return c.TradeName.String
	}
	if c.LegalName.Valid && c.LegalName.String != "" {
		return c.LegalName.String
	}
	if c.ProfileName.Valid && c.ProfileName.String != "" {
		return c.ProfileName.String
	}
	return FallbackCarrierName
}
