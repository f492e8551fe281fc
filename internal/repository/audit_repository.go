package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// PriceAnalysisAudit is one persisted snapshot of a pricing analysis, written
// best-effort from the worker so the synchronous analysis path never blocks
// on it.
type PriceAnalysisAudit struct {
	ID            int64     `db:"id"`
	CarrierID     int64     `db:"carrier_id"`
	AnalyzedPrice float64   `db:"analyzed_price"`
	FloorPrice    float64   `db:"floor_price"`
	Blocking      bool      `db:"blocking"`
	Payload       []byte    `db:"payload"`
	CreatedAt     time.Time `db:"created_at"`
}

type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(audit *PriceAnalysisAudit) error {
	query := `INSERT INTO price_analysis_audits (carrier_id, analyzed_price, floor_price, blocking, payload)
	          VALUES (:carrier_id, :analyzed_price, :floor_price, :blocking, :payload)`
	result, err := r.db.NamedExec(query, audit)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	audit.ID = id
	return nil
}
