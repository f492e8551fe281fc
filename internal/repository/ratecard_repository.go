package repository

import (
	"fmt"
	"strings"

	"freight-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type RateCardRepository struct {
	db *sqlx.DB
}

func NewRateCardRepository(db *sqlx.DB) *RateCardRepository {
	return &RateCardRepository{db: db}
}

// BulkInsert writes all rows of one import in a single statement. Atomicity
// (all rows or none) is the storage engine's bulk-write guarantee; the
// importer never does per-row upserts or partial commits.
func (r *RateCardRepository) BulkInsert(rows []models.RateCardRow) error {
	if len(rows) == 0 {
		return nil
	}

	query := `INSERT INTO rate_card_rows
	          (carrier_id, origin_cep, dest_cep, origin_cep_end, dest_cep_end,
	           weight_0_30, weight_31_50, weight_51_70, weight_71_100,
	           above_100_per_kg, min_price, deadline_days,
	           dispatch_fee, gris_percent, insurance_percent, toll_per_100kg, icms_percent,
	           cost_per_kg, cost_min_price, is_active, source_file, imported_at)
	          VALUES (:carrier_id, :origin_cep, :dest_cep, :origin_cep_end, :dest_cep_end,
	           :weight_0_30, :weight_31_50, :weight_51_70, :weight_71_100,
	           :above_100_per_kg, :min_price, :deadline_days,
	           :dispatch_fee, :gris_percent, :insurance_percent, :toll_per_100kg, :icms_percent,
	           :cost_per_kg, :cost_min_price, :is_active, :source_file, :imported_at)`
	_, err := r.db.NamedExec(query, rows)
	return err
}

// QueryByRoute finds rows whose origin/destination match any of the given
// variants exactly. Variants carry both the masked (NNNNN-NNN) and unmasked
// (NNNNNNNN) storage forms.
func (r *RateCardRepository) QueryByRoute(originVariants, destVariants []string, activeOnly bool) ([]models.RateCardRow, error) {
	if len(originVariants) == 0 || len(destVariants) == 0 {
		return nil, nil
	}

	args := []interface{}{}
	originPlaceholders := placeholders(len(originVariants))
	for _, v := range originVariants {
		args = append(args, v)
	}
	destPlaceholders := placeholders(len(destVariants))
	for _, v := range destVariants {
		args = append(args, v)
	}

	query := fmt.Sprintf(`SELECT * FROM rate_card_rows
	          WHERE origin_cep IN (%s) AND dest_cep IN (%s)`, originPlaceholders, destPlaceholders)
	if activeOnly {
		query += " AND (is_active IS NULL OR is_active = TRUE)"
	}

	var rows []models.RateCardRow
	err := r.db.Select(&rows, query, args...)
	return rows, err
}

// QueryByRoutePrefix retries the match on the 5-digit postal sub-region,
// capped to a bounded result size.
func (r *RateCardRepository) QueryByRoutePrefix(originPrefix, destPrefix string, limit int) ([]models.RateCardRow, error) {
	query := `SELECT * FROM rate_card_rows
	          WHERE REPLACE(origin_cep, '-', '') LIKE ?
	            AND REPLACE(dest_cep, '-', '') LIKE ?
	            AND (is_active IS NULL OR is_active = TRUE)
	          LIMIT ?`
	var rows []models.RateCardRow
	err := r.db.Select(&rows, query, originPrefix+"%", destPrefix+"%", limit)
	return rows, err
}

// FindByCarrier returns a carrier's rows for the operator listing page.
func (r *RateCardRepository) FindByCarrier(carrierID int64, limit, offset int) ([]models.RateCardRow, int, error) {
	var total int
	countQuery := "SELECT COUNT(*) FROM rate_card_rows WHERE carrier_id = ?"
	if err := r.db.Get(&total, countQuery, carrierID); err != nil {
		return nil, 0, err
	}

	var rows []models.RateCardRow
	query := `SELECT * FROM rate_card_rows
	          WHERE carrier_id = ?
	          ORDER BY origin_cep, dest_cep
	          LIMIT ? OFFSET ?`
	if err := r.db.Select(&rows, query, carrierID, limit, offset); err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
