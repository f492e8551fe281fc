package models

import (
	"database/sql"
	"time"
)

// RateCardRow is one row of a carrier's published pricing table. Rows are only
// ever created through the importer (bulk insert); re-imports append new rows
// rather than patching old ones.
type RateCardRow struct {
	ID        int64  `db:"id" json:"id"`
	CarrierID int64  `db:"carrier_id" json:"carrier_id"`
	OriginCEP string `db:"origin_cep" json:"origin_cep"`
	DestCEP   string `db:"dest_cep" json:"dest_cep"`

	// Optional range end for routes published as CEP intervals
	OriginCEPEnd sql.NullString `db:"origin_cep_end" json:"origin_cep_end"`
	DestCEPEnd   sql.NullString `db:"dest_cep_end" json:"dest_cep_end"`

	// Fixed prices per weight band. Each bracket is optional; an absent
	// bracket falls back to the next lower one at quote time.
	Weight0To30   sql.NullFloat64 `db:"weight_0_30" json:"weight_0_30"`
	Weight31To50  sql.NullFloat64 `db:"weight_31_50" json:"weight_31_50"`
	Weight51To70  sql.NullFloat64 `db:"weight_51_70" json:"weight_51_70"`
	Weight71To100 sql.NullFloat64 `db:"weight_71_100" json:"weight_71_100"`

	// Price per kg above the highest fixed bracket (100kg)
	Above100PerKg float64 `db:"above_100_per_kg" json:"above_100_per_kg"`

	MinPrice     float64 `db:"min_price" json:"min_price"`
	DeadlineDays int     `db:"deadline_days" json:"deadline_days"`

	// Surcharges
	DispatchFee      float64 `db:"dispatch_fee" json:"dispatch_fee"`
	GrisPercent      float64 `db:"gris_percent" json:"gris_percent"`
	InsurancePercent float64 `db:"insurance_percent" json:"insurance_percent"`
	TollPer100Kg     float64 `db:"toll_per_100kg" json:"toll_per_100kg"`
	ICMSPercent      float64 `db:"icms_percent" json:"icms_percent"`

	// Admin-assisted imports store the carrier's raw cost prices alongside
	// the marked-up published prices.
	CostPerKg    sql.NullFloat64 `db:"cost_per_kg" json:"cost_per_kg"`
	CostMinPrice sql.NullFloat64 `db:"cost_min_price" json:"cost_min_price"`

	IsActive sql.NullBool `db:"is_active" json:"is_active"`

	// Provenance
	SourceFile string    `db:"source_file" json:"source_file"`
	ImportedAt time.Time `db:"imported_at" json:"imported_at"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Active reports whether the row participates in quoting. Rows imported before
// the flag existed carry NULL and count as active.
func (r *RateCardRow) Active() bool {
	return !r.IsActive.Valid || r.IsActive.Bool
}

// RowError references one spreadsheet row that could not be imported.
type RowError struct {
	SourceRow int    `json:"source_row"`
	Message   string `json:"message"`
}

// ImportResult summarizes one rate-table import run.
type ImportResult struct {
	SessionCode   string     `json:"session_code"`
	ImportedCount int        `json:"imported_count"`
	InvalidCount  int        `json:"invalid_count"`
	Errors        []RowError `json:"errors"`
	ImportTime    time.Time  `json:"import_time"`
}

// ImportSession is the persisted provenance record of one import run.
type ImportSession struct {
	ID           int64     `db:"id" json:"id"`
	SessionCode  string    `db:"session_code" json:"session_code"`
	CarrierID    int64     `db:"carrier_id" json:"carrier_id"`
	Filename     string    `db:"filename" json:"filename"`
	ImportedRows int       `db:"imported_rows" json:"imported_rows"`
	InvalidRows  int       `db:"invalid_rows" json:"invalid_rows"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
