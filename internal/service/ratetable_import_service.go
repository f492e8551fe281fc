package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"freight-web/internal/models"
	"freight-web/internal/utils"

	"github.com/xuri/excelize/v2"
)

// ImportMode distinguishes who is importing the sheet.
type ImportMode string

const (
	// ImportModeSelfService: a carrier importing its own published table.
	ImportModeSelfService ImportMode = "self_service"
	// ImportModeAdmin: an operator importing on behalf of a carrier; cost
	// prices get a margin markup to produce the published prices.
	ImportModeAdmin ImportMode = "admin"
)

// ImportContext carries who the rows belong to and how prices are derived.
type ImportContext struct {
	Mode          ImportMode
	CarrierID     int64
	MarginPercent float64 // admin mode only
	SourceFile    string
	Now           time.Time
}

// ErrNoValidRows is returned when a structurally valid sheet yields zero
// importable rows. Callers must not treat an empty result as success.
var ErrNoValidRows = errors.New("no valid rows found in sheet")

// noiseMarkers end the data scan: once a row contains one of these normalized
// fragments, that row and everything after it is sheet decoration (disclaimer
// footers, calculation legends), not data. The strings are sheet-vendor
// specific; they may need to become configurable per carrier.
var noiseMarkers = []string{
	"ocalculodofrete",
	"calculodofrete",
	"valoressujeitosaalteracao",
	"naoincluiimpostos",
	"tabelasujeita",
}

// RateCardBulkWriter is the storage contract the importer needs: one bulk
// write of all valid rows, all-or-nothing.
type RateCardBulkWriter interface {
	BulkInsert(rows []models.RateCardRow) error
}

type RateTableImportService struct {
	repo RateCardBulkWriter
}

func NewRateTableImportService(repo RateCardBulkWriter) *RateTableImportService {
	return &RateTableImportService{repo: repo}
}

// ImportSheet decodes the workbook, locates the header row, parses and
// validates every data row, and bulk-inserts the valid ones. Row-level errors
// never abort the import; they are collected with their 1-based source row
// numbers. An import with zero valid rows, or a failed bulk write, is reported
// as a failure even though individual rows may have been fine.
func (s *RateTableImportService) ImportSheet(data []byte, ictx ImportContext) (*models.ImportResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in spreadsheet")
	}

	// GetRows returns cells as display text, so Brazilian-formatted numbers
	// and dates reach the parser untouched by the library's type inference.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	header := FindHeaderRow(rows)
	if header == nil {
		return nil, fmt.Errorf("header row not found: no row matches the origin, destination and deadline columns")
	}

	columns, err := ResolveColumns(header)
	if err != nil {
		return nil, err
	}

	if ictx.Now.IsZero() {
		ictx.Now = time.Now()
	}

	result := &models.ImportResult{
		Errors:     []models.RowError{},
		ImportTime: ictx.Now,
	}

	var valid []models.RateCardRow
	for i := header.RowIndex + 1; i < len(rows); i++ {
		row := rows[i]

		if isStopMarkerRow(row) {
			break
		}
		if cellAt(row, columns[FieldOrigin]) == "" && cellAt(row, columns[FieldDest]) == "" {
			continue // inter-row spacing
		}

		card, rowErr := s.parseRow(row, columns, ictx)
		if rowErr != "" {
			result.InvalidCount++
			result.Errors = append(result.Errors, models.RowError{
				SourceRow: i + 1, // 1-based, as shown in the spreadsheet app
				Message:   rowErr,
			})
			continue
		}

		valid = append(valid, *card)
		result.ImportedCount++
	}

	if result.ImportedCount == 0 {
		return result, ErrNoValidRows
	}

	if err := s.repo.BulkInsert(valid); err != nil {
		return result, fmt.Errorf("failed to store rate card rows: %w", err)
	}

	return result, nil
}

// parseRow validates one data row. Returns a non-empty message naming every
// bad field when the row must be rejected; a row with any required field
// unparsable is rejected whole, never partially stored.
func (s *RateTableImportService) parseRow(row []string, columns map[Field]int, ictx ImportContext) (*models.RateCardRow, string) {
	var bad []string

	origin, ok := utils.NormalizeCEP(cellAt(row, columns[FieldOrigin]))
	if !ok {
		bad = append(bad, string(FieldOrigin))
	}
	dest, ok := utils.NormalizeCEP(cellAt(row, columns[FieldDest]))
	if !ok {
		bad = append(bad, string(FieldDest))
	}
	deadline, ok := utils.ParseBRLInteger(cellAt(row, columns[FieldDeadline]))
	if !ok || deadline < 0 {
		bad = append(bad, string(FieldDeadline))
	}
	perKg, ok := parseRequiredDecimal(row, columns, FieldAbove100PerKg)
	if !ok {
		bad = append(bad, string(FieldAbove100PerKg))
	}
	minPrice, ok := parseRequiredDecimal(row, columns, FieldMinPrice)
	if !ok {
		bad = append(bad, string(FieldMinPrice))
	}

	card := &models.RateCardRow{
		CarrierID:    ictx.CarrierID,
		OriginCEP:    origin,
		DestCEP:      dest,
		DeadlineDays: deadline,
		SourceFile:   ictx.SourceFile,
		ImportedAt:   ictx.Now,
	}

	brackets := []Field{FieldWeight0To30, FieldWeight31To50, FieldWeight51To70, FieldWeight71To100}
	for _, field := range brackets {
		value, present, ok := parseOptionalDecimal(row, columns, field)
		if !ok {
			bad = append(bad, string(field))
			continue
		}
		if !present {
			continue
		}
		switch field {
		case FieldWeight0To30:
			card.Weight0To30.Float64, card.Weight0To30.Valid = value, true
		case FieldWeight31To50:
			card.Weight31To50.Float64, card.Weight31To50.Valid = value, true
		case FieldWeight51To70:
			card.Weight51To70.Float64, card.Weight51To70.Valid = value, true
		case FieldWeight71To100:
			card.Weight71To100.Float64, card.Weight71To100.Valid = value, true
		}
	}

	surcharges := []struct {
		field Field
		dst   *float64
	}{
		{FieldDispatchFee, &card.DispatchFee},
		{FieldGris, &card.GrisPercent},
		{FieldInsurance, &card.InsurancePercent},
		{FieldToll, &card.TollPer100Kg},
		{FieldICMS, &card.ICMSPercent},
	}
	for _, sc := range surcharges {
		value, present, ok := parseOptionalDecimal(row, columns, sc.field)
		if !ok {
			bad = append(bad, string(sc.field))
			continue
		}
		if present {
			*sc.dst = value
		}
	}

	if len(bad) > 0 {
		return nil, fmt.Sprintf("invalid or missing fields: %s", strings.Join(bad, ", "))
	}

	if ictx.Mode == ImportModeAdmin {
		markup := 1 + ictx.MarginPercent/100
		card.CostPerKg.Float64, card.CostPerKg.Valid = perKg, true
		card.CostMinPrice.Float64, card.CostMinPrice.Valid = minPrice, true
		perKg = utils.Round2(perKg * markup)
		minPrice = utils.Round2(minPrice * markup)
	}
	card.Above100PerKg = perKg
	card.MinPrice = minPrice
	card.IsActive.Bool, card.IsActive.Valid = true, true

	return card, ""
}

// parseRequiredDecimal parses a mandatory monetary cell; negative values
// violate the rate-card invariant and count as unparsable.
func parseRequiredDecimal(row []string, columns map[Field]int, field Field) (float64, bool) {
	value, ok := utils.ParseBRLDecimal(cellAt(row, columns[field]))
	if !ok || value < 0 {
		return 0, false
	}
	return value, true
}

// parseOptionalDecimal returns (value, present, ok). Blank cells and absent
// columns are simply not present; a non-blank cell that fails to parse, or a
// negative value, makes the row invalid.
func parseOptionalDecimal(row []string, columns map[Field]int, field Field) (float64, bool, bool) {
	idx, resolved := columns[field]
	if !resolved {
		return 0, false, true
	}
	cell := strings.TrimSpace(cellAt(row, idx))
	if cell == "" || cell == "-" {
		return 0, false, true
	}
	value, ok := utils.ParseBRLDecimal(cell)
	if !ok || value < 0 {
		return 0, false, false
	}
	return value, true, true
}

// isStopMarkerRow reports whether the row is the end-of-table sentinel.
func isStopMarkerRow(row []string) bool {
	joined := NormalizeCell(strings.Join(row, " "))
	if joined == "" {
		return false
	}
	for _, marker := range noiseMarkers {
		if strings.Contains(joined, marker) {
			return true
		}
	}
	return false
}

func cellAt(row []string, index int) string {
	if index >= 0 && index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}
