package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"freight-web/internal/models"

	"github.com/xuri/excelize/v2"
)

type fakeRateCardStore struct {
	rows []models.RateCardRow
	err  error
}

func (f *fakeRateCardStore) BulkInsert(rows []models.RateCardRow) error {
	if f.err != nil {
		return f.err
	}
	f.rows = rows
	return nil
}

var testHeader = []interface{}{
	"CEP de Origem", "CEP de Destino", "Prazo de Entrega (dias úteis)",
	"Até 30kg", "31 a 50kg", "51 a 70kg", "71 a 100kg", "Acima de 100kg (por kg)",
	"Frete Mínimo", "Taxa de Despacho", "GRIS (%)", "Seguro (%)", "Pedágio (100kg)", "ICMS (%)",
}

func validDataRow(origin, dest string) []interface{} {
	return []interface{}{
		origin, dest, "3",
		"25,00", "32,50", "41,00", "55,00", "1,10",
		"25,00", "22,50", "0,5", "0,3", "2,50", "7",
	}
}

// buildSheet writes the given rows into an in-memory workbook, starting at
// spreadsheet row 1.
func buildSheet(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func selfServiceContext() ImportContext {
	return ImportContext{
		Mode:       ImportModeSelfService,
		CarrierID:  42,
		SourceFile: "tabela.xlsx",
		Now:        time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestImportSheetRowErrorIsolation(t *testing.T) {
	rows := [][]interface{}{
		{"TRANSPORTES EXEMPLO LTDA"},
		{"Tabela de frete fracionado"},
		testHeader,
	}
	for i := 0; i < 10; i++ {
		rows = append(rows, validDataRow(fmt.Sprintf("0131%d-100", i), "30130-010"))
	}
	// One malformed row among ten valid ones
	rows = append(rows, []interface{}{"04538-132", "not-a-cep", "x", "", "", "", "", "1,40", "31,00"})

	store := &fakeRateCardStore{}
	svc := NewRateTableImportService(store)

	result, err := svc.ImportSheet(buildSheet(t, rows), selfServiceContext())
	if err != nil {
		t.Fatalf("ImportSheet: %v", err)
	}
	if result.ImportedCount != 10 {
		t.Errorf("ImportedCount = %d, want 10", result.ImportedCount)
	}
	if result.InvalidCount != 1 {
		t.Errorf("InvalidCount = %d, want 1", result.InvalidCount)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(result.Errors))
	}
	// 1-based row number as shown in the spreadsheet app: 2 title rows +
	// header + 10 valid rows put the bad row at sheet row 14.
	if result.Errors[0].SourceRow != 14 {
		t.Errorf("SourceRow = %d, want 14", result.Errors[0].SourceRow)
	}
	if !strings.Contains(result.Errors[0].Message, string(FieldDest)) {
		t.Errorf("error message %q does not name the bad field", result.Errors[0].Message)
	}
	if !strings.Contains(result.Errors[0].Message, string(FieldDeadline)) {
		t.Errorf("error message %q does not name the bad deadline", result.Errors[0].Message)
	}

	if len(store.rows) != 10 {
		t.Fatalf("stored %d rows, want 10", len(store.rows))
	}
	first := store.rows[0]
	if first.OriginCEP != "01310-100" || first.DestCEP != "30130-010" {
		t.Errorf("CEPs not normalized: %q -> %q", first.OriginCEP, first.DestCEP)
	}
	if first.CarrierID != 42 {
		t.Errorf("CarrierID = %d, want 42", first.CarrierID)
	}
	if first.Above100PerKg != 1.10 || first.MinPrice != 25 {
		t.Errorf("published prices wrong: perKg=%v min=%v", first.Above100PerKg, first.MinPrice)
	}
	if first.CostPerKg.Valid {
		t.Error("self-service import must not store cost prices")
	}
	if !first.Weight31To50.Valid || first.Weight31To50.Float64 != 32.5 {
		t.Errorf("bracket 31-50 = %+v, want 32.5", first.Weight31To50)
	}
}

func TestImportSheetStopsAtNoiseMarker(t *testing.T) {
	rows := [][]interface{}{
		testHeader,
		validDataRow("01310-100", "30130-010"),
		{"O cálculo do frete não inclui taxas de armazenagem."},
		validDataRow("04538-132", "70040-010"), // decoration zone, must not be scanned
	}

	store := &fakeRateCardStore{}
	svc := NewRateTableImportService(store)

	result, err := svc.ImportSheet(buildSheet(t, rows), selfServiceContext())
	if err != nil {
		t.Fatalf("ImportSheet: %v", err)
	}
	if result.ImportedCount != 1 {
		t.Errorf("ImportedCount = %d, want 1 (scan must stop at the disclaimer)", result.ImportedCount)
	}
	if result.InvalidCount != 0 {
		t.Errorf("InvalidCount = %d, want 0", result.InvalidCount)
	}
}

func TestImportSheetSkipsSpacerRows(t *testing.T) {
	rows := [][]interface{}{
		testHeader,
		validDataRow("01310-100", "30130-010"),
		{}, // spacer
		validDataRow("04538-132", "70040-010"),
	}

	store := &fakeRateCardStore{}
	svc := NewRateTableImportService(store)

	result, err := svc.ImportSheet(buildSheet(t, rows), selfServiceContext())
	if err != nil {
		t.Fatalf("ImportSheet: %v", err)
	}
	if result.ImportedCount != 2 || result.InvalidCount != 0 {
		t.Errorf("counts = (%d, %d), want (2, 0)", result.ImportedCount, result.InvalidCount)
	}
}

func TestImportSheetAdminMarginMarkup(t *testing.T) {
	rows := [][]interface{}{
		testHeader,
		validDataRow("01310-100", "30130-010"),
	}

	store := &fakeRateCardStore{}
	svc := NewRateTableImportService(store)

	ictx := selfServiceContext()
	ictx.Mode = ImportModeAdmin
	ictx.MarginPercent = 20

	if _, err := svc.ImportSheet(buildSheet(t, rows), ictx); err != nil {
		t.Fatalf("ImportSheet: %v", err)
	}

	row := store.rows[0]
	if !row.CostPerKg.Valid || row.CostPerKg.Float64 != 1.10 {
		t.Errorf("CostPerKg = %+v, want 1.10", row.CostPerKg)
	}
	if !row.CostMinPrice.Valid || row.CostMinPrice.Float64 != 25 {
		t.Errorf("CostMinPrice = %+v, want 25", row.CostMinPrice)
	}
	if row.Above100PerKg != 1.32 {
		t.Errorf("published per-kg = %v, want 1.32", row.Above100PerKg)
	}
	if row.MinPrice != 30 {
		t.Errorf("published min price = %v, want 30", row.MinPrice)
	}
}

func TestImportSheetZeroValidRowsIsFailure(t *testing.T) {
	rows := [][]interface{}{
		testHeader,
		{"bad", "bad", "bad"},
	}

	store := &fakeRateCardStore{}
	svc := NewRateTableImportService(store)

	result, err := svc.ImportSheet(buildSheet(t, rows), selfServiceContext())
	if !errors.Is(err, ErrNoValidRows) {
		t.Fatalf("err = %v, want ErrNoValidRows", err)
	}
	if result == nil || result.InvalidCount != 1 {
		t.Errorf("failed import must still carry its row errors: %+v", result)
	}
	if len(store.rows) != 0 {
		t.Error("nothing must be stored when no rows are valid")
	}
}

func TestImportSheetHeaderNotFound(t *testing.T) {
	rows := [][]interface{}{
		{"nothing", "useful", "here"},
		{"still", "no", "header"},
	}

	svc := NewRateTableImportService(&fakeRateCardStore{})
	_, err := svc.ImportSheet(buildSheet(t, rows), selfServiceContext())
	if err == nil || !strings.Contains(err.Error(), "header row not found") {
		t.Errorf("err = %v, want explicit header-not-found error", err)
	}
}

func TestImportSheetBulkWriteFailure(t *testing.T) {
	rows := [][]interface{}{
		testHeader,
		validDataRow("01310-100", "30130-010"),
	}

	store := &fakeRateCardStore{err: errors.New("connection lost")}
	svc := NewRateTableImportService(store)

	_, err := svc.ImportSheet(buildSheet(t, rows), selfServiceContext())
	if err == nil || !strings.Contains(err.Error(), "failed to store rate card rows") {
		t.Errorf("err = %v, want storage failure to fail the whole import", err)
	}
}
