package service

import (
	"database/sql"
	"errors"
	"sort"
	"testing"

	"freight-web/internal/models"
)

type fakeRouteFinder struct {
	exactRows    []models.RateCardRow
	prefixRows   []models.RateCardRow
	err          error
	prefixCalled bool
	gotOrigin5   string
	gotDest5     string
	gotLimit     int
}

func (f *fakeRouteFinder) QueryByRoute(originVariants, destVariants []string, activeOnly bool) ([]models.RateCardRow, error) {
	return f.exactRows, f.err
}

func (f *fakeRouteFinder) QueryByRoutePrefix(originPrefix, destPrefix string, limit int) ([]models.RateCardRow, error) {
	f.prefixCalled = true
	f.gotOrigin5 = originPrefix
	f.gotDest5 = destPrefix
	f.gotLimit = limit
	return f.prefixRows, f.err
}

type fakeNameResolver struct{}

func (fakeNameResolver) ResolveDisplayName(carrierID int64) string {
	switch carrierID {
	case 1:
		return "Rápido Sul"
	case 2:
		return "Expresso Norte"
	default:
		return models.FallbackCarrierName
	}
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fullRateRow() models.RateCardRow {
	return models.RateCardRow{
		CarrierID:        1,
		OriginCEP:        "01310-100",
		DestCEP:          "30130-010",
		Weight0To30:      nullFloat(25),
		Weight31To50:     nullFloat(32.5),
		Weight51To70:     nullFloat(41),
		Weight71To100:    nullFloat(55),
		Above100PerKg:    1.10,
		MinPrice:         25,
		DeadlineDays:     3,
		DispatchFee:      22.5,
		GrisPercent:      0.5,
		InsurancePercent: 0.3,
		TollPer100Kg:     2.5,
		ICMSPercent:      7,
	}
}

func plainRow(perKg, minPrice float64) models.RateCardRow {
	return models.RateCardRow{CarrierID: 1, Above100PerKg: perKg, MinPrice: minPrice}
}

func TestComputeRowPriceBracketBoundaries(t *testing.T) {
	row := fullRateRow()
	row.DispatchFee, row.GrisPercent, row.InsurancePercent, row.TollPer100Kg, row.ICMSPercent = 0, 0, 0, 0, 0
	row.MinPrice = 0

	tests := []struct {
		weight float64
		want   float64
	}{
		{30, 25},   // exactly at the bracket edge stays in the lower bracket
		{30.1, 32.5},
		{50, 32.5},
		{70, 41},
		{100, 55},
		{101, 111.10}, // 101 * 1.10, per-kg territory
	}
	for _, tc := range tests {
		got := ComputeRowPrice(&row, tc.weight, 0)
		if got != tc.want {
			t.Errorf("ComputeRowPrice(weight=%v) = %v, want %v", tc.weight, got, tc.want)
		}
	}
}

func TestComputeRowPriceBracketFallThrough(t *testing.T) {
	// Only the first bracket is tabulated; 50kg falls back to it.
	row := plainRow(1.10, 0)
	row.Weight0To30 = nullFloat(25)

	if got := ComputeRowPrice(&row, 50, 0); got != 25 {
		t.Errorf("fall-through price = %v, want 25", got)
	}

	// No brackets at all: weight times per-kg rate even under 100kg.
	bare := plainRow(2, 0)
	if got := ComputeRowPrice(&bare, 40, 0); got != 80 {
		t.Errorf("bracketless price = %v, want 80", got)
	}
}

func TestComputeRowPriceAbove100UsesMinPriceGuard(t *testing.T) {
	row := plainRow(0.10, 200)
	// 150 * 0.10 = 15, below the table minimum.
	if got := ComputeRowPrice(&row, 150, 0); got != 200 {
		t.Errorf("heavy shipment price = %v, want min price 200", got)
	}
}

func TestComputeRowPriceFloorAppliedAfterTax(t *testing.T) {
	row := plainRow(1, 50)
	row.Weight0To30 = nullFloat(40)
	row.ICMSPercent = 10

	// 40 * 1.10 = 44 taxed, still under the 50 floor.
	if got := ComputeRowPrice(&row, 10, 0); got != 50 {
		t.Errorf("price = %v, want floor 50", got)
	}

	// 48 * 1.10 = 52.80: above the floor only because tax is applied first.
	row.Weight0To30 = nullFloat(48)
	if got := ComputeRowPrice(&row, 10, 0); got != 52.80 {
		t.Errorf("price = %v, want 52.80", got)
	}
}

func TestComputeRowPriceFullBreakdown(t *testing.T) {
	row := fullRateRow()
	// base 32.50 + dispatch 22.50 + gris 5 + insurance 3 + toll 2.50 = 65.50
	// taxed: 65.50 * 1.07 = 70.085 -> 70.09
	if got := ComputeRowPrice(&row, 50, 1000); got != 70.09 {
		t.Errorf("full breakdown price = %v, want 70.09", got)
	}
}

func TestComputeRowPriceFallThroughWithFees(t *testing.T) {
	// Carrier tabulates only the lowest bracket; a 50kg shipment falls back to
	// it and the fee stack is applied on that base.
	row := models.RateCardRow{
		Weight0To30:      nullFloat(25),
		Above100PerKg:    1.1,
		MinPrice:         25,
		DispatchFee:      22.5,
		GrisPercent:      0.5,
		InsurancePercent: 0.3,
		TollPer100Kg:     2.5,
		ICMSPercent:      7,
	}

	// 25 + 22.50 + 5 + 3 + 2.50 = 58, taxed: 58 * 1.07 = 62.06
	got := ComputeRowPrice(&row, 50, 1000)
	if got != 62.06 {
		t.Errorf("price = %v, want 62.06", got)
	}
	if got < row.MinPrice {
		t.Errorf("price %v fell below the table minimum %v", got, row.MinPrice)
	}
}

func TestComputeRowPriceTollMinimumOneUnit(t *testing.T) {
	row := plainRow(1, 0)
	row.Weight0To30 = nullFloat(10)
	row.TollPer100Kg = 4

	// 0.5kg still pays one full 100kg toll unit.
	if got := ComputeRowPrice(&row, 0.5, 0); got != 14 {
		t.Errorf("price = %v, want 14 (one toll unit)", got)
	}
}

func TestCalculateQuoteValidation(t *testing.T) {
	svc := NewQuoteService(&fakeRouteFinder{}, fakeNameResolver{}, 0)

	tests := []struct {
		name  string
		req   models.QuoteRequest
		field string
	}{
		{"short origin", models.QuoteRequest{OriginCEP: "1310-100", DestCEP: "30130-010", TaxableWeight: 10}, "origin_cep"},
		{"bad dest", models.QuoteRequest{OriginCEP: "01310-100", DestCEP: "abc", TaxableWeight: 10}, "dest_cep"},
		{"zero weight", models.QuoteRequest{OriginCEP: "01310-100", DestCEP: "30130-010", TaxableWeight: 0}, "taxable_weight"},
		{"negative invoice", models.QuoteRequest{OriginCEP: "01310-100", DestCEP: "30130-010", TaxableWeight: 10, InvoiceValue: -1}, "invoice_value"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CalculateQuote(tc.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Errorf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestCalculateQuoteEmptyRouteIsNotAnError(t *testing.T) {
	svc := NewQuoteService(&fakeRouteFinder{}, fakeNameResolver{}, 0)

	offers, err := svc.CalculateQuote(models.QuoteRequest{
		OriginCEP: "01310-100", DestCEP: "99999-999", TaxableWeight: 10,
	})
	if err != nil {
		t.Fatalf("CalculateQuote: %v", err)
	}
	if offers == nil || len(offers) != 0 {
		t.Errorf("offers = %v, want empty non-nil slice", offers)
	}
}

func TestCalculateQuotePrefixFallback(t *testing.T) {
	prefixRow := fullRateRow()
	prefixRow.OriginCEP = "01310-932"
	repo := &fakeRouteFinder{prefixRows: []models.RateCardRow{prefixRow}}
	svc := NewQuoteService(repo, fakeNameResolver{}, 25)

	offers, err := svc.CalculateQuote(models.QuoteRequest{
		OriginCEP: "01310100", DestCEP: "30130010", TaxableWeight: 50,
	})
	if err != nil {
		t.Fatalf("CalculateQuote: %v", err)
	}
	if !repo.prefixCalled {
		t.Fatal("prefix fallback was not used for an empty exact match")
	}
	if repo.gotOrigin5 != "01310" || repo.gotDest5 != "30130" {
		t.Errorf("prefix args = (%q, %q), want (01310, 30130)", repo.gotOrigin5, repo.gotDest5)
	}
	if repo.gotLimit != 25 {
		t.Errorf("prefix limit = %d, want 25", repo.gotLimit)
	}
	if len(offers) != 1 {
		t.Fatalf("len(offers) = %d, want 1", len(offers))
	}
}

func TestCalculateQuoteSortedAndNamed(t *testing.T) {
	cheap := fullRateRow()
	cheap.CarrierID = 2
	cheap.Weight31To50 = nullFloat(10)
	cheap.DispatchFee = 0

	expensive := fullRateRow()
	inactive := fullRateRow()
	inactive.IsActive = sql.NullBool{Bool: false, Valid: true}

	repo := &fakeRouteFinder{exactRows: []models.RateCardRow{expensive, cheap, inactive}}
	svc := NewQuoteService(repo, fakeNameResolver{}, 0)

	offers, err := svc.CalculateQuote(models.QuoteRequest{
		OriginCEP: "01310-100", DestCEP: "30130-010", TaxableWeight: 50, InvoiceValue: 1000,
	})
	if err != nil {
		t.Fatalf("CalculateQuote: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("len(offers) = %d, want 2 (inactive row must be dropped)", len(offers))
	}
	if !sort.SliceIsSorted(offers, func(i, j int) bool { return offers[i].ComputedPrice < offers[j].ComputedPrice }) {
		t.Error("offers are not sorted ascending by price")
	}
	if offers[0].CarrierName != "Expresso Norte" {
		t.Errorf("cheapest carrier = %q, want Expresso Norte", offers[0].CarrierName)
	}
	if offers[1].DeadlineLabel != "3 dias úteis" {
		t.Errorf("deadline label = %q, want %q", offers[1].DeadlineLabel, "3 dias úteis")
	}
}

func TestDeadlineLabelSingular(t *testing.T) {
	if got := deadlineLabel(1); got != "1 dia útil" {
		t.Errorf("deadlineLabel(1) = %q", got)
	}
	if got := deadlineLabel(5); got != "5 dias úteis" {
		t.Errorf("deadlineLabel(5) = %q", got)
	}
}
