package service

import (
	"fmt"
	"math"
	"sort"

	"freight-web/internal/models"
	"freight-web/internal/utils"
)

// ValidationError names the exact request field that failed validation, so
// callers can surface it instead of a server fault.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RouteFinder is the rate-card query contract the quote engine needs.
type RouteFinder interface {
	QueryByRoute(originVariants, destVariants []string, activeOnly bool) ([]models.RateCardRow, error)
	QueryByRoutePrefix(originPrefix, destPrefix string, limit int) ([]models.RateCardRow, error)
}

// CarrierNameResolver resolves a carrier to its quote display name.
type CarrierNameResolver interface {
	ResolveDisplayName(carrierID int64) string
}

type QuoteService struct {
	repo        RouteFinder
	carriers    CarrierNameResolver
	prefixLimit int
}

func NewQuoteService(repo RouteFinder, carriers CarrierNameResolver, prefixLimit int) *QuoteService {
	if prefixLimit <= 0 {
		prefixLimit = 50
	}
	return &QuoteService{repo: repo, carriers: carriers, prefixLimit: prefixLimit}
}

// CalculateQuote finds every active rate-card row serving the route, prices
// the shipment against each and returns the offers sorted ascending by price.
// An empty offer list is a valid outcome: no carrier serves the route.
func (s *QuoteService) CalculateQuote(req models.QuoteRequest) ([]models.QuoteOffer, error) {
	origin, ok := utils.NormalizeCEP(req.OriginCEP)
	if !ok {
		return nil, &ValidationError{Field: "origin_cep", Message: "postal code must have exactly 8 digits"}
	}
	dest, ok := utils.NormalizeCEP(req.DestCEP)
	if !ok {
		return nil, &ValidationError{Field: "dest_cep", Message: "postal code must have exactly 8 digits"}
	}
	if req.TaxableWeight <= 0 || math.IsNaN(req.TaxableWeight) || math.IsInf(req.TaxableWeight, 0) {
		return nil, &ValidationError{Field: "taxable_weight", Message: "weight must be a positive number"}
	}
	if req.InvoiceValue < 0 || math.IsNaN(req.InvoiceValue) || math.IsInf(req.InvoiceValue, 0) {
		return nil, &ValidationError{Field: "invoice_value", Message: "invoice value must be a non-negative number"}
	}

	// Exact match first, tolerating both masked and unmasked storage variants.
	rows, err := s.repo.QueryByRoute(cepVariants(origin), cepVariants(dest), true)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate cards: %w", err)
	}

	// Brazilian postal sub-regions share the first 5 digits; when the exact
	// sub-code is not tabulated, retry as a bounded prefix match.
	if len(rows) == 0 {
		rows, err = s.repo.QueryByRoutePrefix(utils.CEPDigits(origin)[:5], utils.CEPDigits(dest)[:5], s.prefixLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to query rate cards by prefix: %w", err)
		}
	}

	offers := make([]models.QuoteOffer, 0, len(rows))
	for _, row := range rows {
		if !row.Active() {
			continue
		}
		price := ComputeRowPrice(&row, req.TaxableWeight, req.InvoiceValue)
		offers = append(offers, models.QuoteOffer{
			CarrierID:     row.CarrierID,
			CarrierName:   s.carriers.ResolveDisplayName(row.CarrierID),
			ComputedPrice: price,
			DeadlineDays:  row.DeadlineDays,
			DeadlineLabel: deadlineLabel(row.DeadlineDays),
		})
	}

	sort.Slice(offers, func(i, j int) bool {
		return offers[i].ComputedPrice < offers[j].ComputedPrice
	})

	return offers, nil
}

// ComputeRowPrice prices one shipment against one rate-card row.
// The minimum price floor is enforced after tax, never before.
func ComputeRowPrice(row *models.RateCardRow, weight, invoiceValue float64) float64 {
	base := basePrice(row, weight)

	grisValue := invoiceValue * row.GrisPercent / 100
	insuranceValue := invoiceValue * row.InsurancePercent / 100

	// Always at least one toll unit when a toll rate is configured.
	tollValue := 0.0
	if row.TollPer100Kg > 0 {
		tollValue = math.Ceil(math.Max(weight, 1)/100) * row.TollPer100Kg
	}

	subtotal := base + row.DispatchFee + grisValue + insuranceValue + tollValue
	total := subtotal * (1 + row.ICMSPercent/100)
	if total < row.MinPrice {
		total = row.MinPrice
	}
	return utils.Round2(total)
}

// basePrice is a step function over the weight brackets. A carrier may only
// tabulate some brackets, so an absent bracket falls through to the next
// lower one, ultimately to the per-kg rate.
func basePrice(row *models.RateCardRow, weight float64) float64 {
	if weight > 100 {
		return math.Max(weight*row.Above100PerKg, row.MinPrice)
	}

	brackets := []struct {
		limit float64
		value *float64
		valid bool
	}{
		{30, &row.Weight0To30.Float64, row.Weight0To30.Valid},
		{50, &row.Weight31To50.Float64, row.Weight31To50.Valid},
		{70, &row.Weight51To70.Float64, row.Weight51To70.Valid},
		{100, &row.Weight71To100.Float64, row.Weight71To100.Valid},
	}

	idx := 0
	for i, b := range brackets {
		if weight <= b.limit {
			idx = i
			break
		}
	}
	for i := idx; i >= 0; i-- {
		if brackets[i].valid {
			return *brackets[i].value
		}
	}
	return weight * row.Above100PerKg
}

// cepVariants returns the masked and unmasked forms of a canonical CEP.
func cepVariants(cep string) []string {
	return []string{cep, utils.CEPDigits(cep)}
}

func deadlineLabel(days int) string {
	if days == 1 {
		return "1 dia útil"
	}
	return fmt.Sprintf("%d dias úteis", days)
}
