package models

// QuoteRequest carries the caller's freight quote parameters.
type QuoteRequest struct {
	OriginCEP     string  `json:"origin_cep"`
	DestCEP       string  `json:"dest_cep"`
	TaxableWeight float64 `json:"taxable_weight"`
	InvoiceValue  float64 `json:"invoice_value"`
}

// QuoteOffer is one carrier's priced offer for a requested route.
// Offers are returned sorted ascending by price.
type QuoteOffer struct {
	CarrierID     int64   `json:"carrier_id"`
	CarrierName   string  `json:"carrier_name"`
	ComputedPrice float64 `json:"computed_price"`
	DeadlineDays  int     `json:"deadline_days"`
	DeadlineLabel string  `json:"deadline_label"`
}
