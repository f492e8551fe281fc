package models

import "time"

// PricingInput is the price under analysis plus the route/vehicle parameters
// the ANTT floor formula needs.
type PricingInput struct {
	AnalyzedPrice float64 `json:"analyzed_price"`
	DistanceKm    float64 `json:"distance_km"`
	VehicleType   string  `json:"vehicle_type"`
	AxleCount     int     `json:"axle_count"` // 0 means resolve from vehicle type
	OperationCode string  `json:"operation_code"`
	TollEstimate  float64 `json:"toll_estimate"`
	TollIncluded  bool    `json:"toll_included"` // vale-pedágio marked as included in the price
	WaitingHours  float64 `json:"waiting_hours"`
}

// CostParameters are a carrier's operating cost inputs.
type CostParameters struct {
	DieselPrice         float64 `json:"diesel_price"`
	AvgConsumptionKmL   float64 `json:"avg_consumption_km_l"`
	VariableCostPerKm   float64 `json:"variable_cost_per_km"`
	FixedMonthlyCost    float64 `json:"fixed_monthly_cost"`
	EstimatedMonthlyKm  float64 `json:"estimated_monthly_km"`
	WaitingCostPerHour  float64 `json:"waiting_cost_per_hour"`
	AdminFeePercent     float64 `json:"admin_fee_percent"`
	PickupDeliveryFee   float64 `json:"pickup_delivery_fee"`
	EmptyReturnFactor   float64 `json:"empty_return_factor"`
	RequiresValePedagio bool    `json:"requires_vale_pedagio"`
}

// ANTTReferenceSnapshot holds the regulatory floor-formula coefficients.
// The engine treats it as an immutable input and never fetches or caches it.
type ANTTReferenceSnapshot struct {
	BasePerKm            float64            `json:"base_per_km"`
	PerAxleKm            float64            `json:"per_axle_km"`
	DieselCoeff          float64            `json:"diesel_coeff"`
	DieselReferencePrice float64            `json:"diesel_reference_price"`
	OperationMultipliers map[string]float64 `json:"operation_multipliers"`
	SourceVersion        string             `json:"source_version"`
}

// CarrierComplianceSnapshot is the read-only registration state of a carrier.
type CarrierComplianceSnapshot struct {
	RNTRCStatus     string     `json:"rntrc_status"`
	RNTRCExpiry     *time.Time `json:"rntrc_expiry"`
	ANTTStatus      string     `json:"antt_status"`
	InsuranceExpiry *time.Time `json:"insurance_expiry"`
}

// Registration and toll-compliance states
const (
	RegistrationActive = "ACTIVE"

	TollComplianceOK            = "OK"
	TollComplianceWarning       = "WARNING"
	TollComplianceNotApplicable = "NOT_APPLICABLE"
)

// Alert severities
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// ComplianceAlert is one verdict line produced by a compliance check.
type ComplianceAlert struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ComplianceResult aggregates the independent compliance checks.
// HasBlockingErrors is the single flag callers use to block publication.
type ComplianceResult struct {
	FloorPrice         float64           `json:"floor_price"`
	BelowFloor         bool              `json:"below_floor"`
	RegistrationStatus string            `json:"registration_status"`
	TollCompliance     string            `json:"toll_compliance"`
	HasBlockingErrors  bool              `json:"has_blocking_errors"`
	Alerts             []ComplianceAlert `json:"alerts"`
}

// CostBreakdown exposes every cost addend separately; callers audit individual
// cost lines, not just the sum.
type CostBreakdown struct {
	VariableCost      float64 `json:"variable_cost"`
	FuelCost          float64 `json:"fuel_cost"`
	FixedCost         float64 `json:"fixed_cost"`
	WaitingCost       float64 `json:"waiting_cost"`
	PickupDeliveryFee float64 `json:"pickup_delivery_fee"`
	EmptyReturnCost   float64 `json:"empty_return_cost"`
	AdminFee          float64 `json:"admin_fee"`
}

// PriceAnalysis is the full output of the pricing & compliance engine.
type PriceAnalysis struct {
	TotalCost      float64          `json:"total_cost"`
	Breakdown      CostBreakdown    `json:"breakdown"`
	ProfitValue    float64          `json:"profit_value"`
	MarginPercent  float64          `json:"margin_percent"`
	Classification string           `json:"classification"`
	Compliance     ComplianceResult `json:"compliance"`
}
