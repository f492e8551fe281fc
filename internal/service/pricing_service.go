package service

import (
	"time"

	"freight-web/internal/models"
	"freight-web/internal/utils"
)

// MarginBands are the policy thresholds for margin classification. They are
// passed in explicitly so tests can vary them; there is no package-level
// mutable default.
type MarginBands struct {
	ThinMax    float64 // margin below this (and >= 0) is "thin"
	HealthyMax float64 // margin below this (and >= ThinMax) is "healthy"
}

func DefaultMarginBands() MarginBands {
	return MarginBands{ThinMax: 5, HealthyMax: 15}
}

// Margin classifications
const (
	ClassificationLoss    = "loss"
	ClassificationThin    = "thin"
	ClassificationHealthy = "healthy"
	ClassificationHigh    = "high"
)

// vehicleAxleDefaults resolves axle count from the vehicle type when the
// caller gives no explicit override.
var vehicleAxleDefaults = map[string]int{
	"vuc":        2,
	"toco":       2,
	"truck":      3,
	"bitruck":    4,
	"carreta":    5,
	"carreta_ls": 6,
	"rodotrem":   9,
}

const fallbackAxleCount = 2

type PricingService struct {
	bands MarginBands
}

func NewPricingService(bands MarginBands) *PricingService {
	return &PricingService{bands: bands}
}

// Analyze computes the operating cost breakdown, profit margin, ANTT floor
// price and compliance verdict for a proposed freight price. It is a pure
// function of its inputs: identical inputs always produce an identical
// verdict. Expiry checks compare against the injected now, never the clock.
func (s *PricingService) Analyze(
	input models.PricingInput,
	costs models.CostParameters,
	ref models.ANTTReferenceSnapshot,
	snapshot models.CarrierComplianceSnapshot,
	now time.Time,
) models.PriceAnalysis {
	breakdown := computeBreakdown(input, costs, ref)
	totalCost := utils.Round2(breakdown.VariableCost + breakdown.FuelCost + breakdown.FixedCost +
		breakdown.WaitingCost + breakdown.PickupDeliveryFee + breakdown.EmptyReturnCost + breakdown.AdminFee)

	profit := utils.Round2(input.AnalyzedPrice - totalCost)
	marginPercent := 0.0
	if input.AnalyzedPrice != 0 {
		marginPercent = utils.Round2(profit / input.AnalyzedPrice * 100)
	}

	return models.PriceAnalysis{
		TotalCost:      totalCost,
		Breakdown:      breakdown,
		ProfitValue:    profit,
		MarginPercent:  marginPercent,
		Classification: s.classify(marginPercent),
		Compliance:     s.checkCompliance(input, costs, ref, snapshot, now),
	}
}

func computeBreakdown(input models.PricingInput, costs models.CostParameters, ref models.ANTTReferenceSnapshot) models.CostBreakdown {
	km := input.DistanceKm

	variable := km * costs.VariableCostPerKm

	dieselPrice := costs.DieselPrice
	if dieselPrice == 0 {
		dieselPrice = ref.DieselReferencePrice
	}
	fuel := 0.0
	if costs.AvgConsumptionKmL > 0 {
		fuel = km / costs.AvgConsumptionKmL * dieselPrice
	}

	fixed := 0.0
	if costs.EstimatedMonthlyKm > 0 {
		fixed = costs.FixedMonthlyCost / costs.EstimatedMonthlyKm * km
	}

	waiting := input.WaitingHours * costs.WaitingCostPerHour

	// Unpaid backhaul: the empty-return factor inflates the distance-driven
	// costs, not the flat fees.
	emptyReturn := (variable + fuel + fixed) * costs.EmptyReturnFactor

	subtotal := variable + fuel + fixed + waiting + costs.PickupDeliveryFee + emptyReturn
	adminFee := subtotal * costs.AdminFeePercent / 100

	return models.CostBreakdown{
		VariableCost:      utils.Round2(variable),
		FuelCost:          utils.Round2(fuel),
		FixedCost:         utils.Round2(fixed),
		WaitingCost:       utils.Round2(waiting),
		PickupDeliveryFee: utils.Round2(costs.PickupDeliveryFee),
		EmptyReturnCost:   utils.Round2(emptyReturn),
		AdminFee:          utils.Round2(adminFee),
	}
}

func (s *PricingService) classify(marginPercent float64) string {
	switch {
	case marginPercent < 0:
		return ClassificationLoss
	case marginPercent < s.bands.ThinMax:
		return ClassificationThin
	case marginPercent < s.bands.HealthyMax:
		return ClassificationHealthy
	default:
		return ClassificationHigh
	}
}

// FloorPrice computes the ANTT regulatory minimum for the route.
func FloorPrice(input models.PricingInput, ref models.ANTTReferenceSnapshot) float64 {
	axles := input.AxleCount
	if axles == 0 {
		if v, ok := vehicleAxleDefaults[input.VehicleType]; ok {
			axles = v
		} else {
			axles = fallbackAxleCount
		}
	}

	mult, ok := ref.OperationMultipliers[input.OperationCode]
	if !ok {
		mult = ref.OperationMultipliers["default"]
	}
	if mult == 0 {
		mult = 1
	}

	km := input.DistanceKm
	floor := ((ref.BasePerKm + ref.PerAxleKm*float64(axles) + ref.DieselCoeff*km) * km + input.TollEstimate) * mult
	if floor < 0 {
		floor = 0
	}
	return utils.Round2(floor)
}

func (s *PricingService) checkCompliance(
	input models.PricingInput,
	costs models.CostParameters,
	ref models.ANTTReferenceSnapshot,
	snapshot models.CarrierComplianceSnapshot,
	now time.Time,
) models.ComplianceResult {
	result := models.ComplianceResult{
		FloorPrice:         FloorPrice(input, ref),
		RegistrationStatus: snapshot.RNTRCStatus,
		TollCompliance:     models.TollComplianceNotApplicable,
		Alerts:             []models.ComplianceAlert{},
	}

	addError := func(code, message string) {
		result.Alerts = append(result.Alerts, models.ComplianceAlert{
			Code:     code,
			Severity: models.SeverityError,
			Message:  message,
		})
	}

	if input.AnalyzedPrice < result.FloorPrice {
		result.BelowFloor = true
		addError("price_below_antt_floor", "analyzed price is below the ANTT regulatory floor")
	}

	if snapshot.RNTRCStatus != models.RegistrationActive {
		addError("rntrc_not_active", "carrier RNTRC registration is not active")
	}
	if snapshot.RNTRCExpiry != nil && snapshot.RNTRCExpiry.Before(now) {
		addError("rntrc_expired", "carrier RNTRC registration has expired")
	}
	if snapshot.ANTTStatus != models.RegistrationActive {
		addError("antt_not_active", "carrier ANTT registration is not active")
	}
	if snapshot.InsuranceExpiry != nil && snapshot.InsuranceExpiry.Before(now) {
		addError("insurance_expired", "civil-liability insurance has expired")
	}

	if input.TollEstimate > 0 {
		if costs.RequiresValePedagio && !input.TollIncluded {
			// Internally a warning state; surfaced as a blocking error
			// because publishing without vale-pedágio is not allowed.
			result.TollCompliance = models.TollComplianceWarning
			addError("vale_pedagio_missing", "route requires vale-pedágio but the price does not include it")
		} else {
			result.TollCompliance = models.TollComplianceOK
		}
	}

	for _, alert := range result.Alerts {
		if alert.Severity == models.SeverityError {
			result.HasBlockingErrors = true
			break
		}
	}

	return result
}
