package handler

import (
	"encoding/json"
	"time"

	"freight-web/internal/models"
	"freight-web/internal/service"
	"freight-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

// TaskPricingAudit persists a pricing analysis snapshot in the background.
const TaskPricingAudit = "pricing:audit"

// PricingAuditPayload is the asynq task payload for an audit write.
type PricingAuditPayload struct {
	CarrierID     int64                `json:"carrier_id"`
	AnalyzedPrice float64              `json:"analyzed_price"`
	Analysis      models.PriceAnalysis `json:"analysis"`
}

// PricingAnalyzeRequest bundles the four inputs of the compliance engine.
// The regulatory snapshot and the carrier compliance snapshot are supplied by
// the caller; the engine never fetches them itself.
type PricingAnalyzeRequest struct {
	Input          models.PricingInput              `json:"input"`
	CostParameters models.CostParameters            `json:"cost_parameters"`
	ANTTReference  models.ANTTReferenceSnapshot     `json:"antt_reference"`
	Compliance     models.CarrierComplianceSnapshot `json:"compliance_snapshot"`
}

type PricingHandler struct {
	pricingService *service.PricingService
	asynqClient    *asynq.Client
}

func NewPricingHandler(pricingService *service.PricingService, asynqClient *asynq.Client) *PricingHandler {
	return &PricingHandler{pricingService: pricingService, asynqClient: asynqClient}
}

// Analyze runs the pricing & compliance engine on the submitted price and
// queues a best-effort audit snapshot. The analysis itself never waits on the
// audit write.
func (h *PricingHandler) Analyze(c *fiber.Ctx) error {
	carrierID := c.Locals("carrier_id").(int64)

	var req PricingAnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	analysis := h.pricingService.Analyze(req.Input, req.CostParameters, req.ANTTReference, req.Compliance, time.Now())

	if h.asynqClient != nil {
		payload, _ := json.Marshal(PricingAuditPayload{
			CarrierID:     carrierID,
			AnalyzedPrice: req.Input.AnalyzedPrice,
			Analysis:      analysis,
		})
		if _, err := h.asynqClient.Enqueue(asynq.NewTask(TaskPricingAudit, payload)); err != nil {
			utils.GetLogger().WithError(err).Warn("failed to queue pricing audit task")
		}
	}

	return utils.SuccessResponse(c, "Price analyzed successfully", analysis)
}
