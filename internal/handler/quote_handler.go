package handler

import (
	"errors"

	"freight-web/internal/models"
	"freight-web/internal/service"
	"freight-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type QuoteHandler struct {
	quoteService *service.QuoteService
}

func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Calculate prices a shipment across every carrier serving the route.
// An empty offer list is a valid response: no carrier serves the route.
func (h *QuoteHandler) Calculate(c *fiber.Ctx) error {
	var req models.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	offers, err := h.quoteService.CalculateQuote(req)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			return utils.ValidationErrorResponse(c, vErr.Field, vErr.Message)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to calculate quote", err)
	}

	return utils.SuccessResponse(c, "Quote calculated successfully", fiber.Map{
		"offers": offers,
		"count":  len(offers),
	})
}
