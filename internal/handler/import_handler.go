package handler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"freight-web/internal/config"
	"freight-web/internal/models"
	"freight-web/internal/repository"
	"freight-web/internal/service"
	"freight-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ImportHandler struct {
	importService *service.RateTableImportService
	sessionRepo   *repository.ImportSessionRepository
	carrierRepo   *repository.CarrierRepository
	cfg           *config.Config
}

func NewImportHandler(
	importService *service.RateTableImportService,
	sessionRepo *repository.ImportSessionRepository,
	carrierRepo *repository.CarrierRepository,
	cfg *config.Config,
) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		sessionRepo:   sessionRepo,
		carrierRepo:   carrierRepo,
		cfg:           cfg,
	}
}

// ImportSelfService imports a carrier's own published rate table, no markup.
func (h *ImportHandler) ImportSelfService(c *fiber.Ctx) error {
	carrierID := c.Locals("carrier_id").(int64)

	ictx := service.ImportContext{
		Mode:      service.ImportModeSelfService,
		CarrierID: carrierID,
	}
	return h.runImport(c, ictx)
}

// ImportAdminAssisted imports a cost sheet on behalf of a target carrier,
// marking cost prices up by the given margin to produce published prices.
func (h *ImportHandler) ImportAdminAssisted(c *fiber.Ctx) error {
	targetCarrierID, err := strconv.ParseInt(c.FormValue("target_carrier_id"), 10, 64)
	if err != nil || targetCarrierID <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "target_carrier_id is required", err)
	}

	marginPercent, err := strconv.ParseFloat(c.FormValue("margin_percent", "0"), 64)
	if err != nil || marginPercent < 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "margin_percent must be a non-negative number", err)
	}

	if _, err := h.carrierRepo.FindByID(targetCarrierID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Target carrier not found", err)
	}

	ictx := service.ImportContext{
		Mode:          service.ImportModeAdmin,
		CarrierID:     targetCarrierID,
		MarginPercent: marginPercent,
	}
	return h.runImport(c, ictx)
}

func (h *ImportHandler) runImport(c *fiber.Ctx, ictx service.ImportContext) error {
	logger := utils.GetLogger()

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".xlsx" && ext != ".xls" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only Excel files (.xlsx, .xls) are allowed", nil)
	}
	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	sessionCode := fmt.Sprintf("IMPORT-%s", uuid.New().String()[:8])

	// Keep the original upload on disk as provenance
	filePath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("%s%s", sessionCode, ext))
	if err := c.SaveFile(file, filePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read saved file", err)
	}

	session := &models.ImportSession{
		SessionCode: sessionCode,
		CarrierID:   ictx.CarrierID,
		Filename:    file.Filename,
		Status:      "processing",
	}
	if err := h.sessionRepo.CreateSession(session); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create import session", err)
	}

	ictx.SourceFile = file.Filename
	ictx.Now = time.Now()

	result, importErr := h.importService.ImportSheet(data, ictx)
	if result != nil {
		result.SessionCode = sessionCode
		session.ImportedRows = result.ImportedCount
		session.InvalidRows = result.InvalidCount
	}

	if importErr != nil {
		session.Status = "failed"
		session.ErrorMessage = importErr.Error()
		if err := h.sessionRepo.UpdateSession(session); err != nil {
			logger.WithError(err).Warn("failed to update import session")
		}

		// A sheet with zero usable rows still carries its row errors so the
		// operator can fix the specific rows instead of retrying blindly.
		if errors.Is(importErr, service.ErrNoValidRows) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"success": false,
				"message": "Import failed: no valid rows found",
				"data":    result,
			})
		}
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Import failed", importErr)
	}

	session.Status = "completed"
	if err := h.sessionRepo.UpdateSession(session); err != nil {
		logger.WithError(err).Warn("failed to update import session")
	}

	logger.WithFields(map[string]interface{}{
		"session_code": sessionCode,
		"carrier_id":   ictx.CarrierID,
		"imported":     result.ImportedCount,
		"invalid":      result.InvalidCount,
	}).Info("rate table imported")

	return utils.SuccessResponse(c, "Rate table imported successfully", result)
}

// GetSessions lists import sessions for the authenticated carrier.
func (h *ImportHandler) GetSessions(c *fiber.Ctx) error {
	carrierID := c.Locals("carrier_id").(int64)

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	sessions, total, err := h.sessionRepo.GetSessions(carrierID, params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve sessions", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Sessions retrieved successfully", fiber.Map{
		"sessions":   sessions,
		"pagination": pagination,
	}, pagination)
}
