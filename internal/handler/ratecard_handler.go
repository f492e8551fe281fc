package handler

import (
	"fmt"

	"freight-web/internal/repository"
	"freight-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type RateCardHandler struct {
	rateCardRepo *repository.RateCardRepository
}

func NewRateCardHandler(rateCardRepo *repository.RateCardRepository) *RateCardHandler {
	return &RateCardHandler{rateCardRepo: rateCardRepo}
}

// GetRateCards lists the authenticated carrier's rate card rows.
func (h *RateCardHandler) GetRateCards(c *fiber.Ctx) error {
	carrierID := c.Locals("carrier_id").(int64)

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	rows, total, err := h.rateCardRepo.FindByCarrier(carrierID, params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve rate cards", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Rate cards retrieved successfully", fiber.Map{
		"rate_cards": rows,
		"pagination": pagination,
	}, pagination)
}

// DownloadTemplate generates an empty rate-table template with the headers
// the importer recognizes.
func (h *RateCardHandler) DownloadTemplate(c *fiber.Ctx) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Tabela de Frete"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}

	headers := []string{
		"CEP de Origem", "CEP de Destino", "Prazo de Entrega (dias úteis)",
		"Até 30kg", "31 a 50kg", "51 a 70kg", "71 a 100kg", "Acima de 100kg (por kg)",
		"Frete Mínimo", "Taxa de Despacho", "GRIS (%)", "Seguro (%)", "Pedágio (100kg)", "ICMS (%)",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", columnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", columnName(len(headers)-1)), headerStyle)

	// Sample row in the Brazilian formats the importer expects
	sample := []interface{}{
		"01310-100", "30130-010", "3",
		"25,00", "32,50", "41,00", "55,00", "1,10",
		"25,00", "22,50", "0,5", "0,3", "2,50", "7",
	}
	for i, value := range sample {
		cell := fmt.Sprintf("%s2", columnName(i))
		f.SetCellValue(sheetName, cell, value)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="tabela_frete_template.xlsx"`)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(buf.Bytes())
}

func columnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
