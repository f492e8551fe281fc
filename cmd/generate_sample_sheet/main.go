package main

import (
	"fmt"
	"log"
	"os"

	"github.com/xuri/excelize/v2"
)

// Generates a realistic carrier rate sheet for manual import testing: title
// and legend rows above the header, Brazilian number formats, a blank spacer
// row, one broken row and a disclaimer footer after the data.
func main() {
	outputPath := "sample_rate_table.xlsx"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Tabela 2026"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		log.Fatalf("Failed to create sheet: %v", err)
	}

	// Decoration rows before the header, as real carrier sheets have
	f.SetCellValue(sheetName, "A1", "TRANSPORTES BANDEIRANTES LTDA")
	f.SetCellValue(sheetName, "A2", "Tabela de frete fracionado - vigência 01/2026")

	headers := []string{
		"CEP de Origem", "CEP de Destino", "Prazo de Entrega (dias úteis)",
		"Até 30kg", "31 a 50kg", "51 a 70kg", "71 a 100kg", "Acima de 100kg (por kg)",
		"Frete Mínimo", "Taxa de Despacho", "GRIS (%)", "Seguro (%)", "Pedágio (100kg)", "ICMS (%)",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	start, _ := excelize.CoordinatesToCellName(1, 4)
	end, _ := excelize.CoordinatesToCellName(len(headers), 4)
	f.SetCellStyle(sheetName, start, end, headerStyle)

	data := [][]interface{}{
		{"01310-100", "30130-010", "3", "25,00", "32,50", "41,00", "55,00", "1,10", "25,00", "22,50", "0,5", "0,3", "2,50", "7"},
		{"01310100", "80010-000", "4", "R$ 28,00", "", "48,00", "", "1,25", "28,00", "22,50", "0,5", "0,3", "2,50", "12"},
		{}, // spacer
		{"04538-132", "70040-010", "5", "31,00", "39,00", "", "62,00", "1,40", "31,00", "22,50", "0,5", "0,3", "3,00", "7"},
		{"04538-132", "abc", "x", "31,00", "", "", "", "1,40", "31,00", "22,50", "0,5", "0,3", "3,00", "7"}, // broken row
	}
	for rowIdx, rowData := range data {
		for colIdx, value := range rowData {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+5)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// Footer decoration the importer must stop at
	footerRow := len(data) + 6
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", footerRow), "O cálculo do frete não inclui taxas de armazenagem.")
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", footerRow+1), "Valores sujeitos a alteração sem aviso prévio.")

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(outputPath); err != nil {
		log.Fatalf("Failed to save file: %v", err)
	}
	log.Printf("Sample rate table written to %s", outputPath)
}
