package service

import "testing"

func TestNormalizeCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Prazo de Entrega (dias úteis)", "prazodeentregadiasuteis"},
		{"CEP de Origem", "cepdeorigem"},
		{"Até 30kg", "ate30kg"},
		{"GRIS (%)", "gris"},
		{"  Pedágio / 100kg  ", "pedagio100kg"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeCell(tt.input); got != tt.want {
			t.Errorf("NormalizeCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func fullHeader() []string {
	return []string{
		"CEP de Origem", "CEP de Destino", "Prazo de Entrega (dias úteis)",
		"Até 30kg", "31 a 50kg", "51 a 70kg", "71 a 100kg", "Acima de 100kg (por kg)",
		"Frete Mínimo", "Taxa de Despacho", "GRIS (%)", "Seguro (%)", "Pedágio (100kg)", "ICMS (%)",
	}
}

func TestFindHeaderRowSkipsTitleRows(t *testing.T) {
	grid := [][]string{
		{"TRANSPORTES EXEMPLO LTDA"},
		{"Tabela de frete fracionado"},
		{},
		fullHeader(),
		{"01310-100", "30130-010", "3"},
	}

	header := FindHeaderRow(grid)
	if header == nil {
		t.Fatal("FindHeaderRow returned nil for a valid sheet")
	}
	if header.RowIndex != 3 {
		t.Errorf("header row index = %d, want 3", header.RowIndex)
	}
}

func TestFindHeaderRowNotFound(t *testing.T) {
	grid := [][]string{
		{"only", "decoration"},
		{"CEP de Origem", "sem destino nem prazo"},
	}
	if header := FindHeaderRow(grid); header != nil {
		t.Errorf("expected nil header, got row %d", header.RowIndex)
	}
}

func TestResolveColumnsOrderIndependent(t *testing.T) {
	// Shuffled non-anchor columns must resolve to the same semantic fields.
	shuffled := []string{
		"ICMS (%)", "Frete Mínimo", "CEP de Destino", "Prazo de Entrega (dias úteis)",
		"Acima de 100kg (por kg)", "CEP de Origem", "Até 30kg",
	}
	grid := [][]string{shuffled}

	header := FindHeaderRow(grid)
	if header == nil {
		t.Fatal("header not found in shuffled sheet")
	}

	columns, err := ResolveColumns(header)
	if err != nil {
		t.Fatalf("ResolveColumns: %v", err)
	}

	want := map[Field]int{
		FieldICMS:        0,
		FieldMinPrice:    1,
		FieldDest:        2,
		FieldDeadline:    3,
		FieldAbove100PerKg: 4,
		FieldOrigin:      5,
		FieldWeight0To30: 6,
	}
	for field, idx := range want {
		if columns[field] != idx {
			t.Errorf("column %s = %d, want %d", field, columns[field], idx)
		}
	}
}

func TestResolveColumnsMissingRequired(t *testing.T) {
	grid := [][]string{{"CEP de Origem", "CEP de Destino", "Prazo de Entrega"}}

	header := FindHeaderRow(grid)
	if header == nil {
		t.Fatal("header not found")
	}

	if _, err := ResolveColumns(header); err == nil {
		t.Error("expected error for missing required columns, got nil")
	}
}
