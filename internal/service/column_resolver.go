package service

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field identifies one semantic column of a carrier rate sheet.
type Field string

const (
	FieldOrigin        Field = "origin_cep"
	FieldDest          Field = "dest_cep"
	FieldDeadline      Field = "deadline_days"
	FieldWeight0To30   Field = "weight_0_30"
	FieldWeight31To50  Field = "weight_31_50"
	FieldWeight51To70  Field = "weight_51_70"
	FieldWeight71To100 Field = "weight_71_100"
	FieldAbove100PerKg Field = "above_100_per_kg"
	FieldMinPrice      Field = "min_price"
	FieldDispatchFee   Field = "dispatch_fee"
	FieldGris          Field = "gris_percent"
	FieldInsurance     Field = "insurance_percent"
	FieldToll          Field = "toll_per_100kg"
	FieldICMS          Field = "icms_percent"
)

// fieldAliases maps each semantic field to the normalized header tokens seen in
// real carrier sheets. Matching is a substring test against the normalized cell,
// so "Prazo de Entrega (dias úteis)" and "prazoentregadiasuteis" both hit
// "prazo". Headers vary per carrier; extend the alias lists, not the matcher.
var fieldAliases = map[Field][]string{
	FieldOrigin:        {"cepdeorigem", "ceporigem", "cepinicial", "origem"},
	FieldDest:          {"cepdedestino", "cepdestino", "cepfinal", "destino"},
	FieldDeadline:      {"prazodeentrega", "prazoentrega", "prazo"},
	FieldWeight0To30:   {"ate30", "de0a30", "0a30"},
	FieldWeight31To50:  {"31a50", "de31a50", "ate50"},
	FieldWeight51To70:  {"51a70", "de51a70", "ate70"},
	FieldWeight71To100: {"71a100", "de71a100", "ate100"},
	FieldAbove100PerKg: {"acimade100", "acima100", "kgadicional", "kgexcedente", "excedente"},
	FieldMinPrice:      {"freteminimo", "valorminimo", "fretminimo", "minimo"},
	FieldDispatchFee:   {"taxadedespacho", "taxadespacho", "despacho"},
	FieldGris:          {"gris"},
	FieldInsurance:     {"advalorem", "seguro"},
	FieldToll:          {"pedagio"},
	FieldICMS:          {"icms"},
}

// anchorFields must all match on a single row for it to count as the header.
// Tolerates arbitrary title/legend rows above the table.
var anchorFields = []Field{FieldOrigin, FieldDest, FieldDeadline}

// requiredFields must all resolve to a column once the header is found.
// The weight brackets and surcharges are individually optional.
var requiredFields = []Field{
	FieldOrigin, FieldDest, FieldDeadline, FieldAbove100PerKg, FieldMinPrice,
}

var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeCell lowercases a header cell, strips diacritics and drops every
// non-alphanumeric rune, so alias matching is insensitive to accents, spacing
// and punctuation.
func NormalizeCell(cell string) string {
	stripped, _, err := transform.String(stripDiacritics, cell)
	if err != nil {
		stripped = cell
	}
	var b strings.Builder
	for _, r := range strings.ToLower(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HeaderLocation is the detected header row and its normalized cells.
type HeaderLocation struct {
	RowIndex int
	Cells    []string
}

// FindHeaderRow scans the grid for the first row whose normalized cells match
// at least one alias of every anchor field. Returns nil when no row qualifies;
// the importer turns that into an explicit "header not found" error rather
// than guessing.
func FindHeaderRow(grid [][]string) *HeaderLocation {
	for rowIdx, row := range grid {
		normalized := make([]string, len(row))
		for i, cell := range row {
			normalized[i] = NormalizeCell(cell)
		}

		allAnchors := true
		for _, anchor := range anchorFields {
			if resolveColumn(normalized, fieldAliases[anchor]) < 0 {
				allAnchors = false
				break
			}
		}
		if allAnchors {
			return &HeaderLocation{RowIndex: rowIdx, Cells: normalized}
		}
	}
	return nil
}

// resolveColumn finds the first cell containing any of the aliases, or -1.
func resolveColumn(normalizedCells []string, aliases []string) int {
	for idx, cell := range normalizedCells {
		if cell == "" {
			continue
		}
		for _, alias := range aliases {
			if strings.Contains(cell, alias) {
				return idx
			}
		}
	}
	return -1
}

// ResolveColumns maps every semantic field to a column index within the
// detected header. Missing required fields reject the whole import up front;
// partial column mapping is never accepted.
func ResolveColumns(header *HeaderLocation) (map[Field]int, error) {
	columns := make(map[Field]int, len(fieldAliases))
	for field, aliases := range fieldAliases {
		if idx := resolveColumn(header.Cells, aliases); idx >= 0 {
			columns[field] = idx
		}
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := columns[field]; !ok {
			missing = append(missing, string(field))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required columns not found: %s", strings.Join(missing, ", "))
	}

	return columns, nil
}
