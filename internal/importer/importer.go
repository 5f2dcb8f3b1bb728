// Package importer provides CSV and Excel import for stock and demand lists.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BarCut/internal/model"
)

// Kind selects which list a file describes.
type Kind int

const (
	KindDemand Kind = iota
	KindStock
)

func (k Kind) String() string {
	if k == KindStock {
		return "stock"
	}
	return "demand"
}

// ImportResult holds the results of an import operation. Only the list
// matching the requested Kind is filled.
type ImportResult struct {
	Stock    []model.StockPiece
	Demand   []model.DemandPiece
	Errors   []string
	Warnings []string
}

// Count returns the number of imported entries.
func (r ImportResult) Count() int {
	return len(r.Stock) + len(r.Demand)
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID       int
	Label    int
	Length   int
	Width    int
	Quantity int
	Material int
	Priority int
	Price    int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":       {"id", "code", "ref", "reference", "sku"},
	"label":    {"label", "name", "part", "part name", "description", "desc", "piece", "item"},
	"length":   {"length", "len", "l", "size"},
	"width":    {"width", "w", "section"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"material": {"material", "mat", "type", "profile"},
	"priority": {"priority", "prio", "order"},
	"price":    {"price", "cost", "unit price"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (Label, Length, Quantity, Width, Material) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, Label: -1, Length: -1, Width: -1, Quantity: -1, Material: -1, Priority: -1, Price: -1}

	slots := map[string]*int{
		"id":       &mapping.ID,
		"label":    &mapping.Label,
		"length":   &mapping.Length,
		"width":    &mapping.Width,
		"quantity": &mapping.Quantity,
		"material": &mapping.Material,
		"priority": &mapping.Priority,
		"price":    &mapping.Price,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{
			ID:       -1,
			Label:    0,
			Length:   1,
			Quantity: 2,
			Width:    3,
			Material: 4,
			Priority: -1,
			Price:    -1,
		}, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber accepts a decimal comma when no decimal point is present.
func parseNumber(s string) (float64, error) {
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}

// fields are the values shared by stock and demand rows.
type fields struct {
	id, label, material string
	length, width       float64
	quantity            int
}

// parseCommon extracts the shared fields. Returns an error message on failure.
func parseCommon(row []string, mapping ColumnMapping, rowLabel string, count int) (fields, string) {
	f := fields{
		id:       getCell(row, mapping.ID),
		label:    getCell(row, mapping.Label),
		material: getCell(row, mapping.Material),
	}
	if f.label == "" {
		f.label = f.id
	}
	if f.label == "" {
		f.label = fmt.Sprintf("Piece %d", count+1)
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return f, fmt.Sprintf("%s: Missing length value", rowLabel)
	}
	length, err := parseNumber(lengthStr)
	if err != nil {
		return f, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr)
	}

	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr == "" {
		return f, fmt.Sprintf("%s: Missing quantity value", rowLabel)
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil {
		return f, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
	}

	if length <= 0 || qty <= 0 {
		return f, fmt.Sprintf("%s: Length and quantity must be positive", rowLabel)
	}
	f.length, f.quantity = length, qty

	if widthStr := getCell(row, mapping.Width); widthStr != "" {
		width, err := parseNumber(widthStr)
		if err != nil || width < 0 {
			return f, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr)
		}
		f.width = width
	}
	return f, ""
}

// parseStockRow extracts a StockPiece from a row.
func parseStockRow(row []string, mapping ColumnMapping, rowLabel string, count int) (model.StockPiece, string, string) {
	f, errMsg := parseCommon(row, mapping, rowLabel, count)
	if errMsg != "" {
		return model.StockPiece{}, errMsg, ""
	}
	s := model.NewStockPiece(f.id, f.length, f.quantity)
	s.Label = f.label
	s.Width = f.width
	s.Material = f.material

	var warning string
	if priceStr := getCell(row, mapping.Price); priceStr != "" {
		price, err := parseNumber(priceStr)
		if err != nil || price < 0 {
			warning = fmt.Sprintf("%s: Invalid price '%s', ignoring", rowLabel, priceStr)
		} else {
			s.Price = price
		}
	}
	return s, "", warning
}

// parseDemandRow extracts a DemandPiece from a row.
func parseDemandRow(row []string, mapping ColumnMapping, rowLabel string, count int) (model.DemandPiece, string, string) {
	f, errMsg := parseCommon(row, mapping, rowLabel, count)
	if errMsg != "" {
		return model.DemandPiece{}, errMsg, ""
	}
	d := model.NewDemandPiece(f.id, f.length, f.quantity)
	d.Label = f.label
	d.Width = f.width
	d.Material = f.material

	var warning string
	if prioStr := getCell(row, mapping.Priority); prioStr != "" {
		prio, err := strconv.Atoi(prioStr)
		if err != nil {
			warning = fmt.Sprintf("%s: Invalid priority '%s', defaulting to 0", rowLabel, prioStr)
		} else {
			d.Priority = prio
		}
	}
	return d, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Import dispatches on the file extension: .xlsx/.xlsm/.xls go to
// ImportExcel, everything else to ImportCSV.
func Import(path string, kind Kind) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path, kind)
	default:
		return ImportCSV(path, kind)
	}
}

// ImportCSV imports a list from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string, kind Kind) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", kind, result.Warnings)
}

// ImportCSVFromReader imports a list from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, kind Kind) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", kind, nil)
}

// ImportExcel imports a list from the first sheet of an Excel file.
func ImportExcel(path string, kind Kind) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", kind, nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, kind Kind, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Quantity == -1 {
			missing = append(missing, "Quantity")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 2 {
		if _, err := parseNumber(strings.TrimSpace(rows[0][1])); err != nil {
			// Unrecognized header: skip it but keep positional mapping
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		var errMsg, warning string
		switch kind {
		case KindStock:
			var s model.StockPiece
			s, errMsg, warning = parseStockRow(row, mapping, rowLabel, len(result.Stock))
			if errMsg == "" {
				result.Stock = append(result.Stock, s)
			}
		default:
			var d model.DemandPiece
			d, errMsg, warning = parseDemandRow(row, mapping, rowLabel, len(result.Demand))
			if errMsg == "" {
				result.Demand = append(result.Demand, d)
			}
		}

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
	}

	return result
}
