package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/paintflow/inventory-engine/internal/clock"
	"github.com/paintflow/inventory-engine/internal/domain"
)

var requiredColumns = []string{"item_id", "region_id", "date", "quantity_sold", "revenue"}

// IsSalesFile reports whether the importer can read name.
func IsSalesFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// ReadSalesFile parses a daily sales file. CSV files and the first sheet of
// XLSX workbooks are accepted; columns are matched by header name and may
// appear in any order.
func ReadSalesFile(path string) ([]domain.SalesRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readSalesWorkbook(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseSales(file)
}

func ParseSales(r io.Reader) ([]domain.SalesRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	parser, err := newSalesParser(header)
	if err != nil {
		return nil, err
	}

	records := make([]domain.SalesRecord, 0)
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parser.parse(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func readSalesWorkbook(path string) ([]domain.SalesRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheets", path)
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var (
		parser  *salesParser
		records = make([]domain.SalesRecord, 0)
		line    int
	)
	for rows.Next() {
		line++
		row, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if parser == nil {
			if parser, err = newSalesParser(row); err != nil {
				return nil, err
			}
			continue
		}
		if len(row) == 0 {
			continue
		}

		rec, err := parser.parse(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in %s: %w", path, err)
	}
	if parser == nil {
		return nil, fmt.Errorf("sheet %s has no header row", sheet)
	}

	return records, nil
}

type salesParser struct {
	colMap map[string]int
}

func newSalesParser(header []string) (*salesParser, error) {
	// Create a map of column indices
	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colMap[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}
	return &salesParser{colMap: colMap}, nil
}

func (p *salesParser) parse(row []string) (domain.SalesRecord, error) {
	get := func(col string) string {
		i := p.colMap[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	itemID, err := strconv.ParseInt(get("item_id"), 10, 64)
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("invalid item_id: %w", err)
	}
	regionID, err := strconv.ParseInt(get("region_id"), 10, 64)
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("invalid region_id: %w", err)
	}
	date, err := clock.ParseDate(get("date"))
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("invalid date: %w", err)
	}
	qty, err := strconv.Atoi(get("quantity_sold"))
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("invalid quantity_sold: %w", err)
	}
	if qty < 0 {
		return domain.SalesRecord{}, fmt.Errorf("negative quantity_sold %d", qty)
	}
	revenue, err := decimal.NewFromString(get("revenue"))
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("invalid revenue: %w", err)
	}

	return domain.SalesRecord{
		ItemID:       itemID,
		RegionID:     regionID,
		Date:         date,
		QuantitySold: qty,
		Revenue:      revenue,
	}, nil
}
