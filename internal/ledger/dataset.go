package ledger

import (
	"bytes"
	"embed"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/extrame/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

//go:embed ledger.csv
var embedded embed.FS

// Load returns the packaged historical ledger. The dataset ships with the
// binary and is the immutable reference the reconciliation and overdue
// engines read from.
func Load() ([]Record, int, error) {
	data, err := embedded.ReadFile("ledger.csv")
	if err != nil {
		return nil, 0, err
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, 0, err
	}
	records, skipped := FromRows(rows)
	return records, skipped, nil
}

// ParseFile reads an uploaded replacement ledger. CSV, XLSX and legacy XLS
// are accepted; the first sheet and first header row are assumed.
func ParseFile(file io.ReadSeeker, ext string) ([]Record, int, error) {
	var rows [][]string
	switch strings.ToLower(ext) {
	case ".csv":
		all, err := csv.NewReader(file).ReadAll()
		if err != nil {
			return nil, 0, err
		}
		rows = all
	case ".xlsx":
		f, err := excelize.OpenReader(file)
		if err != nil {
			return nil, 0, err
		}
		sheet := f.GetSheetName(0)
		all, err := f.GetRows(sheet)
		if err != nil {
			return nil, 0, err
		}
		rows = all
	case ".xls":
		wb, err := xls.OpenReader(file, "utf-8")
		if err != nil {
			return nil, 0, err
		}
		rows = wb.ReadAllCells(20000)
	default:
		return nil, 0, errors.New("unsupported file type")
	}
	if len(rows) < 2 {
		return nil, 0, errors.New("file has no data rows")
	}
	records, skipped := FromRows(rows)
	return records, skipped, nil
}

// FromRows converts raw cells (header row first) into ledger records.
// Columns: client_name, month, amount, status, notes. Malformed rows are
// skipped and counted.
func FromRows(rows [][]string) ([]Record, int) {
	records := make([]Record, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		if i == 0 && looksLikeHeader(row) {
			continue
		}
		if len(row) < 4 {
			skipped++
			continue
		}
		month, ok := ParseMonth(row[1])
		if !ok {
			skipped++
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil {
			skipped++
			continue
		}
		rec := Record{
			ClientName: strings.TrimSpace(row[0]),
			Month:      month,
			Amount:     amount,
			Status:     row[3],
		}
		if rec.ClientName == "" {
			skipped++
			continue
		}
		if len(row) > 4 {
			rec.Notes = strings.TrimSpace(row[4])
		}
		records = append(records, rec)
	}
	return records, skipped
}

func looksLikeHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "client_name" || first == "client" || first == "name"
}
