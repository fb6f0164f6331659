// Package fetcher reads and writes provider panel spreadsheets.
package fetcher

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/liberty-analytics/panel-cli/internal/model"
)

// Options configures the XLSX parser.
type Options struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	SkipRows   int    // extra header rows to skip beyond the first
}

// Column headers the reader interprets. Matching is case-insensitive and
// whitespace-trimmed; anything else passes through via Extra.
const (
	colName      = "name"
	colSpecialty = "specialty"
	colPhone     = "phone"
	colEmail     = "email"
	colAddress   = "physical address"
	colTown      = "town"
	colCounty    = "county"
	colStatus    = "status"
)

// ReadProviders reads a provider panel spreadsheet. The first row must be
// a header naming at least the Physical Address, Town, and County columns.
func ReadProviders(path string, opts Options) ([]model.ProviderRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.New("fetcher: sheet has no header row")
	}

	header := rowToStrings(sheet.Rows[0])
	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var records []model.ProviderRecord
	for i, row := range sheet.Rows[1:] {
		if i < opts.SkipRows {
			continue
		}
		cells := rowToStrings(row)
		if emptyRow(cells) {
			continue
		}
		records = append(records, recordFromRow(header, index, cells))
	}

	return records, nil
}

// headerIndex maps known column headers to their positions.
func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for _, required := range []string{colAddress, colTown, colCounty} {
		if _, ok := index[required]; !ok {
			return nil, eris.Errorf("fetcher: required column %q not found", required)
		}
	}
	return index, nil
}

func recordFromRow(header []string, index map[string]int, cells []string) model.ProviderRecord {
	at := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	rec := model.ProviderRecord{
		Name:      at(colName),
		Specialty: at(colSpecialty),
		Phone:     at(colPhone),
		Email:     at(colEmail),
		Address:   at(colAddress),
		Town:      at(colTown),
		County:    at(colCounty),
		Status:    at(colStatus),
	}

	known := map[string]bool{
		colName: true, colSpecialty: true, colPhone: true, colEmail: true,
		colAddress: true, colTown: true, colCounty: true, colStatus: true,
	}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if known[key] || i >= len(cells) {
			continue
		}
		if v := strings.TrimSpace(cells[i]); v != "" {
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[strings.TrimSpace(h)] = v
		}
	}

	return rec
}

func emptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func getSheet(f *xlsx.File, opts Options) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("fetcher: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("fetcher: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
