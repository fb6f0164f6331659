package fetcher

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/liberty-analytics/panel-cli/internal/model"
)

// enrichedHeader is the fixed column order of the output spreadsheet.
// Extra pass-through columns follow, sorted by name for determinism.
var enrichedHeader = []string{
	"Name", "Specialty", "Phone", "Email",
	"Physical Address", "Town", "County", "Status",
	"Latitude", "Longitude", "GeoSource", "GeoConfidence",
}

// WriteProviders writes the enriched panel to an XLSX file, preserving
// the input record order.
func WriteProviders(path string, records []model.ProviderRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Providers")
	if err != nil {
		return eris.Wrap(err, "fetcher: add sheet")
	}

	extraCols := collectExtraColumns(records)

	header := sheet.AddRow()
	for _, h := range enrichedHeader {
		header.AddCell().SetString(h)
	}
	for _, h := range extraCols {
		header.AddCell().SetString(h)
	}

	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(rec.Name)
		row.AddCell().SetString(rec.Specialty)
		row.AddCell().SetString(rec.Phone)
		row.AddCell().SetString(rec.Email)
		row.AddCell().SetString(rec.Address)
		row.AddCell().SetString(rec.Town)
		row.AddCell().SetString(rec.County)
		row.AddCell().SetString(rec.Status)

		writeCoord(row, rec.Latitude)
		writeCoord(row, rec.Longitude)
		row.AddCell().SetString(string(rec.GeoSource))
		row.AddCell().SetString(string(rec.GeoConfidence))

		for _, col := range extraCols {
			row.AddCell().SetString(rec.Extra[col])
		}
	}

	return eris.Wrap(f.Save(path), "fetcher: save file")
}

// writeCoord writes a coordinate cell, leaving it blank when unresolved.
func writeCoord(row *xlsx.Row, v *float64) {
	cell := row.AddCell()
	if v != nil {
		cell.SetFloat(*v)
	}
}

func collectExtraColumns(records []model.ProviderRecord) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for col := range rec.Extra {
			seen[col] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
