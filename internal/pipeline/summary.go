package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/liberty-analytics/panel-cli/internal/model"
)

// countyStats aggregates provider counts for one county.
type countyStats struct {
	Total    int
	Active   int
	Inactive int
}

var titleCaser = cases.Title(language.English)

// FormatSummary renders the county-level distribution report as markdown.
func FormatSummary(records []model.ProviderRecord) string {
	byCounty := make(map[string]*countyStats)
	for _, rec := range records {
		county := strings.TrimSpace(rec.County)
		if county == "" {
			county = "Unknown"
		}
		key := strings.ToLower(county)
		stats, ok := byCounty[key]
		if !ok {
			stats = &countyStats{}
			byCounty[key] = stats
		}
		stats.Total++
		if rec.Active() {
			stats.Active++
		} else {
			stats.Inactive++
		}
	}

	counties := make([]string, 0, len(byCounty))
	for county := range byCounty {
		counties = append(counties, county)
	}
	sort.Strings(counties)

	var b strings.Builder
	b.WriteString("# Provider Distribution by County\n\n")
	b.WriteString(
		"This section summarizes the distribution of medical providers across counties, " +
			"based on the latest geocoded provider panel. Active providers represent facilities " +
			"currently operational, while inactive providers are retained for historical and " +
			"planning reference.\n\n",
	)

	b.WriteString("**Key notes:**\n")
	fmt.Fprintf(&b, "- Total providers in dataset: %d\n", len(records))
	fmt.Fprintf(&b, "- Counties covered: %d\n", len(counties))
	b.WriteString("- Counts are based on provider records, not facility capacity.\n\n")

	b.WriteString("## County-level Summary\n\n")
	b.WriteString("| County | Total Providers | Active Providers | Inactive Providers |\n")
	b.WriteString("|--------|----------------:|-----------------:|-------------------:|\n")
	for _, county := range counties {
		stats := byCounty[county]
		fmt.Fprintf(&b, "| %s | %d | %d | %d |\n",
			titleCaser.String(county), stats.Total, stats.Active, stats.Inactive)
	}

	return b.String()
}
