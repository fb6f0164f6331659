// Package model defines the provider panel record types shared across the pipeline.
package model

import "strings"

// GeoSource identifies which resolution tier produced a record's coordinates.
type GeoSource string

const (
	SourcePhysical     GeoSource = "PHYSICAL"
	SourceTownCentroid GeoSource = "TOWN_CENTROID"
	SourceVirtual      GeoSource = "VIRTUAL"
	SourceFailed       GeoSource = "FAILED"
)

// GeoConfidence grades how precise a resolution is.
type GeoConfidence string

const (
	ConfidenceStreet       GeoConfidence = "STREET"
	ConfidenceTownCentroid GeoConfidence = "TOWN_CENTROID"
	ConfidenceNA           GeoConfidence = "N/A"
	ConfidenceFailed       GeoConfidence = "FAILED"
)

// ProviderRecord is one row of the provider panel. The pipeline reads the
// address fields and appends the resolution fields; everything else passes
// through untouched.
type ProviderRecord struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"physical_address"`
	Town      string `json:"town"`
	County    string `json:"county"`
	Status    string `json:"status"`

	// Extra holds pass-through columns the pipeline does not interpret.
	Extra map[string]string `json:"extra,omitempty"`

	Latitude      *float64      `json:"latitude,omitempty"`
	Longitude     *float64      `json:"longitude,omitempty"`
	GeoSource     GeoSource     `json:"geo_source,omitempty"`
	GeoConfidence GeoConfidence `json:"geo_confidence,omitempty"`
}

// Active reports whether the record's status marks it as operational.
func (r ProviderRecord) Active() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), "active")
}

// Outcome is the terminal result of resolving one record. Exactly one
// source tag applies; coordinates are present only for PHYSICAL and
// TOWN_CENTROID outcomes.
type Outcome struct {
	Source     GeoSource     `json:"source"`
	Confidence GeoConfidence `json:"confidence"`
	Latitude   *float64      `json:"latitude,omitempty"`
	Longitude  *float64      `json:"longitude,omitempty"`
}

// HasCoordinates reports whether the outcome carries a resolved position.
// Zero-valued coordinates are legitimate; presence is what counts.
func (o Outcome) HasCoordinates() bool {
	return o.Latitude != nil && o.Longitude != nil
}

// PhysicalOutcome builds a street-level resolution.
func PhysicalOutcome(lat, lon float64) Outcome {
	return Outcome{Source: SourcePhysical, Confidence: ConfidenceStreet, Latitude: &lat, Longitude: &lon}
}

// TownOutcome builds a town-centroid resolution.
func TownOutcome(lat, lon float64) Outcome {
	return Outcome{Source: SourceTownCentroid, Confidence: ConfidenceTownCentroid, Latitude: &lat, Longitude: &lon}
}

// VirtualOutcome marks a telehealth record that never reaches the network.
func VirtualOutcome() Outcome {
	return Outcome{Source: SourceVirtual, Confidence: ConfidenceNA}
}

// FailedOutcome marks a record both tiers exhausted.
func FailedOutcome() Outcome {
	return Outcome{Source: SourceFailed, Confidence: ConfidenceFailed}
}

// Apply copies the outcome's resolution fields onto the record.
func (o Outcome) Apply(r *ProviderRecord) {
	r.GeoSource = o.Source
	r.GeoConfidence = o.Confidence
	r.Latitude = o.Latitude
	r.Longitude = o.Longitude
}

// MarkerCategory selects the map display class for a resolved record.
type MarkerCategory string

const (
	MarkerPhysical MarkerCategory = "physical"
	MarkerCentroid MarkerCategory = "centroid"
	MarkerInactive MarkerCategory = "inactive"
	MarkerNone     MarkerCategory = ""
)

// Categorize picks the marker category for a record: inactive status wins
// over resolution quality, and records without coordinates draw nothing.
func Categorize(r ProviderRecord) MarkerCategory {
	if r.Latitude == nil || r.Longitude == nil {
		return MarkerNone
	}
	if !r.Active() {
		return MarkerInactive
	}
	switch r.GeoSource {
	case SourcePhysical:
		return MarkerPhysical
	case SourceTownCentroid:
		return MarkerCentroid
	default:
		return MarkerNone
	}
}
