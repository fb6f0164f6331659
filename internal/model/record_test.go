package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeConstructors(t *testing.T) {
	phys := PhysicalOutcome(-1.28, 36.82)
	assert.Equal(t, SourcePhysical, phys.Source)
	assert.Equal(t, ConfidenceStreet, phys.Confidence)
	require.True(t, phys.HasCoordinates())
	assert.Equal(t, -1.28, *phys.Latitude)
	assert.Equal(t, 36.82, *phys.Longitude)

	town := TownOutcome(0.52, 35.27)
	assert.Equal(t, SourceTownCentroid, town.Source)
	assert.Equal(t, ConfidenceTownCentroid, town.Confidence)
	assert.True(t, town.HasCoordinates())

	virt := VirtualOutcome()
	assert.Equal(t, SourceVirtual, virt.Source)
	assert.Equal(t, ConfidenceNA, virt.Confidence)
	assert.False(t, virt.HasCoordinates())

	failed := FailedOutcome()
	assert.Equal(t, SourceFailed, failed.Source)
	assert.Equal(t, ConfidenceFailed, failed.Confidence)
	assert.False(t, failed.HasCoordinates())
}

func TestHasCoordinates_ZeroIsPresent(t *testing.T) {
	// Null Island is a real position, not an absence marker.
	assert.True(t, PhysicalOutcome(0, 0).HasCoordinates())
}

func TestApply(t *testing.T) {
	r := ProviderRecord{Name: "Dr. A", Status: "Active"}

	PhysicalOutcome(1.5, 2.5).Apply(&r)
	require.NotNil(t, r.Latitude)
	assert.Equal(t, 1.5, *r.Latitude)
	assert.Equal(t, 2.5, *r.Longitude)
	assert.Equal(t, SourcePhysical, r.GeoSource)
	assert.Equal(t, ConfidenceStreet, r.GeoConfidence)

	// A later failed outcome clears the coordinates again.
	FailedOutcome().Apply(&r)
	assert.Nil(t, r.Latitude)
	assert.Nil(t, r.Longitude)
	assert.Equal(t, SourceFailed, r.GeoSource)
}

func TestActive(t *testing.T) {
	assert.True(t, ProviderRecord{Status: "Active"}.Active())
	assert.True(t, ProviderRecord{Status: "ACTIVE"}.Active())
	assert.True(t, ProviderRecord{Status: " active "}.Active())
	assert.False(t, ProviderRecord{Status: "Inactive"}.Active())
	assert.False(t, ProviderRecord{Status: ""}.Active())
}

func TestCategorize(t *testing.T) {
	lat, lon := -1.28, 36.82

	tests := []struct {
		name   string
		record ProviderRecord
		want   MarkerCategory
	}{
		{
			name:   "active physical",
			record: ProviderRecord{Status: "Active", Latitude: &lat, Longitude: &lon, GeoSource: SourcePhysical},
			want:   MarkerPhysical,
		},
		{
			name:   "active centroid",
			record: ProviderRecord{Status: "Active", Latitude: &lat, Longitude: &lon, GeoSource: SourceTownCentroid},
			want:   MarkerCentroid,
		},
		{
			name:   "inactive wins over resolution quality",
			record: ProviderRecord{Status: "Inactive", Latitude: &lat, Longitude: &lon, GeoSource: SourcePhysical},
			want:   MarkerInactive,
		},
		{
			name:   "no coordinates draws nothing",
			record: ProviderRecord{Status: "Active", GeoSource: SourceFailed},
			want:   MarkerNone,
		},
		{
			name:   "virtual has no coordinates",
			record: ProviderRecord{Status: "Active", GeoSource: SourceVirtual},
			want:   MarkerNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.record))
		})
	}
}
