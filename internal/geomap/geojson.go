// Package geomap renders resolved provider records as a GeoJSON layer and
// a self-contained Leaflet map document.
package geomap

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/liberty-analytics/panel-cli/internal/model"
)

// markerColors follow the panel's display convention: green for street
// level matches, blue for town centroids, gray for inactive providers.
var markerColors = map[model.MarkerCategory]string{
	model.MarkerPhysical: "green",
	model.MarkerCentroid: "blue",
	model.MarkerInactive: "gray",
}

// Layer builds a GeoJSON FeatureCollection of map markers. Records with
// no coordinates (virtual, failed) draw nothing and are skipped.
func Layer(records []model.ProviderRecord) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{}

	for _, rec := range records {
		category := model.Categorize(rec)
		if category == model.MarkerNone {
			continue
		}

		point := geom.NewPointFlat(geom.XY, []float64{*rec.Longitude, *rec.Latitude})
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: point,
			Properties: map[string]interface{}{
				"name":       rec.Name,
				"specialty":  rec.Specialty,
				"phone":      rec.Phone,
				"email":      rec.Email,
				"address":    rec.Address,
				"town":       rec.Town,
				"county":     rec.County,
				"status":     rec.Status,
				"confidence": string(rec.GeoConfidence),
				"category":   string(category),
				"color":      markerColors[category],
			},
		})
	}

	return fc, nil
}

// Encode marshals the layer for a set of records.
func Encode(records []model.ProviderRecord) ([]byte, error) {
	fc, err := Layer(records)
	if err != nil {
		return nil, err
	}
	out, err := fc.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "geomap: marshal feature collection")
	}
	return out, nil
}

// Center returns the mean position of all drawable markers, or (0, 0)
// when nothing is drawable.
func Center(records []model.ProviderRecord) (lat, lon float64) {
	var n int
	for _, rec := range records {
		if model.Categorize(rec) == model.MarkerNone {
			continue
		}
		lat += *rec.Latitude
		lon += *rec.Longitude
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return lat / float64(n), lon / float64(n)
}
