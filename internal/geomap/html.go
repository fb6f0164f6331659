package geomap

import (
	"bytes"
	"text/template"

	"github.com/rotisserie/eris"

	"github.com/liberty-analytics/panel-cli/internal/model"
)

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Provider Map</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
  <style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
var providers = {{.GeoJSON}};
L.geoJSON(providers, {
  pointToLayer: function (feature, latlng) {
    return L.circleMarker(latlng, {
      radius: 4,
      color: feature.properties.color,
      fillOpacity: 0.7
    });
  },
  onEachFeature: function (feature, layer) {
    var p = feature.properties;
    layer.bindPopup(
      '<b>' + p.name + '</b><br>' +
      'Specialty: ' + p.specialty + '<br>' +
      'Phone: ' + p.phone + '<br>' +
      'Email: ' + p.email + '<br>' +
      'Address: ' + p.address + '<br>' +
      'Confidence: ' + p.confidence
    );
  }
}).addTo(map);
</script>
</body>
</html>
`))

type mapData struct {
	CenterLat float64
	CenterLon float64
	Zoom      int
	GeoJSON   string
}

// RenderHTML produces a standalone Leaflet document with all drawable
// markers embedded as GeoJSON.
func RenderHTML(records []model.ProviderRecord) ([]byte, error) {
	encoded, err := Encode(records)
	if err != nil {
		return nil, err
	}

	lat, lon := Center(records)
	var buf bytes.Buffer
	err = mapTemplate.Execute(&buf, mapData{
		CenterLat: lat,
		CenterLon: lon,
		Zoom:      7,
		GeoJSON:   string(encoded),
	})
	if err != nil {
		return nil, eris.Wrap(err, "geomap: render html")
	}
	return buf.Bytes(), nil
}
