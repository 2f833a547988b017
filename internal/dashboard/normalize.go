package dashboard

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"
)

// Feature is a lenient GeoJSON feature. Geometry stays raw because the
// municipal source datasets include empty and nonstandard geometry objects
// that must be stored as-is.
type Feature struct {
	Type       string             `json:"type"`
	Geometry   json.RawMessage    `json:"geometry"`
	Properties geojson.Properties `json:"properties"`
}

// NormalizeMunicipality maps a feature from the municipal boundary dataset
// onto a Municipality. Source files disagree on key names: official exports
// use MUNI_NAME/MUNI_STATU, hand-edited ones plain name/status.
func NormalizeMunicipality(f Feature) Municipality {
	props := f.Properties

	name := props.MustString("MUNI_NAME", "")
	if name == "" {
		name = props.MustString("name", "")
	}
	status := props.MustString("MUNI_STATU", "")
	if status == "" {
		status = props.MustString("status", "")
	}

	return Municipality{
		Name:           name,
		Status:         status,
		Population2021: coerceInt(props["population_2021"]),
		Geometry:       geometryOrEmpty(f.Geometry),
		Properties:     propertiesJSON(props),
	}
}

// NormalizePark pulls the fixed provincial-parks export keys.
func NormalizePark(f Feature) Park {
	props := f.Properties

	return Park{
		Name:       props.MustString("NAME_E", ""),
		Location:   props.MustString("LOC_E", ""),
		Management: props.MustString("MGMT_E", ""),
		Owner:      props.MustString("OWNER_E", ""),
		ParkClass:  props.MustString("PRK_CLSS", ""),
		URL:        props.MustString("URL", ""),
		Geometry:   geometryOrEmpty(f.Geometry),
		Properties: propertiesJSON(props),
	}
}

// NormalizeIncident is the bulk-load path: absent type/status fall back to
// fixed defaults, nothing is trimmed or validated.
func NormalizeIncident(f Feature) Incident {
	props := f.Properties

	return Incident{
		Name:         props.MustString("name", ""),
		IncidentType: props.MustString("type", "wildfire"),
		Status:       props.MustString("status", "suspected"),
		Description:  props.MustString("description", ""),
		Geometry:     geometryOrEmpty(f.Geometry),
		Properties:   propertiesJSON(props),
	}
}

// NormalizeReportedIncident is the user-upload path: name and type are
// lower-cased and trimmed, status defaults to suspected, and started_at is
// parsed best-effort from the date portion of an ISO-8601-ish string. A
// malformed date leaves StartedAt unset; it never fails the record.
func NormalizeReportedIncident(f Feature, uploadedBy *string) Incident {
	props := f.Properties

	inc := Incident{
		Name:         strings.ToLower(strings.TrimSpace(props.MustString("name", ""))),
		IncidentType: strings.ToLower(strings.TrimSpace(props.MustString("type", ""))),
		Status:       props.MustString("status", "suspected"),
		Description:  props.MustString("description", ""),
		Geometry:     geometryOrEmpty(f.Geometry),
		Properties:   propertiesJSON(props),
		UploadedBy:   uploadedBy,
	}

	if raw := props.MustString("started_at", ""); raw != "" {
		datePart := strings.SplitN(raw, "T", 2)[0]
		if t, err := time.Parse("2006-01-02", datePart); err == nil {
			inc.StartedAt = &t
		}
	}

	return inc
}

// coerceInt converts a decoded JSON value to an int, treating missing, zero,
// and non-numeric values as 0.
func coerceInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return 0
}

func geometryOrEmpty(raw json.RawMessage) JSONB {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return JSONB("{}")
	}
	return JSONB(raw)
}

func propertiesJSON(props geojson.Properties) JSONB {
	if len(props) == 0 {
		return JSONB("{}")
	}
	data, err := json.Marshal(props)
	if err != nil {
		return JSONB("{}")
	}
	return JSONB(data)
}
