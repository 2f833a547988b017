package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb/geojson"
)

func TestNormalizeMunicipality_KeyFallbacks(t *testing.T) {
	testCases := []struct {
		name       string
		props      geojson.Properties
		wantName   string
		wantStatus string
		wantPop    int
	}{
		{
			name: "official export keys",
			props: geojson.Properties{
				"MUNI_NAME":       "Winnipeg",
				"MUNI_STATU":      "city",
				"population_2021": float64(749607),
			},
			wantName:   "Winnipeg",
			wantStatus: "city",
			wantPop:    749607,
		},
		{
			name: "plain keys",
			props: geojson.Properties{
				"name":   "Brandon",
				"status": "city",
			},
			wantName:   "Brandon",
			wantStatus: "city",
			wantPop:    0,
		},
		{
			name: "empty official key falls back to plain key",
			props: geojson.Properties{
				"MUNI_NAME": "",
				"name":      "Selkirk",
			},
			wantName: "Selkirk",
		},
		{
			name: "population as numeric string",
			props: geojson.Properties{
				"name":            "Steinbach",
				"population_2021": "17806",
			},
			wantName: "Steinbach",
			wantPop:  17806,
		},
		{
			name: "non-numeric population coerces to zero",
			props: geojson.Properties{
				"name":            "Dauphin",
				"population_2021": "unknown",
			},
			wantName: "Dauphin",
			wantPop:  0,
		},
		{
			name:  "no properties at all",
			props: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NormalizeMunicipality(Feature{Properties: tc.props})
			if m.Name != tc.wantName {
				t.Errorf("Name = %q, want %q", m.Name, tc.wantName)
			}
			if m.Status != tc.wantStatus {
				t.Errorf("Status = %q, want %q", m.Status, tc.wantStatus)
			}
			if m.Population2021 != tc.wantPop {
				t.Errorf("Population2021 = %d, want %d", m.Population2021, tc.wantPop)
			}
		})
	}
}

func TestNormalizeMunicipality_EmptyGeometry(t *testing.T) {
	m := NormalizeMunicipality(Feature{Properties: geojson.Properties{"name": "Gimli"}})
	if string(m.Geometry) != "{}" {
		t.Errorf("Geometry = %s, want {}", string(m.Geometry))
	}
	if string(m.Properties) == "" || string(m.Properties) == "null" {
		t.Errorf("Properties must never be null, got %q", string(m.Properties))
	}
}

func TestNormalizePark_FixedKeys(t *testing.T) {
	p := NormalizePark(Feature{
		Geometry: json.RawMessage(`{"type":"Point","coordinates":[-96.5,50.5]}`),
		Properties: geojson.Properties{
			"NAME_E":   "Birds Hill",
			"LOC_E":    "Springfield",
			"MGMT_E":   "Parks Branch",
			"OWNER_E":  "Province",
			"PRK_CLSS": "Natural",
			"URL":      "https://example.org/birds-hill",
		},
	})

	if p.Name != "Birds Hill" || p.Location != "Springfield" || p.Management != "Parks Branch" {
		t.Errorf("unexpected park fields: %+v", p)
	}
	if p.Owner != "Province" || p.ParkClass != "Natural" || p.URL != "https://example.org/birds-hill" {
		t.Errorf("unexpected park fields: %+v", p)
	}
	if string(p.Geometry) != `{"type":"Point","coordinates":[-96.5,50.5]}` {
		t.Errorf("geometry not preserved: %s", string(p.Geometry))
	}
}

func TestNormalizeIncident_BulkDefaults(t *testing.T) {
	i := NormalizeIncident(Feature{Properties: geojson.Properties{"name": "Red River overflow"}})
	if i.IncidentType != "wildfire" {
		t.Errorf("IncidentType = %q, want default wildfire", i.IncidentType)
	}
	if i.Status != "suspected" {
		t.Errorf("Status = %q, want default suspected", i.Status)
	}
}

func TestNormalizeReportedIncident(t *testing.T) {
	uploader := "user-1"

	testCases := []struct {
		name      string
		props     geojson.Properties
		wantName  string
		wantType  string
		wantDate  string // empty means StartedAt must be nil
		wantsDate bool
	}{
		{
			name: "lowercases and trims name and type",
			props: geojson.Properties{
				"name": "  Sprague Fire ",
				"type": " Wildfire",
			},
			wantName: "sprague fire",
			wantType: "wildfire",
		},
		{
			name: "full ISO timestamp keeps only the date",
			props: geojson.Properties{
				"name":       "lake st. martin flood",
				"type":       "flood",
				"started_at": "2025-08-21T10:00:00Z",
			},
			wantName:  "lake st. martin flood",
			wantType:  "flood",
			wantsDate: true,
			wantDate:  "2025-08-21",
		},
		{
			name: "bare date also parses",
			props: geojson.Properties{
				"name":       "x",
				"type":       "flood",
				"started_at": "2024-05-01",
			},
			wantName:  "x",
			wantType:  "flood",
			wantsDate: true,
			wantDate:  "2024-05-01",
		},
		{
			name: "malformed date is silently dropped",
			props: geojson.Properties{
				"name":       "y",
				"type":       "flood",
				"started_at": "sometime last spring",
			},
			wantName: "y",
			wantType: "flood",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			i := NormalizeReportedIncident(Feature{Properties: tc.props}, &uploader)
			if i.Name != tc.wantName {
				t.Errorf("Name = %q, want %q", i.Name, tc.wantName)
			}
			if i.IncidentType != tc.wantType {
				t.Errorf("IncidentType = %q, want %q", i.IncidentType, tc.wantType)
			}
			if tc.wantsDate {
				if i.StartedAt == nil {
					t.Fatalf("StartedAt = nil, want %s", tc.wantDate)
				}
				if got := i.StartedAt.Format("2006-01-02"); got != tc.wantDate {
					t.Errorf("StartedAt = %s, want %s", got, tc.wantDate)
				}
			} else if i.StartedAt != nil {
				t.Errorf("StartedAt = %v, want nil", i.StartedAt)
			}
			if i.Status != "suspected" {
				t.Errorf("Status = %q, want suspected", i.Status)
			}
			if i.UploadedBy == nil || *i.UploadedBy != uploader {
				t.Errorf("UploadedBy not carried through")
			}
		})
	}
}

func TestCoerceInt(t *testing.T) {
	testCases := []struct {
		in   interface{}
		want int
	}{
		{nil, 0},
		{float64(42), 42},
		{17, 17},
		{"123", 123},
		{" 9 ", 9},
		{"abc", 0},
		{true, 0},
		{json.Number("55"), 55},
	}
	for _, tc := range testCases {
		if got := coerceInt(tc.in); got != tc.want {
			t.Errorf("coerceInt(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
