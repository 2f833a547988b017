package dashboard

import (
	"encoding/json"

	"gorm.io/gorm"
)

type MunicipalityFilters struct {
	City   bool
	Town   bool
	RM     bool
	PopMin int
	PopMax int
}

type IncidentFilters struct {
	Wildfires bool
	Floods    bool
	Confirmed bool
	Suspected bool
}

// FilterMunicipalities applies each filter dimension as a conjunctive
// restriction: disabled status categories are excluded (rm also matches its
// long-form synonym) and the population range is inclusive on both ends.
func FilterMunicipalities(gdb *gorm.DB, f MunicipalityFilters) ([]Municipality, error) {
	q := gdb.Model(&Municipality{})
	if !f.City {
		q = q.Not("status = ?", "city")
	}
	if !f.Town {
		q = q.Not("status = ?", "town")
	}
	if !f.RM {
		q = q.Not("status IN ?", []string{"rm", "rural municipality"})
	}
	q = q.Where("population_2021 >= ? AND population_2021 <= ?", f.PopMin, f.PopMax)

	munis := []Municipality{}
	err := q.Find(&munis).Error
	return munis, err
}

// FilterIncidents builds allowed-type and allowed-status sets from the
// toggles. A category with every toggle off yields an empty set and matches
// nothing; it never falls through to unfiltered.
func FilterIncidents(gdb *gorm.DB, f IncidentFilters) ([]Incident, error) {
	var types []string
	if f.Wildfires {
		types = append(types, "wildfire")
	}
	if f.Floods {
		types = append(types, "flood")
	}

	var statuses []string
	if f.Confirmed {
		statuses = append(statuses, "confirmed")
	}
	if f.Suspected {
		statuses = append(statuses, "suspected")
	}

	if len(types) == 0 || len(statuses) == 0 {
		return []Incident{}, nil
	}

	incidents := []Incident{}
	err := gdb.Where("incident_type IN ? AND status IN ?", types, statuses).Find(&incidents).Error
	return incidents, err
}

// ListParks returns every park, or an explicitly empty slice when the layer
// is toggled off, so the response shape never drops the parks key.
func ListParks(gdb *gorm.DB, show bool) ([]Park, error) {
	if !show {
		return []Park{}, nil
	}
	parks := []Park{}
	err := gdb.Find(&parks).Error
	return parks, err
}

type GeoFeature struct {
	Type       string                 `json:"type"`
	Geometry   JSONB                  `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type GeoFeatureCollection struct {
	Type     string       `json:"type"`
	Features []GeoFeature `json:"features"`
}

func NewGeoFeatureCollection() GeoFeatureCollection {
	return GeoFeatureCollection{Type: "FeatureCollection", Features: []GeoFeature{}}
}

func (fc *GeoFeatureCollection) Append(f GeoFeature) {
	fc.Features = append(fc.Features, f)
}

// overlayStored merges the record's stored open-properties mapping on top of
// the canonical fields. Stored properties win on key collision; that ordering
// is load-bearing for datasets whose properties shadow canonical names.
func overlayStored(canonical map[string]interface{}, stored JSONB) map[string]interface{} {
	var extra map[string]interface{}
	if err := json.Unmarshal(stored, &extra); err == nil {
		for k, v := range extra {
			canonical[k] = v
		}
	}
	return canonical
}

func (m Municipality) Feature() GeoFeature {
	props := map[string]interface{}{
		"name":            m.Name,
		"status":          m.Status,
		"population_2021": m.Population2021,
	}
	return GeoFeature{
		Type:       "Feature",
		Geometry:   m.Geometry,
		Properties: overlayStored(props, m.Properties),
	}
}

func (p Park) Feature() GeoFeature {
	props := map[string]interface{}{
		"NAME_E":   p.Name,
		"LOC_E":    p.Location,
		"MGMT_E":   p.Management,
		"OWNER_E":  p.Owner,
		"PRK_CLSS": p.ParkClass,
		"URL":      p.URL,
	}
	return GeoFeature{
		Type:       "Feature",
		Geometry:   p.Geometry,
		Properties: overlayStored(props, p.Properties),
	}
}

func (i Incident) Feature() GeoFeature {
	var startedAt interface{}
	if i.StartedAt != nil {
		startedAt = i.StartedAt.Format("2006-01-02")
	}
	props := map[string]interface{}{
		"id":          i.ID,
		"name":        i.Name,
		"type":        i.IncidentType,
		"status":      i.Status,
		"started_at":  startedAt,
		"description": i.Description,
	}
	return GeoFeature{
		Type:       "Feature",
		Geometry:   i.Geometry,
		Properties: overlayStored(props, i.Properties),
	}
}
