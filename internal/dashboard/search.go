package dashboard

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type SearchResult struct {
	Label    string `json:"label"`
	Type     string `json:"type"`
	Geometry JSONB  `json:"geometry"`
}

// SearchAll runs a case-insensitive substring match on the name of each
// entity kind, capped at limit results per kind, concatenated in order:
// municipalities, parks, incidents. An empty query short-circuits to an
// empty list without touching the database.
func SearchAll(gdb *gorm.DB, query string, limit int) ([]SearchResult, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []SearchResult{}, nil
	}

	pattern := "%" + q + "%"
	titler := cases.Title(language.English)
	results := []SearchResult{}

	var munis []Municipality
	if err := gdb.Where("name ILIKE ?", pattern).Limit(limit).Find(&munis).Error; err != nil {
		return nil, err
	}
	for _, m := range munis {
		status := titler.String(m.Status)
		results = append(results, SearchResult{
			Label:    fmt.Sprintf("%s of %s, MB", status, m.Name),
			Type:     status,
			Geometry: m.Geometry,
		})
	}

	var parks []Park
	if err := gdb.Where("name ILIKE ?", pattern).Limit(limit).Find(&parks).Error; err != nil {
		return nil, err
	}
	for _, p := range parks {
		results = append(results, SearchResult{
			Label:    fmt.Sprintf("%s (Park)", p.Name),
			Type:     "Park",
			Geometry: p.Geometry,
		})
	}

	var incidents []Incident
	if err := gdb.Where("name ILIKE ?", pattern).Limit(limit).Find(&incidents).Error; err != nil {
		return nil, err
	}
	for _, i := range incidents {
		incidentType := titler.String(i.IncidentType)
		results = append(results, SearchResult{
			Label:    fmt.Sprintf("%s (%s)", i.Name, incidentType),
			Type:     incidentType,
			Geometry: i.Geometry,
		})
	}

	return results, nil
}
