package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gorm.io/gorm"
)

// ErrInvalidFormat is returned when an uploaded file is not a FeatureCollection.
var ErrInvalidFormat = errors.New("invalid GeoJSON format")

type featureEnvelope struct {
	Type     string          `json:"type"`
	Features json.RawMessage `json:"features"`
}

// IngestResult reports what a pipeline run did. Warnings carry per-record
// anomalies (e.g. an unparseable started_at) that did not block ingestion.
type IngestResult struct {
	Added      int
	Duplicates int
	Warnings   []string
}

// ProcessFeatureCollection ingests a user-uploaded GeoJSON feature collection
// as incidents. The top-level object must be a FeatureCollection with a
// features key; anything else fails with ErrInvalidFormat and ingests nothing.
//
// A feature is a duplicate iff an incident with the exact same
// (name, incident_type) already exists. The check is a lookup before insert
// with no transactional isolation: two concurrent uploads of the same feature
// can both pass it and both insert. Accepted at current traffic levels;
// closing it would need a unique index and change behavior under load.
func ProcessFeatureCollection(gdb *gorm.DB, r io.Reader, uploadedBy *string) (IngestResult, error) {
	var res IngestResult

	var envelope featureEnvelope
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return res, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if envelope.Type != "FeatureCollection" || envelope.Features == nil {
		return res, ErrInvalidFormat
	}

	var features []Feature
	if err := json.Unmarshal(envelope.Features, &features); err != nil {
		return res, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	for _, f := range features {
		inc := NormalizeReportedIncident(f, uploadedBy)

		dup, err := incidentExists(gdb, inc.Name, inc.IncidentType)
		if err != nil {
			return res, err
		}
		if dup {
			res.Duplicates++
			continue
		}

		if raw := f.Properties.MustString("started_at", ""); raw != "" && inc.StartedAt == nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("incident %q: unparseable started_at %q", inc.Name, raw))
		}

		if err := gdb.Create(&inc).Error; err != nil {
			return res, fmt.Errorf("create incident %q: %w", inc.Name, err)
		}
		res.Added++
	}

	return res, nil
}

func incidentExists(gdb *gorm.DB, name, incidentType string) (bool, error) {
	var existing Incident
	err := gdb.Where("name = ? AND incident_type = ?", name, incidentType).First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// ReadFeatureFile reads features from a GeoJSON file without enforcing the
// FeatureCollection envelope. The startup bulk loaders use it: source exports
// vary in shape and only need to be geometry-bearing.
func ReadFeatureFile(path string) ([]Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var loose struct {
		Features []Feature `json:"features"`
	}
	if err := json.NewDecoder(f).Decode(&loose); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return loose.Features, nil
}
