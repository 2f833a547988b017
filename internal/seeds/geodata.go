package seeds

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/PrairieWatch/PW-Backend/internal/dashboard"
	"github.com/PrairieWatch/PW-Backend/internal/db"
	"github.com/apex/log"
)

func SeedGeoData(dataDir string) error {
	err := loadFeatures(filepath.Join(dataDir, "mb_with_winnipeg.geojson"), "municipality",
		func(f dashboard.Feature) error {
			m := dashboard.NormalizeMunicipality(f)
			return db.DB.Create(&m).Error
		})
	if err != nil {
		return err
	}

	err = loadFeatures(filepath.Join(dataDir, "Manitoba_Parks_full.geojson"), "park",
		func(f dashboard.Feature) error {
			p := dashboard.NormalizePark(f)
			return db.DB.Create(&p).Error
		})
	if err != nil {
		return err
	}

	return loadFeatures(filepath.Join(dataDir, "incidents_dummy.geojson"), "incident",
		func(f dashboard.Feature) error {
			i := dashboard.NormalizeIncident(f)
			return db.DB.Create(&i).Error
		})
}

// loadFeatures reads a GeoJSON file through the loose bulk-load reader and
// persists each feature. A missing source file is a warning, not a failure.
func loadFeatures(path, label string, create func(dashboard.Feature) error) error {
	features, err := dashboard.ReadFeatureFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warnf("File not found: %s", path)
			return nil
		}
		return err
	}

	count := 0
	for _, f := range features {
		if err := create(f); err != nil {
			return err
		}
		count++
	}

	log.Infof("Loaded %d %s records from %s", count, label, path)
	return nil
}
