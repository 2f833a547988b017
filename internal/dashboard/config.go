package dashboard

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config carries the dashboard's behavior knobs. Filter defaults, the upload
// limit, and the search cap used to be hard-coded in the view layer; they are
// explicit here and passed in at route setup.
type Config struct {
	Filters struct {
		PopMin int `yaml:"pop_min"`
		PopMax int `yaml:"pop_max"`
	} `yaml:"filters"`
	Upload struct {
		MaxBytes    int64    `yaml:"max_bytes"`
		Dir         string   `yaml:"dir"`
		AllowedExts []string `yaml:"allowed_exts"`
	} `yaml:"upload"`
	Search struct {
		Limit int `yaml:"limit"`
	} `yaml:"search"`
}

func DefaultConfig() Config {
	var c Config
	c.Filters.PopMin = 0
	c.Filters.PopMax = 1000000
	c.Upload.MaxBytes = 10 * 1024 * 1024
	c.Upload.Dir = "media/geojson_uploads"
	c.Upload.AllowedExts = []string{".json", ".geojson"}
	c.Search.Limit = 5
	return c
}

// LoadConfig reads a YAML config file, falling back to defaults when path is
// empty or the file doesn't exist. Keys omitted from the file keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) extAllowed(ext string) bool {
	for _, allowed := range c.Upload.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}
