// Package config holds runtime settings for the gallery CLI.
package config

import "time"

// Config holds runtime settings for the gallery client.
//
// Fields:
//   - ServerBaseURL: base URL of the gallery REST API, including the
//     version prefix (e.g. https://gallery.example.com/api/v1).
//   - RequestTimeout: per-request ceiling for ordinary API calls.
//   - UploadTimeout: per-request ceiling for batched uploads.
//   - DatabasePath: path of the local credential database.
//   - ResyncDelay: how long after a restored login the background
//     identity resync runs.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	DatabasePath   string
	ResyncDelay    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080/api/v1"
	c.RequestTimeout = 10 * time.Second
	c.UploadTimeout = 30 * time.Second
	c.DatabasePath = "galleryctl.db"
	c.ResyncDelay = time.Second
}

// Load constructs a Config: defaults first, then values from the JSON file
// at jsonPath (if non-empty). Command-line flag overrides are applied by the
// CLI layer on top of the result, so later sources take precedence.
func Load(jsonPath string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, jsonPath); err != nil {
		return nil, err
	}
	return cfg, nil
}
