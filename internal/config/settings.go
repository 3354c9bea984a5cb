package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds all configuration options.
type Settings struct {
	// Archive endpoints
	AuthURL    string `json:"auth_url"`
	ArchiveURL string `json:"archive_url"`

	// Fetch grid
	StartYear int `json:"start_year"`

	// Concurrency
	MaxConcurrentFetches int `json:"max_concurrent_fetches"`

	// File naming
	FileNamePrefix string `json:"file_name_prefix"`
}

// DefaultSettings returns settings with default values.
//
// The defaults target the WGGF mailing-list archive on
// list.genealogy.net, scraping every month from 2000 onwards with at
// most 16 requests in flight.
func DefaultSettings() *Settings {
	return &Settings{
		AuthURL:              "https://list.genealogy.net/mm/private/westfalengen/",
		ArchiveURL:           "https://list.genealogy.net/mm/archiv/westfalengen/",
		StartYear:            2000,
		MaxConcurrentFetches: 16,
		FileNamePrefix:       "wggf-monthly-digest",
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error; defaults are returned instead. Fields
// absent from the file keep their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file, creating parent directories as
// needed.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// RunConfig is the per-run input supplied by the command line (or the
// TUI): who to authenticate as, where to put the files, and how chatty
// to be. It is immutable once the run starts.
type RunConfig struct {
	// Username is the list-member username used to authenticate.
	Username string

	// Password is the list-member password used to authenticate.
	Password string

	// OutputDir is the directory digests are written to. It must exist
	// before the run starts.
	OutputDir string

	// Verbose enables debug logging. Verbose runs suppress the progress
	// bar so the two output surfaces do not interleave.
	Verbose bool
}
