package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.StartYear != 2000 {
		t.Errorf("StartYear = %d, want 2000", s.StartYear)
	}
	if s.MaxConcurrentFetches <= 0 {
		t.Errorf("MaxConcurrentFetches = %d, want > 0", s.MaxConcurrentFetches)
	}
	if s.FileNamePrefix != "wggf-monthly-digest" {
		t.Errorf("FileNamePrefix = %q", s.FileNamePrefix)
	}
	if s.AuthURL == "" || s.ArchiveURL == "" {
		t.Error("endpoint defaults must not be empty")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *s != *DefaultSettings() {
		t.Errorf("Load on missing file = %+v, want defaults", s)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"start_year": 2015}`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.StartYear != 2015 {
		t.Errorf("StartYear = %d, want 2015", s.StartYear)
	}
	if s.FileNamePrefix != DefaultSettings().FileNamePrefix {
		t.Errorf("FileNamePrefix = %q, want default", s.FileNamePrefix)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	s := DefaultSettings()
	s.StartYear = 2010
	s.MaxConcurrentFetches = 4

	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *s {
		t.Errorf("round trip = %+v, want %+v", loaded, s)
	}
}
