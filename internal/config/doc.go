// Package config provides configuration management for the digest
// downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - The per-run RunConfig record built from command-line input
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Targets the WGGF archive on list.genealogy.net
//	// Scrapes 2000..current year, 16 fetches in flight
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Run Input
//
// Settings describe the archive; RunConfig describes one invocation
// (credentials, output directory, verbosity). The two are kept separate
// so credentials never end up in a settings file on disk.
package config
