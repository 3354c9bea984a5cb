// Package ioutils provides file system utilities for the digest
// downloader.
//
// This package contains functions for:
//   - Writing fetched digest pages to disk
//   - Directory creation
package ioutils

import "os"

// WriteDigest writes a digest page to path, creating the file if
// necessary and overwriting it if it exists.
//
// The body is written as UTF-8 text with mode 0644. A failure here is
// an error for this one digest only; callers are expected to log it
// and carry on with the rest of the run.
func WriteDigest(path, body string) error {
	return os.WriteFile(path, []byte(body), 0644)
}

// EnsureDir creates a directory and all parent directories if they
// don't exist.
//
// Directories are created with mode 0755. If the directory already
// exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
