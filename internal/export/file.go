// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName is the name given to exported tables.
const DefaultFileName = "motion_data.csv"

// exportFileMode is the permission of written tables.
const exportFileMode = 0o644

// ErrExportIO marks a failure to persist an exported table. The in-memory
// log is unaffected and the export may be retried.
var ErrExportIO = errors.New("export: write failed")

// FileWriter stores serialized tables on the local file system.
type FileWriter struct {
	Dir      string // defaults to os.TempDir()
	FileName string // defaults to DefaultFileName
}

// Write replaces the export file with data and returns its path. The file is
// written to a temporary name first and renamed, so readers never see a
// partial table.
func (fw FileWriter) Write(data []byte) (string, error) {
	dir := fw.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	name := fw.FileName
	if name == "" {
		name = DefaultFileName
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create dir %s: %w", ErrExportIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %w", ErrExportIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: write %s: %w", ErrExportIO, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: close %s: %w", ErrExportIO, tmpName, err)
	}
	// CreateTemp creates files with mode 0600.
	if err := os.Chmod(tmpName, exportFileMode); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: chmod %s: %w", ErrExportIO, tmpName, err)
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: rename to %s: %w", ErrExportIO, path, err)
	}
	return path, nil
}
