// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workspace loads file snapshots for the engine and writes patched
// content back out. It is the only place the CLI touches the filesystem;
// the engine itself works purely in memory.
// Implements: prd006-cli R2;
//
//	docs/ARCHITECTURE § Workspace I/O.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadSnapshots reads each path, relative to root, into a snapshot map.
// Paths that do not exist are skipped rather than failing: the whole-file
// format creates them, and the session reports the rest as failed outcomes.
func LoadSnapshots(root string, paths []string) (map[string]string, error) {
	snapshots := make(map[string]string, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(filepath.Join(root, p))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		snapshots[p] = string(data)
	}
	return snapshots, nil
}

// WriteFile writes content to path under root atomically, creating parent
// directories as needed.
func WriteFile(root, path, content string) error {
	full := filepath.Join(root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := atomicWrite(full, []byte(content)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// atomicWrite writes data to a temp file in the same directory, then
// renames it over the target path, so a crash never leaves a half-written
// file. Existing file permissions are preserved.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	f, err := os.CreateTemp(dir, ".go-patch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
