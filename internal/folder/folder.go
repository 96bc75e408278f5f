// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package folder knows the layout of the shared sync directory and provides
// the file primitives every other component builds on. All access goes
// through an afero.Fs so tests can run against an in-memory filesystem.
package folder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Shared folder file names.
const (
	ExportPrefix     = "wiredpart_sync_"
	ExportSuffix     = ".json"
	IDsPrefix        = "wiredpart_ids_"
	LockFileName     = "wiredpart_lock"
	RegistryFileName = "wiredpart_devices.json"
	HistoryFileName  = "wiredpart_history.json"

	writeCheckFileName = ".wiredpart_writecheck"
	tmpSuffix          = ".tmp"
)

// Folder is a handle on the shared sync directory.
type Folder struct {
	fs   afero.Fs
	root string
}

// New returns a Folder rooted at root on fs.
func New(fs afero.Fs, root string) *Folder {
	return &Folder{fs: fs, root: root}
}

// NewOS returns a Folder on the operating-system filesystem.
func NewOS(root string) *Folder {
	return New(afero.NewOsFs(), root)
}

func (f *Folder) Fs() afero.Fs { return f.fs }

func (f *Folder) Root() string { return f.root }

// Path joins name onto the folder root.
func (f *Folder) Path(name string) string {
	return filepath.Join(f.root, name)
}

// SafeDeviceID maps a device id onto a string usable inside a file name.
func SafeDeviceID(deviceID string) string {
	var b strings.Builder
	for _, r := range deviceID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ExportFileName is the name of deviceID's export package.
func ExportFileName(deviceID string) string {
	return ExportPrefix + SafeDeviceID(deviceID) + ExportSuffix
}

// IDsFileName is the name of deviceID's id snapshot sidecar.
func IDsFileName(deviceID string) string {
	return IDsPrefix + SafeDeviceID(deviceID) + ExportSuffix
}

// Exists reports whether the folder is an existing directory.
func (f *Folder) Exists() bool {
	ok, err := afero.DirExists(f.fs, f.root)
	return err == nil && ok
}

// CheckWritable verifies the folder exists and accepts writes by creating and
// removing a throwaway file.
func (f *Folder) CheckWritable() error {
	if f.root == "" {
		return ErrNotConfigured
	}
	if !f.Exists() {
		return fmt.Errorf("%w: %s", ErrMissing, f.root)
	}

	name := f.Path(writeCheckFileName)
	if err := afero.WriteFile(f.fs, name, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrNotWritable, err)
	}
	if err := f.fs.Remove(name); err != nil {
		return fmt.Errorf("%w: %w", ErrNotWritable, err)
	}

	return nil
}

// WriteJSON encodes v and replaces name atomically: the payload is written
// to a temporary file in the same directory and renamed over the target.
func (f *Folder) WriteJSON(name string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	return f.WriteFileAtomic(name, payload)
}

// WriteFileAtomic replaces name with data via a temporary file and rename.
func (f *Folder) WriteFileAtomic(name string, data []byte) error {
	tmp, err := afero.TempFile(f.fs, f.root, name+".*"+tmpSuffix)
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}

	if err = f.fs.Rename(tmpName, f.Path(name)); err != nil {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", name, err)
	}

	return nil
}

// ReadJSON decodes name into v. A missing file yields an error matching
// os.ErrNotExist.
func (f *Folder) ReadJSON(name string, v any) error {
	data, err := afero.ReadFile(f.fs, f.Path(name))
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorrupt, name, err)
	}
	return nil
}

// ReadFile returns the raw content of name.
func (f *Folder) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(f.fs, f.Path(name))
}

// Stat returns file info for name.
func (f *Folder) Stat(name string) (os.FileInfo, error) {
	return f.fs.Stat(f.Path(name))
}

// Remove deletes name. Removing a missing file is not an error.
func (f *Folder) Remove(name string) error {
	err := f.fs.Remove(f.Path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Rename moves oldName to newName within the folder, replacing newName.
func (f *Folder) Rename(oldName, newName string) error {
	return f.fs.Rename(f.Path(oldName), f.Path(newName))
}

// ExportFile describes one export package found in the folder.
type ExportFile struct {
	// Name is the file name relative to the folder root.
	Name string
	// DeviceID is the id encoded in the file name. The package's embedded
	// device_id is authoritative.
	DeviceID string
	Info     os.FileInfo
}

// ListExports returns every export package in the folder sorted by name.
func (f *Folder) ListExports() ([]ExportFile, error) {
	entries, err := afero.ReadDir(f.fs, f.root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", f.root, err)
	}

	var out []ExportFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, ExportPrefix) || !strings.HasSuffix(name, ExportSuffix) {
			continue
		}
		out = append(out, ExportFile{
			Name:     name,
			DeviceID: strings.TrimSuffix(strings.TrimPrefix(name, ExportPrefix), ExportSuffix),
			Info:     e,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
