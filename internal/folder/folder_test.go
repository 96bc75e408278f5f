// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package folder

import (
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemFolder(t *testing.T) *Folder {
	t.Helper()
	mfs := afero.NewMemMapFs()
	require.NoError(t, mfs.MkdirAll("/share", 0o755))
	return New(mfs, "/share")
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "wiredpart_sync_truck-7.json", ExportFileName("truck-7"))
	assert.Equal(t, "wiredpart_ids_truck-7.json", IDsFileName("truck-7"))
	assert.Equal(t, "wiredpart_sync_a_b_c.json", ExportFileName("a/b\\c"))
}

func TestCheckWritable(t *testing.T) {
	f := newMemFolder(t)
	require.NoError(t, f.CheckWritable())

	_, err := f.Stat(writeCheckFileName)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "check file is removed")
}

func TestCheckWritable_Missing(t *testing.T) {
	f := New(afero.NewMemMapFs(), "/nowhere")
	assert.ErrorIs(t, f.CheckWritable(), ErrMissing)
}

func TestCheckWritable_NotConfigured(t *testing.T) {
	f := New(afero.NewMemMapFs(), "")
	assert.ErrorIs(t, f.CheckWritable(), ErrNotConfigured)
}

func TestCheckWritable_ReadOnly(t *testing.T) {
	mfs := afero.NewMemMapFs()
	require.NoError(t, mfs.MkdirAll("/share", 0o755))
	f := New(afero.NewReadOnlyFs(mfs), "/share")

	assert.ErrorIs(t, f.CheckWritable(), ErrNotWritable)
}

func TestWriteReadJSON(t *testing.T) {
	f := newMemFolder(t)

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, f.WriteJSON("doc.json", doc{Name: "a", Count: 1}))
	require.NoError(t, f.WriteJSON("doc.json", doc{Name: "b", Count: 2}))

	var got doc
	require.NoError(t, f.ReadJSON("doc.json", &got))
	assert.Equal(t, doc{Name: "b", Count: 2}, got)

	entries, err := afero.ReadDir(f.Fs(), "/share")
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files are left behind")
}

func TestReadJSON_MissingAndCorrupt(t *testing.T) {
	f := newMemFolder(t)

	var v map[string]any
	err := f.ReadJSON("absent.json", &v)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, afero.WriteFile(f.Fs(), f.Path("bad.json"), []byte("{\"trunc"), 0o644))
	err = f.ReadJSON("bad.json", &v)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRemove_MissingIsNotError(t *testing.T) {
	f := newMemFolder(t)
	assert.NoError(t, f.Remove("nothing"))
}

func TestListExports(t *testing.T) {
	f := newMemFolder(t)

	for _, name := range []string{
		ExportFileName("office"),
		ExportFileName("truck-2"),
		"wiredpart_sync_truck-2.json.123.tmp",
		IDsFileName("office"),
		RegistryFileName,
		HistoryFileName,
		LockFileName,
	} {
		require.NoError(t, afero.WriteFile(f.Fs(), f.Path(name), []byte("{}"), 0o644))
	}
	require.NoError(t, f.Fs().Mkdir(f.Path("wiredpart_sync_dir.json"), 0o755))

	files, err := f.ListExports()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "office", files[0].DeviceID)
	assert.Equal(t, "wiredpart_sync_truck-2.json", files[1].Name)
	assert.Equal(t, int64(2), files[1].Info.Size())
}

func TestListExports_MissingFolder(t *testing.T) {
	f := New(afero.NewMemMapFs(), "/gone")
	_, err := f.ListExports()
	assert.Error(t, err)
}

func TestRename(t *testing.T) {
	f := newMemFolder(t)
	require.NoError(t, afero.WriteFile(f.Fs(), f.Path("a"), []byte("x"), 0o644))

	require.NoError(t, f.Rename("a", "b"))

	_, err := f.Stat("a")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	data, err := f.ReadFile("b")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)

	assert.True(t, errors.Is(f.Rename("a", "c"), fs.ErrNotExist))
}
