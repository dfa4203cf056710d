/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func names(files []FileData) []string {
	res := make([]string, len(files))

	for i, f := range files {
		res[i] = f.Name
	}

	return res
}

func TestCreateFileList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", ".hidden"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("aaaa"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".profile"), []byte("p"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.bin"), []byte("bbbbbbbb"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.bin"), []byte("cc"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", ".hidden", "d"), []byte("d"), 0644))

	files, err := CreateFileList(dir, nil, false, true, false)
	require.NoError(t, err)
	SortFiles(files)
	require.Equal(t, []string{"a.txt", ".profile"}, names(files))

	files, err = CreateFileList(dir, nil, true, true, true)
	require.NoError(t, err)
	SortFiles(files)
	require.Equal(t, []string{"a.txt", "b.bin", "c.bin"}, names(files))
	require.Equal(t, int64(8), files[1].Size)
	require.Equal(t, filepath.Join(dir, "sub", "b.bin"), files[1].FullPath)

	files, err = CreateFileList(dir, nil, true, true, false)
	require.NoError(t, err)
	require.Len(t, files, 5)

	// Single file
	files, err = CreateFileList(filepath.Join(dir, "a.txt"), nil, true, true, true)
	require.NoError(t, err)
	require.Equal(t, []string{"a.txt"}, names(files))

	_, err = CreateFileList(filepath.Join(dir, "missing"), nil, true, true, true)
	require.Error(t, err)
}

func TestOutputNames(t *testing.T) {
	require.Equal(t, "book.txt.huff", CompressedName("book.txt"))
	require.Equal(t, "book.txt.decoded", DecompressedName("book.txt.huff"))
	require.Equal(t, "book.txt.decoded", DecompressedName("book.txt"))
	require.Equal(t, "a.huff.decoded", DecompressedName("a.huff.huff"))

	require.Equal(t, "in/a.txt.huff", OutputName("in/a.txt", "", "", CompressedName))
	require.Equal(t, "out.bin", OutputName("in/a.txt", "", "out.bin", CompressedName))

	expected := filepath.Join("out", "sub", "a.txt.huff")
	require.Equal(t, expected, OutputName(filepath.Join("in", "sub", "a.txt"), "in", "out", CompressedName))

	expected = filepath.Join("out", "sub", "a.txt.decoded")
	require.Equal(t, expected, OutputName(filepath.Join("in", "sub", "a.txt.huff"), "in", "out", DecompressedName))
}

func TestSortFiles(t *testing.T) {
	files := []FileData{
		*NewFileData("/b/x", 10),
		*NewFileData("/a/y", 1),
		*NewFileData("/a/z", 100),
		*NewFileData("/a/w", 100),
	}

	SortFiles(files)
	require.Equal(t, []string{"/a/w", "/a/z", "/a/y", "/b/x"},
		[]string{files[0].FullPath, files[1].FullPath, files[2].FullPath, files[3].FullPath})
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		data       []byte
		name       string
		compressed bool
	}{
		{[]byte{0x1F, 0x8B, 0x08, 0x00}, "GZIP", true},
		{[]byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00}, "JPEG", true},
		{[]byte("PK\x03\x04"), "ZIP", true},
		{[]byte("%PDF-1.7"), "PDF", false},
		{[]byte("\x7FELF"), "ELF", false},
		{[]byte("97:5,98:2\n"), "", false},
		{[]byte("BZ"), "", false},
	}

	for _, tt := range tests {
		name, compressed := DetectFormat(tt.data)
		require.Equal(t, tt.name, name, "%q", tt.data)
		require.Equal(t, tt.compressed, compressed, "%q", tt.data)
	}

	dir := t.TempDir()
	f := filepath.Join(dir, "x.gz")
	require.NoError(t, os.WriteFile(f, []byte{0x1F, 0x8B, 0x08, 0x00, 0x00}, 0644))
	name, compressed, err := DetectFileFormat(f)
	require.NoError(t, err)
	require.Equal(t, "GZIP", name)
	require.True(t, compressed)

	require.NoError(t, os.WriteFile(f, []byte{0x1F}, 0644))
	name, _, err = DetectFileFormat(f)
	require.NoError(t, err)
	require.Equal(t, "", name)
}
