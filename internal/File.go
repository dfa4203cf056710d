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
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

const (
	// COMPRESSED_EXT is appended to the name of a compressed file
	COMPRESSED_EXT = ".huff"

	// DECOMPRESSED_EXT is appended to the name of a decompressed file
	DECOMPRESSED_EXT = ".decoded"
)

// FileData a basic structure encapsulating a file path and size
type FileData struct {
	FullPath string
	Path     string
	Name     string
	Size     int64
}

// NewFileData creates an instance of FileData from a file path and size
func NewFileData(fullPath string, size int64) *FileData {
	this := &FileData{}
	this.FullPath = fullPath
	this.Size = size
	this.Path, this.Name = filepath.Split(fullPath)
	return this
}

// SortFiles orders files by parent directory, then by decreasing size
// so that the biggest files of a directory are scheduled first.
func SortFiles(files []FileData) {
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Path != files[j].Path {
			return files[i].Path < files[j].Path
		}

		if files[i].Size != files[j].Size {
			return files[i].Size > files[j].Size
		}

		return files[i].Name < files[j].Name
	})
}

func isDotFile(name string) bool {
	base := filepath.Base(name)
	return len(base) > 1 && base[0] == '.' && base != ".."
}

func accept(fi fs.FileInfo, ignoreLinks bool) bool {
	return fi.Mode().IsRegular() || (ignoreLinks == false && fi.Mode()&fs.ModeSymlink != 0)
}

// CreateFileList appends to 'fileList' the file 'target' or, if 'target' is
// a directory, the files it contains (sub-directories included if 'isRecursive'
// is true). Symbolic links and dot files can be skipped.
func CreateFileList(target string, fileList []FileData, isRecursive, ignoreLinks, ignoreDotFiles bool) ([]FileData, error) {
	fi, err := os.Stat(target)

	if err != nil {
		return fileList, err
	}

	if ignoreDotFiles == true && isDotFile(target) == true {
		return fileList, nil
	}

	if fi.IsDir() == false {
		if accept(fi, ignoreLinks) == true {
			fileList = append(fileList, *NewFileData(target, fi.Size()))
		}

		return fileList, nil
	}

	if isRecursive == true {
		err = filepath.WalkDir(target, func(path string, de fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if path != target && ignoreDotFiles == true && isDotFile(path) == true {
				if de.IsDir() == true {
					return filepath.SkipDir
				}

				return nil
			}

			if de.IsDir() == true {
				return nil
			}

			info, err := de.Info()

			if err != nil {
				return err
			}

			if accept(info, ignoreLinks) == true {
				fileList = append(fileList, *NewFileData(path, info.Size()))
			}

			return nil
		})

		return fileList, err
	}

	entries, err := os.ReadDir(target)

	if err != nil {
		return fileList, err
	}

	for _, de := range entries {
		if de.IsDir() == true || (ignoreDotFiles == true && isDotFile(de.Name()) == true) {
			continue
		}

		info, err := de.Info()

		if err != nil {
			return fileList, err
		}

		if accept(info, ignoreLinks) == true {
			fileList = append(fileList, *NewFileData(filepath.Join(target, de.Name()), info.Size()))
		}
	}

	return fileList, nil
}

// CompressedName returns the default name of the compressed version of 'name'
func CompressedName(name string) string {
	return name + COMPRESSED_EXT
}

// DecompressedName returns the default name of the decompressed version of
// 'name': the compressed extension is removed (if present) before the
// decompressed extension is appended.
func DecompressedName(name string) string {
	return strings.TrimSuffix(name, COMPRESSED_EXT) + DECOMPRESSED_EXT
}

// OutputName returns the output file name for the input file 'input'.
// 'inputRoot' is the input directory when a directory is processed (empty
// otherwise) and 'output' the output name provided by the user (may be empty).
// When a directory is processed, the file tree is replicated under 'output'.
func OutputName(input, inputRoot, output string, rename func(string) string) string {
	if len(output) == 0 {
		return rename(input)
	}

	if len(inputRoot) == 0 {
		return output
	}

	rel, err := filepath.Rel(inputRoot, input)

	if err != nil {
		rel = filepath.Base(input)
	}

	return rename(filepath.Join(output, rel))
}

// IsReservedName returns true if the name cannot be used for a file
// on the current platform
func IsReservedName(fileName string) bool {
	if runtime.GOOS != "windows" {
		return false
	}

	// Sorted list
	var reserved = []string{"AUX", "COM0", "COM1", "COM2", "COM3", "COM4", "COM5", "COM6",
		"COM7", "COM8", "COM9", "CON", "LPT0", "LPT1", "LPT2",
		"LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9", "NUL", "PRN"}

	name := strings.ToUpper(fileName)
	idx := sort.SearchStrings(reserved, name)
	return idx < len(reserved) && reserved[idx] == name
}
