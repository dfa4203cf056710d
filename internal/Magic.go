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
	"encoding/binary"
	"io"
	"os"
)

type magicEntry struct {
	key        uint32
	mask       uint32
	name       string
	compressed bool
}

// Common file signatures. A 16 bit signature is stored in the upper half
// of the key with a 0xFFFF0000 mask.
var magics = []magicEntry{
	{0xFFD8FFE0, 0xFFFFFFF0, "JPEG", true},
	{0x47494638, 0xFFFFFFFF, "GIF", true},
	{0x25504446, 0xFFFFFFFF, "PDF", false},
	{0x504B0304, 0xFFFFFFFF, "ZIP", true},
	{0x377ABCAF, 0xFFFFFFFF, "7Z", true},
	{0x89504E47, 0xFFFFFFFF, "PNG", true},
	{0x7F454C46, 0xFFFFFFFF, "ELF", false},
	{0xFEEDFACE, 0xFFFFFFFF, "MACH-O", false},
	{0xCEFAEDFE, 0xFFFFFFFF, "MACH-O", false},
	{0xFEEDFACF, 0xFFFFFFFF, "MACH-O", false},
	{0xCFFAEDFE, 0xFFFFFFFF, "MACH-O", false},
	{0x28B52FFD, 0xFFFFFFFF, "ZSTD", true},
	{0x81CFB2CE, 0xFFFFFFFF, "BROTLI", true},
	{0x4D534346, 0xFFFFFFFF, "CAB", true},
	{0x52494646, 0xFFFFFFFF, "RIFF", false},
	{0x1F8B0000, 0xFFFF0000, "GZIP", true},
	{0x425A6800, 0xFFFFFF00, "BZIP2", true},
	{0x424D0000, 0xFFFF0000, "BMP", false},
	{0x4D5A0000, 0xFFFF0000, "EXE", false},
}

// DetectFormat checks the first bytes of the slice against a list of common
// file signatures. Returns the name of the format (empty if unknown) and
// whether data in this format is already compressed.
func DetectFormat(src []byte) (string, bool) {
	if len(src) < 4 {
		return "", false
	}

	key := binary.BigEndian.Uint32(src)

	for _, m := range magics {
		if key&m.mask == m.key {
			return m.name, m.compressed
		}
	}

	return "", false
}

// DetectFileFormat applies DetectFormat to the first bytes of a file
func DetectFileFormat(name string) (string, bool, error) {
	f, err := os.Open(name)

	if err != nil {
		return "", false, err
	}

	defer f.Close()
	var buf [4]byte

	if _, err := io.ReadFull(f, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return "", false, nil
		}

		return "", false, err
	}

	format, compressed := DetectFormat(buf[:])
	return format, compressed, nil
}
