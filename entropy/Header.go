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

package entropy

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	huffman "github.com/flanglet/huffman-go"
	"github.com/pkg/errors"
)

// Longest valid header: 256 pairs "255:18446744073709551615," plus "\r\n"
const _MAX_HEADER_SIZE = 256*25 + 2

// FormatHeader returns the header line of a frequency table: the
// 'byte:count' pairs in increasing byte order, separated by commas and
// terminated by a new line.
func FormatHeader(freqs FrequencyTable) string {
	var sb strings.Builder

	for i, s := range freqs.Symbols() {
		if i > 0 {
			sb.WriteByte(',')
		}

		sb.WriteString(strconv.Itoa(int(s)))
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatUint(freqs[s], 10))
	}

	sb.WriteByte('\n')
	return sb.String()
}

// WriteHeader writes the header line of a frequency table to 'w'.
// Returns the number of bytes written.
func WriteHeader(w io.Writer, freqs FrequencyTable) (int, error) {
	n, err := io.WriteString(w, FormatHeader(freqs))

	if err != nil {
		return n, errors.Wrap(err, "Failed to write header")
	}

	return n, nil
}

// ParseHeader parses a header line (including its terminator) into a
// frequency table. Pairs may come in any order and the last pair may be
// followed by a comma. A carriage return before the new line is ignored.
// Any other deviation returns an error matching huffman.ErrMalformedHeader.
func ParseHeader(line string) (FrequencyTable, error) {
	if strings.HasSuffix(line, "\n") == false {
		return nil, errors.Wrap(huffman.ErrMalformedHeader, "missing line terminator")
	}

	line = strings.TrimSuffix(line[0:len(line)-1], "\r")
	line = strings.TrimSuffix(line, ",")

	if len(line) == 0 {
		return nil, errors.Wrap(huffman.ErrMalformedHeader, "no symbol in header")
	}

	freqs := make(FrequencyTable)

	for _, pair := range strings.Split(line, ",") {
		key, value, found := strings.Cut(pair, ":")

		if found == false {
			return nil, errors.Wrapf(huffman.ErrMalformedHeader, "invalid pair '%s'", pair)
		}

		symbol, err := parseDecimal(key, 8)

		if err != nil {
			return nil, errors.Wrapf(huffman.ErrMalformedHeader, "invalid byte value '%s'", key)
		}

		count, err := parseDecimal(value, 64)

		if err != nil {
			return nil, errors.Wrapf(huffman.ErrMalformedHeader, "invalid count '%s' for byte %d", value, symbol)
		}

		if _, dup := freqs[byte(symbol)]; dup == true {
			return nil, errors.Wrapf(huffman.ErrMalformedHeader, "duplicate byte value %d", symbol)
		}

		freqs[byte(symbol)] = count
	}

	if _, err := freqs.Total(); err != nil {
		return nil, err
	}

	return freqs, nil
}

// Only plain decimal digits: no sign, no blank, no base prefix
func parseDecimal(s string, bitSize int) (uint64, error) {
	if len(s) == 0 {
		return 0, strconv.ErrSyntax
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}

	return strconv.ParseUint(s, 10, bitSize)
}

// ReadHeader reads and parses the header line at the start of 'r'.
// The reader is left positioned on the first byte of the bitstream.
func ReadHeader(r *bufio.Reader) (FrequencyTable, error) {
	var sb strings.Builder

	for {
		chunk, err := r.ReadSlice('\n')
		sb.Write(chunk)

		if sb.Len() > _MAX_HEADER_SIZE {
			return nil, errors.Wrap(huffman.ErrMalformedHeader, "header too long")
		}

		if err == nil {
			break
		}

		if err == bufio.ErrBufferFull {
			continue
		}

		if err == io.EOF {
			return nil, errors.Wrap(huffman.ErrMalformedHeader, "missing line terminator")
		}

		return nil, errors.Wrap(err, "Failed to read header")
	}

	return ParseHeader(sb.String())
}
