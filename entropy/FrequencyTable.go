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
	"io"
	"math/bits"
	"sort"

	huffman "github.com/flanglet/huffman-go"
	"github.com/pkg/errors"
)

const _READ_CHUNK_SIZE = 65536

// FrequencyTable maps a byte value to its number of occurrences.
// The keys present are exactly the distinct byte values observed
// (or read from a header).
type FrequencyTable map[byte]uint64

// ComputeFrequencies returns the frequency table of the provided block.
// An empty block yields an empty table.
func ComputeFrequencies(block []byte) FrequencyTable {
	var histo [256]uint64
	huffman.ComputeHistogram(block, histo[:])
	return newFrequencyTable(histo[:])
}

// CountFrequencies reads 'r' until EOF and returns the frequency table of
// the data read. Read errors are returned, not swallowed.
func CountFrequencies(r io.Reader) (FrequencyTable, error) {
	var histo [256]uint64
	buf := make([]byte, _READ_CHUNK_SIZE)

	for {
		n, err := r.Read(buf)

		if n > 0 {
			huffman.ComputeHistogram(buf[0:n], histo[:])
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, errors.Wrap(err, "Failed to count frequencies")
		}
	}

	return newFrequencyTable(histo[:]), nil
}

func newFrequencyTable(histo []uint64) FrequencyTable {
	freqs := make(FrequencyTable)

	for i, f := range histo {
		if f > 0 {
			freqs[byte(i)] = f
		}
	}

	return freqs
}

// Symbols returns the byte values present in the table in increasing order
func (this FrequencyTable) Symbols() []byte {
	symbols := make([]byte, 0, len(this))

	for s := range this {
		symbols = append(symbols, s)
	}

	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
	return symbols
}

// Total returns the sum of all counts. Fails if the sum does not fit
// in 64 bits (only possible with a forged header).
func (this FrequencyTable) Total() (uint64, error) {
	total := uint64(0)

	for _, f := range this {
		var carry uint64

		if total, carry = bits.Add64(total, f, 0); carry != 0 {
			return 0, errors.Wrap(huffman.ErrMalformedHeader, "sum of counts overflows")
		}
	}

	return total, nil
}

// Equals returns true if both tables have the same keys and counts
func (this FrequencyTable) Equals(other FrequencyTable) bool {
	if len(this) != len(other) {
		return false
	}

	for s, f := range this {
		if g, ok := other[s]; ok == false || g != f {
			return false
		}
	}

	return true
}
