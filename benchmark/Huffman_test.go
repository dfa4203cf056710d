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

package benchmark

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/flanglet/huffman-go/bitstream"
	"github.com/flanglet/huffman-go/entropy"
	hio "github.com/flanglet/huffman-go/io"
)

const _BENCH_SIZE = 256 * 1024

// Runs of random bytes drawn from a skewed distribution
func benchData(seed int64) []byte {
	repeats := []int{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9, 3}
	rnd := rand.New(rand.NewSource(seed))
	res := make([]byte, _BENCH_SIZE)
	idx := 0

	for i := 0; i < len(res); {
		b := byte(rnd.ExpFloat64() * 16)
		length := min(repeats[idx], len(res)-i)
		idx = (idx + 1) & 0x0F

		for j := 0; j < length; j++ {
			res[i] = b
			i++
		}
	}

	return res
}

func BenchmarkHuffmanEncode(b *testing.B) {
	data := benchData(1)
	freqs := entropy.ComputeFrequencies(data)
	var buf bytes.Buffer
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for ii := 0; ii < b.N; ii++ {
		buf.Reset()
		obs, _ := bitstream.NewDefaultOutputBitStream(&buf)
		ec, err := entropy.NewHuffmanEncoder(obs, freqs)

		if err != nil {
			b.Fatalf("Cannot create encoder: %v", err)
		}

		if _, err := ec.Write(data); err != nil {
			b.Fatalf("An error occurred during encoding: %v", err)
		}

		ec.Dispose()

		if err := obs.Close(); err != nil {
			b.Fatalf("Error during close: %v", err)
		}
	}
}

func BenchmarkHuffmanDecode(b *testing.B) {
	data := benchData(2)
	freqs := entropy.ComputeFrequencies(data)
	var buf bytes.Buffer
	obs, _ := bitstream.NewDefaultOutputBitStream(&buf)
	ec, _ := entropy.NewHuffmanEncoder(obs, freqs)
	ec.Write(data)
	obs.Close()
	packed := buf.Bytes()
	res := make([]byte, len(data))
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for ii := 0; ii < b.N; ii++ {
		ibs, _ := bitstream.NewDefaultInputBitStream(bytes.NewReader(packed))
		ed, err := entropy.NewHuffmanDecoder(ibs, freqs)

		if err != nil {
			b.Fatalf("Cannot create decoder: %v", err)
		}

		if _, err := ed.Read(res); err != nil {
			b.Fatalf("An error occurred during decoding: %v", err)
		}

		ed.Dispose()
	}

	if bytes.Equal(res, data) == false {
		b.Fatalf("Decoded data differs from the original")
	}
}

func BenchmarkBuildTree(b *testing.B) {
	freqs := entropy.ComputeFrequencies(benchData(3))

	for ii := 0; ii < b.N; ii++ {
		tree, err := entropy.BuildTree(freqs)

		if err != nil {
			b.Fatalf("Cannot build tree: %v", err)
		}

		entropy.GenerateCodes(tree)
	}
}

func BenchmarkRoundTrip(b *testing.B) {
	data := benchData(4)
	b.SetBytes(int64(len(data)))

	for ii := 0; ii < b.N; ii++ {
		header, packed, err := hio.EncodeBytes(data)

		if err != nil {
			b.Fatalf("An error occurred during encoding: %v", err)
		}

		res, err := hio.DecodeBytes(header, packed)

		if err != nil {
			b.Fatalf("An error occurred during decoding: %v", err)
		}

		if len(res) != len(data) {
			b.Fatalf("Invalid decoded size: %d (expected %d)", len(res), len(data))
		}
	}
}
