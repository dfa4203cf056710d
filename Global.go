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

package huffman

// ComputeHistogram computes the order 0 histogram for the input block
// and adds it to the 'freqs' slice (which must be of length 256 at least).
// The slice is not cleared so that several blocks can be accumulated.
func ComputeHistogram(block []byte, freqs []uint64) {
	f0 := [256]uint64{}
	f1 := [256]uint64{}
	f2 := [256]uint64{}
	f3 := [256]uint64{}
	end4 := len(block) & -4

	for i := 0; i < end4; i += 4 {
		f0[block[i]]++
		f1[block[i+1]]++
		f2[block[i+2]]++
		f3[block[i+3]]++
	}

	for i := end4; i < len(block); i++ {
		freqs[block[i]]++
	}

	for i := 0; i < 256; i++ {
		freqs[i] += (f0[i] + f1[i] + f2[i] + f3[i])
	}
}
