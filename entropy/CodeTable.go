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
	"strings"
)

// Code is a sequence of bits packed most significant bit first.
// Left edges are 0 bits, right edges are 1 bits.
type Code struct {
	bits   []byte
	length uint
}

// Len returns the number of bits of the code
func (this Code) Len() uint {
	return this.length
}

// Bit returns the bit at position 'i' (0 is the first bit emitted)
func (this Code) Bit(i uint) int {
	return int(this.bits[i>>3]>>(7-(i&7))) & 1
}

// Bytes returns the packed bits of the code. Unused bits of the last
// byte are 0.
func (this Code) Bytes() []byte {
	return this.bits
}

// String returns the code as a string of '0' and '1'
func (this Code) String() string {
	var sb strings.Builder

	for i := uint(0); i < this.length; i++ {
		sb.WriteByte(byte('0' + this.Bit(i)))
	}

	return sb.String()
}

// append returns a new code made of this code followed by 'bit'
func (this Code) append(bit int) Code {
	res := Code{length: this.length + 1}
	res.bits = make([]byte, (res.length+7)>>3)
	copy(res.bits, this.bits)

	if bit&1 != 0 {
		res.bits[this.length>>3] |= 0x80 >> (this.length & 7)
	}

	return res
}

// CodeTable maps each symbol of a tree to its code
type CodeTable map[byte]Code

// GenerateCodes walks the tree depth first (with an explicit stack, the
// depth of a degenerate tree can reach 255) and assigns to every leaf the
// path from the root. A tree reduced to one leaf gets the one bit code 0.
func GenerateCodes(tree *Tree) CodeTable {
	codes := make(CodeTable, tree.Leaves())
	root := tree.Root()

	if tree.Node(root).IsLeaf() == true {
		codes[byte(tree.Node(root).Symbol)] = Code{}.append(0)
		return codes
	}

	type entry struct {
		idx  int
		code Code
	}

	stack := make([]entry, 0, 64)
	stack = append(stack, entry{idx: root})

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[0 : len(stack)-1]
		n := tree.Node(e.idx)

		if n.IsLeaf() == true {
			codes[byte(n.Symbol)] = e.code
			continue
		}

		stack = append(stack, entry{idx: n.Right, code: e.code.append(1)})
		stack = append(stack, entry{idx: n.Left, code: e.code.append(0)})
	}

	return codes
}

// WeightedLength returns the total number of bits needed to encode data
// with the provided frequencies: sum of code length times frequency.
// Symbols without code are ignored.
func (this CodeTable) WeightedLength(freqs FrequencyTable) uint64 {
	res := uint64(0)

	for s, f := range freqs {
		if c, ok := this[s]; ok == true {
			res += uint64(c.Len()) * f
		}
	}

	return res
}

// MaxLength returns the length of the longest code
func (this CodeTable) MaxLength() uint {
	res := uint(0)

	for _, c := range this {
		if c.Len() > res {
			res = c.Len()
		}
	}

	return res
}
