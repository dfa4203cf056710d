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

	huffman "github.com/flanglet/huffman-go"
	"github.com/pkg/errors"
)

// HuffmanEncoder  Implementation of a static Huffman encoder.
// The tree and the codes are built once from the frequency table
// provided at creation time.
type HuffmanEncoder struct {
	bitstream huffman.OutputBitStream
	tree      *Tree
	codes     CodeTable
	table     [256]Code
	present   [256]bool
}

// NewHuffmanEncoder creates an encoder writing to 'bs' with the codes
// derived from 'freqs'. Fails with huffman.ErrEmptyInput if the table is empty.
func NewHuffmanEncoder(bs huffman.OutputBitStream, freqs FrequencyTable) (*HuffmanEncoder, error) {
	if bs == nil {
		return nil, errors.New("Invalid null bitstream parameter")
	}

	tree, err := BuildTree(freqs)

	if err != nil {
		return nil, err
	}

	this := new(HuffmanEncoder)
	this.bitstream = bs
	this.tree = tree
	this.codes = GenerateCodes(tree)

	for s, c := range this.codes {
		this.table[s] = c
		this.present[s] = true
	}

	return this, nil
}

// Write emits the code of each byte of the block to the bitstream.
// Fails with huffman.ErrEncoding if a byte has no code. Returns the number
// of bytes encoded.
func (this *HuffmanEncoder) Write(block []byte) (int, error) {
	for i, b := range block {
		if this.present[b] == false {
			return i, errors.Wrapf(huffman.ErrEncoding, "byte %d at offset %d", b, i)
		}

		c := &this.table[b]

		if _, err := this.bitstream.WriteArray(c.bits, c.length); err != nil {
			return i, err
		}
	}

	return len(block), nil
}

// Tree returns the Huffman tree used by the encoder
func (this *HuffmanEncoder) Tree() *Tree {
	return this.tree
}

// Codes returns the code table used by the encoder
func (this *HuffmanEncoder) Codes() CodeTable {
	return this.codes
}

func (this *HuffmanEncoder) Dispose() {
}

func (this *HuffmanEncoder) BitStream() huffman.OutputBitStream {
	return this.bitstream
}

// HuffmanDecoder Implementation of a static Huffman decoder.
// Walks the tree rebuilt from the frequency table, one bit at a time.
type HuffmanDecoder struct {
	bitstream huffman.InputBitStream
	tree      *Tree
}

// NewHuffmanDecoder creates a decoder reading from 'bs'. The tree is rebuilt
// from 'freqs' and is identical to the one built by the encoder for the
// same table.
func NewHuffmanDecoder(bs huffman.InputBitStream, freqs FrequencyTable) (*HuffmanDecoder, error) {
	if bs == nil {
		return nil, errors.New("Invalid null bitstream parameter")
	}

	tree, err := BuildTree(freqs)

	if err != nil {
		return nil, err
	}

	this := new(HuffmanDecoder)
	this.bitstream = bs
	this.tree = tree
	return this, nil
}

// Read decodes exactly len(block) symbols into the block. Bits left in
// the bitstream after the last symbol are not consumed. If the bitstream
// ends before the block is full, the number of decoded symbols is returned
// with io.ErrUnexpectedEOF.
func (this *HuffmanDecoder) Read(block []byte) (int, error) {
	for i := range block {
		b, err := this.decodeByte()

		if err != nil {
			return i, err
		}

		block[i] = b
	}

	return len(block), nil
}

func (this *HuffmanDecoder) decodeByte() (byte, error) {
	root := this.tree.Root()
	idx := root

	// A leaf root still consumes one bit per symbol
	for {
		bit, err := this.bitstream.ReadBit()

		if err != nil {
			if err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}

			return 0, err
		}

		idx = this.tree.Next(idx, bit)

		if n := this.tree.Node(idx); n.IsLeaf() == true {
			return byte(n.Symbol), nil
		}
	}
}

// Tree returns the Huffman tree used by the decoder
func (this *HuffmanDecoder) Tree() *Tree {
	return this.tree
}

func (this *HuffmanDecoder) BitStream() huffman.InputBitStream {
	return this.bitstream
}

func (this *HuffmanDecoder) Dispose() {
}
