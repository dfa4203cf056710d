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

package bitstream

import (
	"fmt"
	"io"

	huffman "github.com/flanglet/huffman-go"
	"github.com/pkg/errors"
)

// DebugInputBitStream is an implementation of InputBitStream used for debugging.
type DebugInputBitStream struct {
	bitPrinter
	delegate huffman.InputBitStream
}

// NewDebugInputBitStream creates a DebugInputBitStream wrapped around 'ibs'.
// All calls are delegated to the 'ibs' InputBitStream and read bits are logged
// to the provided io.Writer.
func NewDebugInputBitStream(ibs huffman.InputBitStream, writer io.Writer) (*DebugInputBitStream, error) {
	if ibs == nil {
		return nil, errors.New("The delegate cannot be null")
	}

	if writer == nil {
		return nil, errors.New("The writer cannot be null")
	}

	this := new(DebugInputBitStream)
	this.delegate = ibs
	this.out = writer
	this.mark = 'r'
	this.width = 80
	return this, nil
}

// ReadBit returns the next bit in the bitstream.
// Calls ReadBit() on the underlying bitstream delegate.
func (this *DebugInputBitStream) ReadBit() (int, error) {
	res, err := this.delegate.ReadBit()

	if err == nil {
		this.printBit(res, true)
	}

	return res, err
}

// ReadBits reads 'length' (in [1..64]) bits from the bitstream.
// Calls ReadBits() on the underlying bitstream delegate.
func (this *DebugInputBitStream) ReadBits(length uint) (uint64, error) {
	res, err := this.delegate.ReadBits(length)

	if err == nil {
		for i := uint(1); i <= length; i++ {
			this.printBit(int(res>>(length-i)), i == length)
		}
	}

	return res, err
}

// Close makes the bitstream unavailable for further reads.
// Calls Close() on the underlying bitstream delegate.
func (this *DebugInputBitStream) Close() error {
	if this.lineIndex != 0 {
		fmt.Fprintf(this.out, "\n")
		this.lineIndex = 0
	}

	return this.delegate.Close()
}

// Read returns the number of bits read
// Calls Read() on the underlying bitstream delegate.
func (this *DebugInputBitStream) Read() uint64 {
	return this.delegate.Read()
}

// HasMoreToRead returns false when the bitstream is closed or the EOS has been reached
// Calls HasMoreToRead() on the underlying bitstream delegate.
func (this *DebugInputBitStream) HasMoreToRead() (bool, error) {
	return this.delegate.HasMoreToRead()
}

// Mark sets the internal mark state. When true, displays 'r'
// after each bit or bit sequence read from the bitstream delegate.
func (this *DebugInputBitStream) Mark(mark bool) {
	this.showMark = mark
}

// ShowByte sets the internal show byte state. When true, displays
// the byte value after each group of 8 bits.
func (this *DebugInputBitStream) ShowByte(show bool) {
	this.hexa = show
}
