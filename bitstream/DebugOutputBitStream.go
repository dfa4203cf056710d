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

// bitPrinter formats a sequence of bits, 8 per group and 'width'
// per line, optionally followed by the byte value of each group.
type bitPrinter struct {
	out       io.Writer
	mark      byte
	showMark  bool
	hexa      bool
	current   byte
	width     int
	lineIndex int
}

func (this *bitPrinter) printBit(bit int, last bool) {
	bit &= 1
	this.current <<= 1
	this.current |= byte(bit)
	this.lineIndex++
	fmt.Fprintf(this.out, "%d", bit)

	if this.showMark == true && last == true {
		fmt.Fprintf(this.out, "%c", this.mark)
	}

	if this.width > 7 && this.lineIndex%this.width == 0 {
		if this.hexa == true {
			this.printByte(this.current)
		}

		fmt.Fprintf(this.out, "\n")
		this.lineIndex = 0
	} else if this.lineIndex&7 == 0 {
		if this.hexa == true {
			this.printByte(this.current)
		} else {
			fmt.Fprintf(this.out, " ")
		}
	}
}

func (this *bitPrinter) printByte(val byte) {
	fmt.Fprintf(this.out, " [%03d] ", val)
}

// DebugOutputBitStream is an implementation of OutputBitStream used for debugging.
type DebugOutputBitStream struct {
	bitPrinter
	delegate huffman.OutputBitStream
}

// NewDebugOutputBitStream creates a DebugOutputBitStream wrapped around 'obs'.
// All calls are delegated to the 'obs' OutputBitStream and written bits are logged
// to the provided io.Writer.
func NewDebugOutputBitStream(obs huffman.OutputBitStream, writer io.Writer) (*DebugOutputBitStream, error) {
	if obs == nil {
		return nil, errors.New("The delegate cannot be null")
	}

	if writer == nil {
		return nil, errors.New("The writer cannot be null")
	}

	this := &DebugOutputBitStream{}
	this.delegate = obs
	this.out = writer
	this.mark = 'w'
	this.width = 80
	return this, nil
}

// WriteBit writes the least significant bit of the input integer.
// Calls WriteBit() on the underlying bitstream delegate.
func (this *DebugOutputBitStream) WriteBit(bit int) error {
	if err := this.delegate.WriteBit(bit); err != nil {
		return err
	}

	this.printBit(bit, true)
	return nil
}

// WriteBits writes the least significant bits of 'bits' to the bitstream.
// Calls WriteBits() on the underlying bitstream delegate.
func (this *DebugOutputBitStream) WriteBits(bits uint64, length uint) (uint, error) {
	res, err := this.delegate.WriteBits(bits, length)

	for i := uint(1); i <= res; i++ {
		this.printBit(int(bits>>(length-i)), i == length)
	}

	return res, err
}

// WriteArray writes bits out of the byte slice. Length is the number of bits.
// Calls WriteArray() on the underlying bitstream delegate.
func (this *DebugOutputBitStream) WriteArray(bits []byte, count uint) (uint, error) {
	res, err := this.delegate.WriteArray(bits, count)

	for i := uint(0); i < res; i++ {
		this.printBit(int(bits[i>>3]>>(7-(i&7))), i+1 == count)
	}

	return res, err
}

// Close makes the bitstream unavailable for further writes.
// Calls Close() on the underlying bitstream delegate.
func (this *DebugOutputBitStream) Close() error {
	if this.lineIndex != 0 {
		fmt.Fprintf(this.out, "\n")
		this.lineIndex = 0
	}

	return this.delegate.Close()
}

// Written returns the number of bits written
// Calls Written() on the underlying bitstream delegate.
func (this *DebugOutputBitStream) Written() uint64 {
	return this.delegate.Written()
}

// Mark sets the internal mark state. When true, displays 'w'
// after each bit or bit sequence written to the bitstream delegate.
func (this *DebugOutputBitStream) Mark(mark bool) {
	this.showMark = mark
}

// ShowByte sets the internal show byte state. When true, displays
// the byte value after each group of 8 bits.
func (this *DebugOutputBitStream) ShowByte(show bool) {
	this.hexa = show
}
