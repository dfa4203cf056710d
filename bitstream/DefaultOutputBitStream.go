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

	"github.com/pkg/errors"
)

// ErrStreamClosed is returned by any operation attempted on a closed bitstream
var ErrStreamClosed = errors.New("Stream closed")

type flusher interface {
	Flush() error
}

// DefaultOutputBitStream is the default implementation of OutputBitStream.
// Bits are accumulated most significant bit first into a one byte buffer
// which is written to the underlying stream as soon as it is full.
type DefaultOutputBitStream struct {
	closed    bool
	written   uint64 // bits pushed to the underlying stream
	availBits uint   // free bit slots in current
	current   byte   // cached bits
	os        io.Writer
	out       [1]byte
}

// NewDefaultOutputBitStream creates a bitstream for writing, using the provided stream as
// the underlying I/O object. The stream is not closed by the bitstream.
func NewDefaultOutputBitStream(stream io.Writer) (*DefaultOutputBitStream, error) {
	if stream == nil {
		return nil, errors.New("Invalid null output stream parameter")
	}

	this := new(DefaultOutputBitStream)
	this.os = stream
	this.availBits = 8
	return this, nil
}

// WriteBit writes the least significant bit of the input integer.
// Returns an error if the bitstream is closed or the byte cannot be written.
func (this *DefaultOutputBitStream) WriteBit(bit int) error {
	if this.closed == true {
		return ErrStreamClosed
	}

	// availBits = 0 if the previous push failed => retry it first
	if this.availBits == 0 {
		if err := this.pushCurrent(); err != nil {
			return err
		}
	}

	this.availBits--
	this.current |= byte(bit&1) << this.availBits

	if this.availBits == 0 {
		return this.pushCurrent()
	}

	return nil
}

// WriteBits writes the 'count' least significant bits of 'value' to the bitstream,
// most significant first. Returns an error if the bitstream is closed, 'count'
// is outside of [1..64] or the underlying stream fails.
// Returns the number of written bits.
func (this *DefaultOutputBitStream) WriteBits(value uint64, count uint) (uint, error) {
	if count == 0 || count > 64 {
		return 0, fmt.Errorf("Invalid bit count: %d (must be in [1..64])", count)
	}

	for i := count; i > 0; i-- {
		if err := this.WriteBit(int(value>>(i-1)) & 1); err != nil {
			return count - i, err
		}
	}

	return count, nil
}

// WriteArray writes 'count' bits from 'bits' to the bitstream (most significant
// bit of bits[0] first). Returns an error if the bitstream is closed or 'count'
// is bigger than the number of bits in the 'bits' slice.
// Returns the number of written bits.
func (this *DefaultOutputBitStream) WriteArray(bits []byte, count uint) (uint, error) {
	if this.closed == true {
		return 0, ErrStreamClosed
	}

	if count > uint(len(bits)<<3) {
		return 0, fmt.Errorf("Invalid length: %d (must be in [0..%d])", count, len(bits)<<3)
	}

	start := 0
	remaining := count

	// Byte aligned cursor: whole bytes go straight to the stream
	if this.availBits == 8 {
		for remaining >= 8 {
			this.current = bits[start]

			if err := this.pushCurrent(); err != nil {
				return count - remaining, err
			}

			start++
			remaining -= 8
		}
	}

	for remaining >= 8 {
		if _, err := this.WriteBits(uint64(bits[start]), 8); err != nil {
			return count - remaining, err
		}

		start++
		remaining -= 8
	}

	if remaining > 0 {
		if _, err := this.WriteBits(uint64(bits[start])>>(8-remaining), remaining); err != nil {
			return count - remaining, err
		}
	}

	return count, nil
}

// Push the 8 bits of current value into the underlying stream.
func (this *DefaultOutputBitStream) pushCurrent() error {
	this.out[0] = this.current

	if _, err := this.os.Write(this.out[:]); err != nil {
		// Restore the cursor to allow a subsequent attempt
		this.availBits = 0
		return errors.WithStack(err)
	}

	this.written += 8
	this.availBits = 8
	this.current = 0
	return nil
}

// Close writes the last (possibly incomplete) byte, left justified and zero
// padded, flushes the underlying stream if it supports it and prevents
// further writes. Closing twice is a no-op. The underlying stream is not closed.
func (this *DefaultOutputBitStream) Close() error {
	if this.closed == true {
		return nil
	}

	if this.availBits < 8 {
		if err := this.pushCurrent(); err != nil {
			return err
		}
	}

	if f, ok := this.os.(flusher); ok == true {
		if err := f.Flush(); err != nil {
			return errors.WithStack(err)
		}
	}

	this.closed = true
	return nil
}

// Written returns the number of bits written so far
func (this *DefaultOutputBitStream) Written() uint64 {
	// Number of bits flushed + bits pending in current
	return this.written + uint64(8-this.availBits)
}

// Closed says whether this stream can be written to
func (this *DefaultOutputBitStream) Closed() bool {
	return this.closed
}
