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

// DefaultInputBitStream is the default implementation of InputBitStream.
// Bytes are pulled lazily from the underlying stream, one at a time, and
// their bits are returned most significant bit first.
type DefaultInputBitStream struct {
	closed    bool
	eos       bool
	read      uint64 // bits pulled from the underlying stream
	availBits uint   // bits not consumed in current
	current   byte   // cached bits
	is        io.Reader
	br        io.ByteReader // non nil if the stream supports byte reads
	in        [1]byte
}

// NewDefaultInputBitStream creates a bitstream for reading, using the provided stream as
// the underlying I/O object. The stream is not closed by the bitstream.
func NewDefaultInputBitStream(stream io.Reader) (*DefaultInputBitStream, error) {
	if stream == nil {
		return nil, errors.New("Invalid null input stream parameter")
	}

	this := new(DefaultInputBitStream)
	this.is = stream
	this.br, _ = stream.(io.ByteReader)
	return this, nil
}

// ReadBit returns the next bit. Returns io.EOF when the underlying stream
// has no more data and ErrStreamClosed if the bitstream is closed.
func (this *DefaultInputBitStream) ReadBit() (int, error) {
	if this.availBits == 0 {
		if err := this.pullCurrent(); err != nil {
			return 0, err
		}
	}

	this.availBits--
	return int(this.current>>this.availBits) & 1, nil
}

// ReadBits reads 'count' bits from the stream and returns them as an uint64.
// Returns an error if the count is outside of the [1..64] range or the stream
// is closed. If the data ends after some (but not all) of the requested bits,
// io.ErrUnexpectedEOF is returned.
func (this *DefaultInputBitStream) ReadBits(count uint) (uint64, error) {
	if count == 0 || count > 64 {
		return 0, fmt.Errorf("Invalid bit count: %d (must be in [1..64])", count)
	}

	res := uint64(0)

	for i := uint(0); i < count; i++ {
		bit, err := this.ReadBit()

		if err != nil {
			if err == io.EOF && i > 0 {
				return res, io.ErrUnexpectedEOF
			}

			return res, err
		}

		res = (res << 1) | uint64(bit)
	}

	return res, nil
}

// Pull 8 bits of current value from the underlying stream.
func (this *DefaultInputBitStream) pullCurrent() error {
	if this.closed == true {
		return ErrStreamClosed
	}

	if this.eos == true {
		return io.EOF
	}

	var err error

	if this.br != nil {
		this.current, err = this.br.ReadByte()
	} else {
		_, err = io.ReadFull(this.is, this.in[:])
		this.current = this.in[0]
	}

	if err != nil {
		if err == io.EOF {
			this.eos = true
			return io.EOF
		}

		return errors.WithStack(err)
	}

	this.read += 8
	this.availBits = 8
	return nil
}

// HasMoreToRead returns false if the stream is closed or there is no
// more bit to read.
func (this *DefaultInputBitStream) HasMoreToRead() (bool, error) {
	if this.closed == true {
		return false, ErrStreamClosed
	}

	if this.availBits != 0 {
		return true, nil
	}

	if err := this.pullCurrent(); err != nil {
		if err == io.EOF {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// Close prevents further reads. Closing twice is a no-op.
// The underlying stream is not closed.
func (this *DefaultInputBitStream) Close() error {
	if this.closed == true {
		return nil
	}

	this.closed = true

	// Reset fields to trigger an error on ReadBit() or ReadBits()
	this.read -= uint64(this.availBits)
	this.availBits = 0
	return nil
}

// Read returns the number of bits read so far
func (this *DefaultInputBitStream) Read() uint64 {
	return this.read - uint64(this.availBits)
}

// Closed says whether this stream can be read from
func (this *DefaultInputBitStream) Closed() bool {
	return this.closed
}
