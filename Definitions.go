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

// Package huffman defines the top level interfaces, error kinds and events
// used by the byte oriented Huffman compressor/decompressor.
//
// The implementation of these interfaces are available in sub-folders
// like bitstream, entropy or io. In particular, the io package contains
// the Encoder and Decoder used to compress and decompress data.
package huffman

import (
	"errors"
)

const (
	ERR_MISSING_PARAM       = 1
	ERR_INVALID_CODEC       = 3
	ERR_CREATE_COMPRESSOR   = 4
	ERR_CREATE_DECOMPRESSOR = 5
	ERR_OUTPUT_IS_DIR       = 6
	ERR_OVERWRITE_FILE      = 7
	ERR_CREATE_FILE         = 8
	ERR_CREATE_BITSTREAM    = 9
	ERR_OPEN_FILE           = 10
	ERR_READ_FILE           = 11
	ERR_WRITE_FILE          = 12
	ERR_PROCESS_BLOCK       = 13
	ERR_INVALID_FILE        = 15
	ERR_INVALID_PARAM       = 18
	ERR_EMPTY_INPUT         = 20
	ERR_INVALID_HEADER      = 21
	ERR_ENCODING            = 22
	ERR_UNKNOWN             = 127
)

var (
	// ErrEmptyInput is returned when encoding a zero length input:
	// no frequency table and no tree can be built.
	ErrEmptyInput = errors.New("empty input")

	// ErrMalformedHeader is returned when the header line cannot be parsed
	// into valid byte:count pairs.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrEncoding is returned when an input byte has no code in the code table.
	ErrEncoding = errors.New("no code assigned to byte")
)

// InputBitStream is a bitstream reader
type InputBitStream interface {
	// ReadBit returns the next bit in the bitstream.
	// Returns io.EOF when the underlying source has no more data.
	ReadBit() (int, error)

	// ReadBits reads 'length' (in [1..64]) bits from the bitstream.
	// Returns the bits read as an uint64.
	ReadBits(length uint) (uint64, error)

	// Close makes the bitstream unavailable for further reads.
	Close() error

	// Read returns the number of bits read
	Read() uint64

	// HasMoreToRead returns false when the bitstream is closed or the EOS has been reached
	HasMoreToRead() (bool, error)
}

// OutputBitStream is a bitstream writer
type OutputBitStream interface {
	// WriteBit writes the least significant bit of the input integer.
	WriteBit(bit int) error

	// WriteBits writes the least significant bits of 'bits' to the bitstream.
	// Length is the number of bits to write (in [1..64]).
	// Returns the number of bits written.
	WriteBits(bits uint64, length uint) (uint, error)

	// WriteArray writes bits out of the byte slice (most significant bit first).
	// Length is the number of bits. Returns the number of bits written.
	WriteArray(bits []byte, length uint) (uint, error)

	// Close pads and flushes the last byte then makes the bitstream
	// unavailable for further writes.
	Close() error

	// Written returns the number of bits written
	Written() uint64
}

// EntropyEncoder entropy encodes data to a bitstream
type EntropyEncoder interface {
	// Write encodes the data provided into the bitstream. Return the number of bytes
	// encoded.
	Write(block []byte) (int, error)

	// BitStream returns the underlying bitstream
	BitStream() OutputBitStream

	// Dispose must be called before getting rid of the entropy encoder
	// Trying to encode after a call to dispose gives undefined behavior
	Dispose()
}

// EntropyDecoder entropy decodes data from a bitstream
type EntropyDecoder interface {
	// Read decodes data from the bitstream and return it in the provided buffer.
	// Return the number of bytes decoded.
	Read(block []byte) (int, error)

	// BitStream returns the underlying bitstream
	BitStream() InputBitStream

	// Dispose must be called before getting rid of the entropy decoder
	// Trying to decode after a call to dispose gives undefined behavior
	Dispose()
}
