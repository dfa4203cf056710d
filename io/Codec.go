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

// Package io provides the implementations of an Encoder and a Decoder
// used to respectively compress and decompress data with a static
// Huffman code, plus helpers working on byte slices and files.
package io

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	huffman "github.com/flanglet/huffman-go"
	"github.com/flanglet/huffman-go/bitstream"
	"github.com/flanglet/huffman-go/entropy"
	logging "github.com/op/go-logging"
	pkgerrors "github.com/pkg/errors"
)

// Encoding:
// - step 1: count the byte frequencies of the whole input
// - step 2: build the tree and the codes, write the frequency table as a text header line
// - step 3: write the code of each input byte to the bitstream (MSB first, zero padded)
// Decoding parses the header, rebuilds the same tree and walks it until the
// number of bytes given by the header has been emitted.

const _STREAM_BUFFER_SIZE = 64 * 1024

var log = logging.MustGetLogger("huffman/io")

type notifier struct {
	listeners []huffman.Listener
}

// AddListener adds an event listener.
// Returns true if the listener has been added.
func (this *notifier) AddListener(bl huffman.Listener) bool {
	if bl == nil {
		return false
	}

	this.listeners = append(this.listeners, bl)
	return true
}

// RemoveListener removes an event listener.
// Returns true if the listener has been removed.
func (this *notifier) RemoveListener(bl huffman.Listener) bool {
	if bl == nil {
		return false
	}

	for i, e := range this.listeners {
		if e == bl {
			this.listeners = append(this.listeners[:i], this.listeners[i+1:]...)
			return true
		}
	}

	return false
}

func (this *notifier) notify(evtType int, size int64, symbols int) {
	if len(this.listeners) == 0 {
		return
	}

	evt := huffman.NewEvent(evtType, size, symbols, time.Now())

	for _, bl := range this.listeners {
		bl.ProcessEvent(evt)
	}
}

func checkCtx(ctx map[string]any) (io.Writer, error) {
	if ctx == nil {
		return nil, &IOError{msg: "Invalid null context parameter", code: huffman.ERR_INVALID_PARAM}
	}

	val, hasKey := ctx["debug"]

	if hasKey == false || val == nil {
		return nil, nil
	}

	if w, ok := val.(io.Writer); ok == true {
		return w, nil
	}

	return nil, &IOError{msg: "Invalid 'debug' context value: must be an io.Writer", code: huffman.ERR_INVALID_PARAM}
}

// Encoder compresses data read from an io.Reader and writes the header
// and the bitstream to an io.Writer. An Encoder can be reused: every call
// to Encode builds a new code from its own input.
type Encoder struct {
	notifier
	os      io.Writer
	ctx     map[string]any
	debug   io.Writer
	read    int64
	written int64
}

// NewEncoder creates a new instance of Encoder writing to 'os'.
// The output stream is not closed by the encoder.
func NewEncoder(os io.Writer) (*Encoder, error) {
	ctx := make(map[string]any)
	return NewEncoderWithCtx(os, ctx)
}

// NewEncoderWithCtx creates a new instance of Encoder using a map of parameters.
// Key "debug" (io.Writer): if present, the bits written are also printed
// to this writer.
func NewEncoderWithCtx(os io.Writer, ctx map[string]any) (*Encoder, error) {
	if os == nil {
		return nil, &IOError{msg: "Invalid null output stream parameter", code: huffman.ERR_CREATE_COMPRESSOR}
	}

	debug, err := checkCtx(ctx)

	if err != nil {
		return nil, err
	}

	this := &Encoder{}
	this.os = os
	this.ctx = ctx
	this.debug = debug
	return this, nil
}

// Encode compresses all the data provided by 'is' until EOF.
// Seekable inputs are read twice (frequencies, then codes), other
// inputs are loaded in memory. Returns an IOError on failure; its cause
// matches huffman.ErrEmptyInput if the input has no data.
func (this *Encoder) Encode(is io.Reader) error {
	if is == nil {
		return &IOError{msg: "Invalid null input stream parameter", code: huffman.ERR_INVALID_PARAM}
	}

	this.read = 0
	this.written = 0
	this.notify(huffman.EVT_COMPRESSION_START, -1, 0)

	freqs, src, err := this.countFrequencies(is)

	if err != nil {
		return err
	}

	total, err := freqs.Total()

	if err != nil {
		return newIOError(err, "Input too large", huffman.ERR_READ_FILE)
	}

	if total == 0 {
		return newIOError(pkgerrors.WithStack(huffman.ErrEmptyInput), "Cannot compress", huffman.ERR_EMPTY_INPUT)
	}

	this.notify(huffman.EVT_AFTER_FREQUENCIES, int64(total), len(freqs))
	bw := bufio.NewWriterSize(this.os, _STREAM_BUFFER_SIZE)
	dobs, _ := bitstream.NewDefaultOutputBitStream(bw)
	var obs huffman.OutputBitStream = dobs

	if this.debug != nil {
		dbs, _ := bitstream.NewDebugOutputBitStream(dobs, this.debug)
		dbs.ShowByte(true)
		obs = dbs
	}

	enc, err := entropy.NewHuffmanEncoder(obs, freqs)

	if err != nil {
		return newIOError(err, "Cannot create entropy encoder", huffman.ERR_CREATE_COMPRESSOR)
	}

	defer enc.Dispose()
	codes := enc.Codes()
	payload := codes.WeightedLength(freqs)

	if log.IsEnabledFor(logging.DEBUG) == true {
		log.Debugf("%d bytes, %d symbols, longest code: %d bits, payload: %d bits",
			total, len(freqs), codes.MaxLength(), payload)
	}

	this.notify(huffman.EVT_AFTER_CODES, int64(payload), len(codes))
	hdrLen, err := entropy.WriteHeader(bw, freqs)

	if err != nil {
		return newIOError(err, "Cannot write header", huffman.ERR_WRITE_FILE)
	}

	this.notify(huffman.EVT_AFTER_HEADER_ENCODING, int64(8*hdrLen), len(freqs))
	buf := make([]byte, _STREAM_BUFFER_SIZE)
	read := uint64(0)

	for {
		n, err := src.Read(buf)

		if n > 0 {
			read += uint64(n)

			if read > total {
				return &IOError{msg: "Input modified during compression", code: huffman.ERR_READ_FILE}
			}

			if _, err := enc.Write(buf[0:n]); err != nil {
				return newIOError(err, "Encoding failed", huffman.ERR_WRITE_FILE)
			}
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return newIOError(err, "Cannot read input", huffman.ERR_READ_FILE)
		}
	}

	if read != total {
		return &IOError{msg: "Input modified during compression", code: huffman.ERR_READ_FILE}
	}

	// Pads the last byte and flushes the buffered writer
	if err := obs.Close(); err != nil {
		return newIOError(err, "Cannot write bitstream", huffman.ERR_WRITE_FILE)
	}

	this.read = int64(total)
	this.written = int64(hdrLen) + int64(obs.Written()>>3)
	log.Debugf("Compressed %d bytes into %d bytes", this.read, this.written)
	this.notify(huffman.EVT_COMPRESSION_END, 8*this.written, len(freqs))
	return nil
}

func (this *Encoder) countFrequencies(is io.Reader) (entropy.FrequencyTable, io.Reader, error) {
	if rs, ok := is.(io.ReadSeeker); ok == true {
		if start, err := rs.Seek(0, io.SeekCurrent); err == nil {
			freqs, err := entropy.CountFrequencies(rs)

			if err != nil {
				return nil, nil, newIOError(err, "Cannot read input", huffman.ERR_READ_FILE)
			}

			if _, err := rs.Seek(start, io.SeekStart); err != nil {
				return nil, nil, newIOError(err, "Cannot rewind input", huffman.ERR_READ_FILE)
			}

			return freqs, rs, nil
		}
	}

	// Pipes and other non seekable inputs
	data, err := io.ReadAll(is)

	if err != nil {
		return nil, nil, newIOError(err, "Cannot read input", huffman.ERR_READ_FILE)
	}

	return entropy.ComputeFrequencies(data), bytes.NewReader(data), nil
}

// BytesRead returns the number of bytes compressed by the last call to Encode
func (this *Encoder) BytesRead() int64 {
	return this.read
}

// BytesWritten returns the number of bytes (header included) written by
// the last call to Encode
func (this *Encoder) BytesWritten() int64 {
	return this.written
}

// Decoder reads a header and a bitstream from an io.Reader and writes the
// decompressed data to an io.Writer.
type Decoder struct {
	notifier
	os      io.Writer
	ctx     map[string]any
	debug   io.Writer
	read    int64
	written int64
}

// NewDecoder creates a new instance of Decoder writing to 'os'.
// The output stream is not closed by the decoder.
func NewDecoder(os io.Writer) (*Decoder, error) {
	ctx := make(map[string]any)
	return NewDecoderWithCtx(os, ctx)
}

// NewDecoderWithCtx creates a new instance of Decoder using a map of parameters.
// Key "debug" (io.Writer): if present, the bits read are also printed
// to this writer.
func NewDecoderWithCtx(os io.Writer, ctx map[string]any) (*Decoder, error) {
	if os == nil {
		return nil, &IOError{msg: "Invalid null output stream parameter", code: huffman.ERR_CREATE_DECOMPRESSOR}
	}

	debug, err := checkCtx(ctx)

	if err != nil {
		return nil, err
	}

	this := &Decoder{}
	this.os = os
	this.ctx = ctx
	this.debug = debug
	return this, nil
}

// Decode reads the header line and decodes exactly as many bytes as the
// sum of the header counts. Padding bits and any data after the last code
// are ignored. Returns an IOError on failure: its code is ERR_INVALID_HEADER
// for a malformed header and its cause is io.ErrUnexpectedEOF when the
// bitstream ends too early.
func (this *Decoder) Decode(is io.Reader) error {
	if is == nil {
		return &IOError{msg: "Invalid null input stream parameter", code: huffman.ERR_INVALID_PARAM}
	}

	this.read = 0
	this.written = 0
	this.notify(huffman.EVT_DECOMPRESSION_START, -1, 0)
	br, ok := is.(*bufio.Reader)

	if ok == false {
		br = bufio.NewReaderSize(is, _STREAM_BUFFER_SIZE)
	}

	freqs, err := entropy.ReadHeader(br)

	if err != nil {
		return newIOError(err, "Cannot read header", huffman.ERR_READ_FILE)
	}

	total, err := freqs.Total()

	if err != nil {
		return newIOError(err, "Invalid header", huffman.ERR_INVALID_HEADER)
	}

	this.notify(huffman.EVT_AFTER_HEADER_DECODING, int64(total), len(freqs))
	dibs, _ := bitstream.NewDefaultInputBitStream(br)
	var ibs huffman.InputBitStream = dibs

	if this.debug != nil {
		dbs, _ := bitstream.NewDebugInputBitStream(dibs, this.debug)
		dbs.ShowByte(true)
		ibs = dbs
	}

	dec, err := entropy.NewHuffmanDecoder(ibs, freqs)

	if err != nil {
		return newIOError(err, "Cannot create entropy decoder", huffman.ERR_CREATE_DECOMPRESSOR)
	}

	defer dec.Dispose()
	log.Debugf("Header: %d symbols, %d bytes expected", len(freqs), total)
	bw := bufio.NewWriterSize(this.os, _STREAM_BUFFER_SIZE)
	buf := make([]byte, min(total, _STREAM_BUFFER_SIZE))
	remaining := total

	for remaining > 0 {
		chunk := buf[0:min(remaining, uint64(len(buf)))]
		n, err := dec.Read(chunk)

		if _, err := bw.Write(chunk[0:n]); err != nil {
			return newIOError(err, "Cannot write output", huffman.ERR_WRITE_FILE)
		}

		remaining -= uint64(n)

		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) == true {
				msg := fmt.Sprintf("Truncated bitstream: %d of %d bytes decoded", total-remaining, total)
				return &IOError{msg: msg, code: huffman.ERR_READ_FILE, err: err}
			}

			return newIOError(err, "Decoding failed", huffman.ERR_READ_FILE)
		}
	}

	if err := bw.Flush(); err != nil {
		return newIOError(err, "Cannot write output", huffman.ERR_WRITE_FILE)
	}

	this.read = int64((ibs.Read() + 7) >> 3)

	if err := ibs.Close(); err != nil {
		return newIOError(err, "Cannot close bitstream", huffman.ERR_READ_FILE)
	}

	this.written = int64(total)
	log.Debugf("Decompressed %d bytes of bitstream into %d bytes", this.read, this.written)
	this.notify(huffman.EVT_DECOMPRESSION_END, 8*this.written, len(freqs))
	return nil
}

// BytesRead returns the number of bitstream bytes (header excluded)
// consumed by the last call to Decode
func (this *Decoder) BytesRead() int64 {
	return this.read
}

// BytesWritten returns the number of bytes produced by the last call to Decode
func (this *Decoder) BytesWritten() int64 {
	return this.written
}

// EncodeBytes compresses 'src' and returns the header line (terminator
// included) and the packed bitstream separately.
func EncodeBytes(src []byte) (string, []byte, error) {
	var buf bytes.Buffer
	enc, _ := NewEncoder(&buf)

	if err := enc.Encode(bytes.NewReader(src)); err != nil {
		return "", nil, err
	}

	res := buf.Bytes()
	idx := bytes.IndexByte(res, '\n')
	return string(res[0 : idx+1]), res[idx+1:], nil
}

// DecodeBytes decompresses the packed bitstream 'packed' using the frequency
// table in the header line 'header' (terminator included).
func DecodeBytes(header string, packed []byte) ([]byte, error) {
	var buf bytes.Buffer
	dec, _ := NewDecoder(&buf)

	if err := dec.Decode(io.MultiReader(bytes.NewReader([]byte(header)), bytes.NewReader(packed))); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
