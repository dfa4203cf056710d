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
	"bytes"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	dbs "github.com/dgryski/go-bitstream"
	"github.com/stretchr/testify/require"
)

type failingWriter struct {
	failAfter int
}

func (this *failingWriter) Write(b []byte) (int, error) {
	if this.failAfter <= 0 {
		return 0, errors.New("disk full")
	}

	this.failAfter--
	return len(b), nil
}

// Hides the io.ByteReader implementation of the wrapped reader
type plainReader struct {
	r io.Reader
}

func (this plainReader) Read(b []byte) (int, error) {
	return this.r.Read(b)
}

func TestWriteBitMsbFirst(t *testing.T) {
	var buf bytes.Buffer
	obs, err := NewDefaultOutputBitStream(&buf)
	require.NoError(t, err)

	for _, bit := range []int{1, 0, 1, 1, 0, 0, 0, 1, 1, 1} {
		require.NoError(t, obs.WriteBit(bit))
	}

	// The first byte is emitted as soon as it is complete
	require.Equal(t, []byte{0xB1}, buf.Bytes())
	require.Equal(t, uint64(10), obs.Written())
	require.NoError(t, obs.Close())

	// Last byte left justified and zero padded
	require.Equal(t, []byte{0xB1, 0xC0}, buf.Bytes())
	require.Equal(t, uint64(16), obs.Written())
	require.True(t, obs.Closed())
}

func TestCloseWithoutBits(t *testing.T) {
	var buf bytes.Buffer
	obs, _ := NewDefaultOutputBitStream(&buf)
	require.NoError(t, obs.Close())
	require.Equal(t, 0, buf.Len())

	// Closing twice is a no-op
	require.NoError(t, obs.Close())
	require.Equal(t, 0, buf.Len())
}

func TestWriteAfterClose(t *testing.T) {
	bs := &bytes.Buffer{}
	obs, _ := NewDefaultOutputBitStream(bs)
	require.NoError(t, obs.WriteBit(1))
	require.NoError(t, obs.Close())
	require.ErrorIs(t, obs.WriteBit(1), ErrStreamClosed)

	_, err := obs.WriteBits(3, 2)
	require.ErrorIs(t, err, ErrStreamClosed)

	_, err = obs.WriteArray([]byte{0xFF}, 8)
	require.ErrorIs(t, err, ErrStreamClosed)
}

func TestCloseFlushesBufferedSink(t *testing.T) {
	var sb strings.Builder
	sink := newFlushCounter(&sb)
	obs, _ := NewDefaultOutputBitStream(sink)
	_, err := obs.WriteBits(0x41, 8)
	require.NoError(t, err)
	require.Equal(t, 0, sink.flushes)
	require.NoError(t, obs.Close())
	require.Equal(t, 1, sink.flushes)
	require.Equal(t, "A", sb.String())
}

func TestWriteErrorIsReported(t *testing.T) {
	obs, _ := NewDefaultOutputBitStream(&failingWriter{failAfter: 1})
	_, err := obs.WriteBits(0xABCD, 16)
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")
}

func TestInvalidBitCount(t *testing.T) {
	var buf bytes.Buffer
	obs, _ := NewDefaultOutputBitStream(&buf)
	_, err := obs.WriteBits(0, 0)
	require.Error(t, err)
	_, err = obs.WriteBits(0, 65)
	require.Error(t, err)
	_, err = obs.WriteArray([]byte{1}, 9)
	require.Error(t, err)

	ibs, _ := NewDefaultInputBitStream(bytes.NewReader([]byte{1}))
	_, err = ibs.ReadBits(0)
	require.Error(t, err)
}

func TestNullStreams(t *testing.T) {
	_, err := NewDefaultOutputBitStream(nil)
	require.Error(t, err)
	_, err = NewDefaultInputBitStream(nil)
	require.Error(t, err)
}

func TestReadBitEndOfStream(t *testing.T) {
	for _, r := range []io.Reader{bytes.NewReader([]byte{0xA5}), plainReader{bytes.NewReader([]byte{0xA5})}} {
		ibs, err := NewDefaultInputBitStream(r)
		require.NoError(t, err)
		bits := make([]int, 0, 8)

		for {
			bit, err := ibs.ReadBit()

			if err == io.EOF {
				break
			}

			require.NoError(t, err)
			bits = append(bits, bit)
		}

		require.Equal(t, []int{1, 0, 1, 0, 0, 1, 0, 1}, bits)
		require.Equal(t, uint64(8), ibs.Read())

		// End of stream is sticky
		_, err = ibs.ReadBit()
		require.Equal(t, io.EOF, err)
		more, err := ibs.HasMoreToRead()
		require.NoError(t, err)
		require.False(t, more)
	}
}

func TestReadBitsTruncated(t *testing.T) {
	ibs, _ := NewDefaultInputBitStream(bytes.NewReader([]byte{0xFF}))
	v, err := ibs.ReadBits(4)
	require.NoError(t, err)
	require.Equal(t, uint64(0xF), v)

	_, err = ibs.ReadBits(8)
	require.Equal(t, io.ErrUnexpectedEOF, err)

	_, err = ibs.ReadBits(1)
	require.Equal(t, io.EOF, err)
}

func TestReadAfterClose(t *testing.T) {
	ibs, _ := NewDefaultInputBitStream(bytes.NewReader([]byte{0xFF, 0xFF}))
	_, err := ibs.ReadBits(3)
	require.NoError(t, err)
	require.NoError(t, ibs.Close())
	require.True(t, ibs.Closed())
	require.Equal(t, uint64(3), ibs.Read())

	_, err = ibs.ReadBit()
	require.ErrorIs(t, err, ErrStreamClosed)
	_, err = ibs.HasMoreToRead()
	require.ErrorIs(t, err, ErrStreamClosed)
}

func TestRandomRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(12345))

	for test := 0; test < 20; test++ {
		bs := &bytes.Buffer{}
		obs, _ := NewDefaultOutputBitStream(bs)
		values := make([]uint64, 200)
		lengths := make([]uint, len(values))
		total := uint64(0)

		for i := range values {
			lengths[i] = uint(1 + rnd.Intn(64))
			values[i] = rnd.Uint64() & (0xFFFFFFFFFFFFFFFF >> (64 - lengths[i]))
			_, err := obs.WriteBits(values[i], lengths[i])
			require.NoError(t, err)
			total += uint64(lengths[i])
		}

		require.Equal(t, total, obs.Written())
		require.NoError(t, obs.Close())
		require.Equal(t, int((total+7)>>3), bs.Len())

		ibs, _ := NewDefaultInputBitStream(bs)

		for i := range values {
			v, err := ibs.ReadBits(lengths[i])
			require.NoError(t, err)
			require.Equal(t, values[i], v, "value #%d", i)
		}

		require.Equal(t, total, ibs.Read())
	}
}

func TestWriteArrayAlignedAndMisaligned(t *testing.T) {
	src := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0xF0}

	// Aligned: whole bytes then a 4 bit tail
	var buf1 bytes.Buffer
	obs, _ := NewDefaultOutputBitStream(&buf1)
	n, err := obs.WriteArray(src, 36)
	require.NoError(t, err)
	require.Equal(t, uint(36), n)
	require.NoError(t, obs.Close())
	require.Equal(t, src, buf1.Bytes())

	// Misaligned by one bit
	var buf2 bytes.Buffer
	obs, _ = NewDefaultOutputBitStream(&buf2)
	require.NoError(t, obs.WriteBit(1))
	_, err = obs.WriteArray(src, 36)
	require.NoError(t, err)
	require.NoError(t, obs.Close())

	ibs, _ := NewDefaultInputBitStream(bytes.NewReader(buf2.Bytes()))
	first, _ := ibs.ReadBit()
	require.Equal(t, 1, first)

	for _, b := range src[0:4] {
		v, err := ibs.ReadBits(8)
		require.NoError(t, err)
		require.Equal(t, uint64(b), v)
	}

	v, err := ibs.ReadBits(4)
	require.NoError(t, err)
	require.Equal(t, uint64(0xF), v)
}

func TestInteropWithReferenceReader(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	bits := make([]int, 1001)

	for i := range bits {
		bits[i] = rnd.Intn(2)
	}

	var buf bytes.Buffer
	obs, _ := NewDefaultOutputBitStream(&buf)

	for _, b := range bits {
		require.NoError(t, obs.WriteBit(b))
	}

	require.NoError(t, obs.Close())

	// Same bytes as the reference writer padding with zeros
	var ref bytes.Buffer
	bw := dbs.NewWriter(&ref)

	for _, b := range bits {
		require.NoError(t, bw.WriteBit(dbs.Bit(b == 1)))
	}

	require.NoError(t, bw.Flush(dbs.Zero))
	require.Equal(t, ref.Bytes(), buf.Bytes())

	// The reference reader sees the same bits
	br := dbs.NewReader(bytes.NewReader(buf.Bytes()))

	for i, b := range bits {
		bit, err := br.ReadBit()
		require.NoError(t, err)
		require.Equal(t, b == 1, bool(bit), "bit #%d", i)
	}
}

func TestInteropWithReferenceWriter(t *testing.T) {
	var ref bytes.Buffer
	bw := dbs.NewWriter(&ref)
	require.NoError(t, bw.WriteBits(0x5, 3))
	require.NoError(t, bw.WriteBits(0x1234, 13))
	require.NoError(t, bw.WriteBits(0x1, 1))
	require.NoError(t, bw.Flush(dbs.Zero))

	ibs, _ := NewDefaultInputBitStream(bytes.NewReader(ref.Bytes()))
	v, err := ibs.ReadBits(3)
	require.NoError(t, err)
	require.Equal(t, uint64(0x5), v)
	v, err = ibs.ReadBits(13)
	require.NoError(t, err)
	require.Equal(t, uint64(0x1234), v)
	v, err = ibs.ReadBits(1)
	require.NoError(t, err)
	require.Equal(t, uint64(1), v)

	// Padding bits are still readable, then the stream ends
	for i := 0; i < 7; i++ {
		bit, err := ibs.ReadBit()
		require.NoError(t, err)
		require.Equal(t, 0, bit)
	}

	_, err = ibs.ReadBit()
	require.Equal(t, io.EOF, err)
}

func TestDebugBitStreams(t *testing.T) {
	var buf bytes.Buffer
	var trace strings.Builder
	obs, _ := NewDefaultOutputBitStream(&buf)
	dbgobs, err := NewDebugOutputBitStream(obs, &trace)
	require.NoError(t, err)
	dbgobs.ShowByte(true)
	_, err = dbgobs.WriteBits(0xB1, 8)
	require.NoError(t, err)
	require.NoError(t, dbgobs.WriteBit(1))
	require.NoError(t, dbgobs.Close())
	require.Equal(t, uint64(16), dbgobs.Written())
	require.Equal(t, "10110001 [177] 1\n", trace.String())

	trace.Reset()
	ibs, _ := NewDefaultInputBitStream(bytes.NewReader(buf.Bytes()))
	dbgibs, err := NewDebugInputBitStream(ibs, &trace)
	require.NoError(t, err)
	dbgibs.Mark(true)
	v, err := dbgibs.ReadBits(4)
	require.NoError(t, err)
	require.Equal(t, uint64(0xB), v)
	require.Equal(t, "1011r", trace.String())
	require.Equal(t, uint64(4), dbgibs.Read())
	require.NoError(t, dbgibs.Close())

	_, err = NewDebugOutputBitStream(nil, &trace)
	require.Error(t, err)
	_, err = NewDebugInputBitStream(ibs, nil)
	require.Error(t, err)
}

type flushCounter struct {
	w       io.Writer
	pending []byte
	flushes int
}

func newFlushCounter(w io.Writer) *flushCounter {
	return &flushCounter{w: w}
}

func (this *flushCounter) Write(b []byte) (int, error) {
	this.pending = append(this.pending, b...)
	return len(b), nil
}

func (this *flushCounter) Flush() error {
	this.flushes++
	_, err := this.w.Write(this.pending)
	this.pending = this.pending[:0]
	return err
}
