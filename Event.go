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

import (
	"fmt"
	"time"
)

const (
	EVT_COMPRESSION_START     = 0 // Compression starts
	EVT_DECOMPRESSION_START   = 1 // Decompression starts
	EVT_AFTER_FREQUENCIES     = 2 // Frequency table computed
	EVT_AFTER_CODES           = 3 // Tree and code table built
	EVT_AFTER_HEADER_ENCODING = 4 // Header written
	EVT_AFTER_HEADER_DECODING = 5 // Header parsed
	EVT_COMPRESSION_END       = 6 // Compression ends
	EVT_DECOMPRESSION_END     = 7 // Decompression ends
)

// Event a compression/decompression event
type Event struct {
	eventType int
	size      int64
	symbols   int
	eventTime time.Time
}

// NewEvent creates a new Event instance with size and alphabet info.
// The meaning of 'size' depends on the event type: number of input bytes
// for start events and frequency events, number of bits for header
// and end events.
func NewEvent(evtType int, size int64, symbols int, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, size: size, symbols: symbols, eventTime: evtTime}
}

// Type returns the type info
func (this *Event) Type() int {
	return this.eventType
}

// Time returns the time info
func (this *Event) Time() time.Time {
	return this.eventTime
}

// Size returns the size info
func (this *Event) Size() int64 {
	return this.size
}

// Symbols returns the number of distinct symbols (0 if not applicable)
func (this *Event) Symbols() int {
	return this.symbols
}

// String returns a string representation of this event
func (this *Event) String() string {
	t := ""

	switch this.eventType {
	case EVT_COMPRESSION_START:
		t = "COMPRESSION_START"

	case EVT_DECOMPRESSION_START:
		t = "DECOMPRESSION_START"

	case EVT_AFTER_FREQUENCIES:
		t = "AFTER_FREQUENCIES"

	case EVT_AFTER_CODES:
		t = "AFTER_CODES"

	case EVT_AFTER_HEADER_ENCODING:
		t = "AFTER_HEADER_ENCODING"

	case EVT_AFTER_HEADER_DECODING:
		t = "AFTER_HEADER_DECODING"

	case EVT_COMPRESSION_END:
		t = "COMPRESSION_END"

	case EVT_DECOMPRESSION_END:
		t = "DECOMPRESSION_END"
	}

	return fmt.Sprintf("{ \"type\":\"%s\", \"size\":%d, \"symbols\":%d, \"time\":%d }", t, this.size,
		this.symbols, this.eventTime.UnixNano()/1000000)
}

// Listener is an interface implemented by event processors
type Listener interface {
	ProcessEvent(evt *Event)
}
