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

package main

import (
	"errors"
	"sync"
	"time"

	huffman "github.com/flanglet/huffman-go"
	logging "github.com/op/go-logging"
)

// InfoPrinter is an implementation of Listener logging the stages of the
// compression or decompression of one file (verbose option of the tool).
type InfoPrinter struct {
	name   string
	logger *logging.Logger
	lock   sync.Mutex
	start  time.Time
	last   time.Time
}

// NewInfoPrinter creates a new instance of InfoPrinter for the file 'name'
func NewInfoPrinter(name string, logger *logging.Logger) (*InfoPrinter, error) {
	if logger == nil {
		return nil, errors.New("Invalid null logger parameter")
	}

	this := &InfoPrinter{}
	this.name = name
	this.logger = logger
	return this, nil
}

// ProcessEvent receives an event and logs a summary of the stage it ends
func (this *InfoPrinter) ProcessEvent(evt *huffman.Event) {
	this.lock.Lock()
	defer this.lock.Unlock()

	switch evt.Type() {
	case huffman.EVT_COMPRESSION_START, huffman.EVT_DECOMPRESSION_START:
		this.start = evt.Time()
		this.last = this.start
		return

	case huffman.EVT_AFTER_FREQUENCIES:
		this.logger.Infof("%s: %d bytes, %d distinct symbols [%s]", this.name, evt.Size(), evt.Symbols(), this.elapsed(evt))

	case huffman.EVT_AFTER_CODES:
		this.logger.Infof("%s: codes built, payload of %d bits [%s]", this.name, evt.Size(), this.elapsed(evt))

	case huffman.EVT_AFTER_HEADER_ENCODING:
		this.logger.Infof("%s: header written, %d bytes [%s]", this.name, evt.Size()/8, this.elapsed(evt))

	case huffman.EVT_AFTER_HEADER_DECODING:
		this.logger.Infof("%s: header read, %d bytes expected, %d symbols [%s]", this.name, evt.Size(), evt.Symbols(), this.elapsed(evt))

	case huffman.EVT_COMPRESSION_END, huffman.EVT_DECOMPRESSION_END:
		this.logger.Infof("%s: %d bytes written [%s, total %s]", this.name, evt.Size()/8, this.elapsed(evt),
			evt.Time().Sub(this.start))

	default:
		this.logger.Debugf("%s: %s", this.name, evt.String())
	}
}

func (this *InfoPrinter) elapsed(evt *huffman.Event) time.Duration {
	delta := evt.Time().Sub(this.last)
	this.last = evt.Time()
	return delta
}
