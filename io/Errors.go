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

package io

import (
	"errors"
	"fmt"
	"io"

	huffman "github.com/flanglet/huffman-go"
)

// IOError an extended error containing a message, a code value
// and the error that caused it (if any)
type IOError struct {
	msg  string
	code int
	err  error
}

// Error returns the message and the code of the error
func (this IOError) Error() string {
	return fmt.Sprintf("%v (code %v)", this.msg, this.code)
}

// Message returns the message string associated with the error
func (this IOError) Message() string {
	return this.msg
}

// ErrorCode returns the code value associated with the error
func (this IOError) ErrorCode() int {
	return this.code
}

// Unwrap returns the cause of the error (may be nil)
func (this IOError) Unwrap() error {
	return this.err
}

// ErrorCode returns the exit code associated with an error: the code of an
// IOError if there is one in the chain, otherwise the code of the error
// kind. Returns 0 for a nil error.
func ErrorCode(err error) int {
	if err == nil {
		return 0
	}

	var ioErr *IOError

	if errors.As(err, &ioErr) == true {
		return ioErr.code
	}

	switch {
	case errors.Is(err, huffman.ErrEmptyInput):
		return huffman.ERR_EMPTY_INPUT

	case errors.Is(err, huffman.ErrMalformedHeader):
		return huffman.ERR_INVALID_HEADER

	case errors.Is(err, huffman.ErrEncoding):
		return huffman.ERR_ENCODING

	case errors.Is(err, io.ErrUnexpectedEOF):
		return huffman.ERR_READ_FILE
	}

	return huffman.ERR_UNKNOWN
}

// Build an IOError from an error returned by the entropy or bitstream layers.
// The code follows the error kind, 'defaultCode' is used for anything else.
func newIOError(err error, msg string, defaultCode int) *IOError {
	code := defaultCode

	switch {
	case errors.Is(err, huffman.ErrEmptyInput):
		code = huffman.ERR_EMPTY_INPUT

	case errors.Is(err, huffman.ErrMalformedHeader):
		code = huffman.ERR_INVALID_HEADER

	case errors.Is(err, huffman.ErrEncoding):
		code = huffman.ERR_ENCODING
	}

	if err != nil {
		msg = msg + ": " + err.Error()
	}

	return &IOError{msg: msg, code: code, err: err}
}
