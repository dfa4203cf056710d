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
	"fmt"
	"io"
	"os"
	"path/filepath"

	huffman "github.com/flanglet/huffman-go"
)

// FileStats holds the sizes of the input and the output of a file operation
type FileStats struct {
	Read    int64
	Written int64
}

// EncodeFile compresses the file 'input' into the file 'output'. An existing
// output file is replaced only if 'overwrite' is true. No output file is
// left behind when compression fails.
func EncodeFile(input, output string, overwrite bool) error {
	_, err := EncodeFileWithCtx(input, output, overwrite, make(map[string]any))
	return err
}

// DecodeFile decompresses the file 'input' into the file 'output'. An existing
// output file is replaced only if 'overwrite' is true. No output file is
// left behind when decompression fails.
func DecodeFile(input, output string, overwrite bool) error {
	_, err := DecodeFileWithCtx(input, output, overwrite, make(map[string]any))
	return err
}

// EncodeFileWithCtx is EncodeFile with a map of parameters (see NewEncoderWithCtx)
// and event listeners. Returns the number of bytes read and written.
func EncodeFileWithCtx(input, output string, overwrite bool, ctx map[string]any, listeners ...huffman.Listener) (FileStats, error) {
	var stats FileStats

	err := processFile(input, output, overwrite, func(r io.Reader, w io.Writer) error {
		enc, err := NewEncoderWithCtx(w, ctx)

		if err != nil {
			return err
		}

		for _, bl := range listeners {
			enc.AddListener(bl)
		}

		if err = enc.Encode(r); err != nil {
			return err
		}

		stats = FileStats{Read: enc.BytesRead(), Written: enc.BytesWritten()}
		return nil
	})

	return stats, err
}

// DecodeFileWithCtx is DecodeFile with a map of parameters (see NewDecoderWithCtx)
// and event listeners. Returns the number of bytes read and written.
func DecodeFileWithCtx(input, output string, overwrite bool, ctx map[string]any, listeners ...huffman.Listener) (FileStats, error) {
	var stats FileStats

	err := processFile(input, output, overwrite, func(r io.Reader, w io.Writer) error {
		dec, err := NewDecoderWithCtx(w, ctx)

		if err != nil {
			return err
		}

		for _, bl := range listeners {
			dec.AddListener(bl)
		}

		if err = dec.Decode(r); err != nil {
			return err
		}

		stats = FileStats{Written: dec.BytesWritten()}
		return nil
	})

	if err == nil {
		if fi, e := os.Stat(input); e == nil {
			stats.Read = fi.Size()
		}
	}

	return stats, err
}

// Open the input, write the output to a temporary file in the output
// directory and rename it on success. Every handle is closed on return.
func processFile(input, output string, overwrite bool, process func(io.Reader, io.Writer) error) error {
	iFile, err := openInput(input)

	if err != nil {
		return err
	}

	defer iFile.Close()

	if err := checkOutput(input, output, overwrite); err != nil {
		return err
	}

	oFile, err := os.CreateTemp(filepath.Dir(output), "."+filepath.Base(output)+".*.tmp")

	if err != nil {
		return &IOError{msg: fmt.Sprintf("Cannot create output file '%s': %v", output, err), code: huffman.ERR_CREATE_FILE, err: err}
	}

	tmpName := oFile.Name()
	success := false

	defer func() {
		if success == false {
			oFile.Close()
			os.Remove(tmpName)
		}
	}()

	if err := process(iFile, oFile); err != nil {
		return err
	}

	if err := oFile.Close(); err != nil {
		return &IOError{msg: fmt.Sprintf("Cannot close output file '%s': %v", output, err), code: huffman.ERR_WRITE_FILE, err: err}
	}

	if err := os.Rename(tmpName, output); err != nil {
		return &IOError{msg: fmt.Sprintf("Cannot create output file '%s': %v", output, err), code: huffman.ERR_CREATE_FILE, err: err}
	}

	success = true
	return nil
}

func openInput(input string) (*os.File, error) {
	fi, err := os.Stat(input)

	if err != nil {
		return nil, &IOError{msg: fmt.Sprintf("Cannot access input file '%s'", input), code: huffman.ERR_OPEN_FILE, err: err}
	}

	if fi.IsDir() == true {
		return nil, &IOError{msg: fmt.Sprintf("Input file '%s' is a directory", input), code: huffman.ERR_OPEN_FILE}
	}

	iFile, err := os.Open(input)

	if err != nil {
		return nil, &IOError{msg: fmt.Sprintf("Cannot open input file '%s': %v", input, err), code: huffman.ERR_OPEN_FILE, err: err}
	}

	return iFile, nil
}

func checkOutput(input, output string, overwrite bool) error {
	fo, err := os.Stat(output)

	if err != nil {
		// Does not exist yet
		return nil
	}

	if fo.IsDir() == true {
		return &IOError{msg: fmt.Sprintf("Output file '%s' is a directory", output), code: huffman.ERR_OUTPUT_IS_DIR}
	}

	if fi, err := os.Stat(input); err == nil && os.SameFile(fi, fo) == true {
		return &IOError{msg: fmt.Sprintf("The input and output files must be different: '%s'", output), code: huffman.ERR_CREATE_FILE}
	}

	if overwrite == false {
		return &IOError{msg: fmt.Sprintf("File '%s' exists and the 'force' command line option has not been provided", output), code: huffman.ERR_OVERWRITE_FILE}
	}

	return nil
}
