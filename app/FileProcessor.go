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
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	huffman "github.com/flanglet/huffman-go"
	"github.com/flanglet/huffman-go/internal"
	hio "github.com/flanglet/huffman-go/io"
)

const _MAX_CONCURRENCY = 64

// fileProcessor holds the options shared by FileCompressor and FileDecompressor
type fileProcessor struct {
	verbosity    uint
	overwrite    bool
	removeSource bool
	noDotFiles   bool
	noLinks      bool
	inputName    string
	outputName   string
	jobs         uint
	listeners    []huffman.Listener
}

// FileCompressor compresses a file or the files of a directory
type FileCompressor struct {
	fileProcessor
}

// FileDecompressor decompresses a file or the files of a directory
type FileDecompressor struct {
	fileProcessor
}

// NewFileCompressor creates a new instance of FileCompressor given
// a map of argument name/value pairs.
func NewFileCompressor(argsMap map[string]any) (*FileCompressor, error) {
	this := &FileCompressor{}

	if err := this.init(argsMap); err != nil {
		return nil, err
	}

	return this, nil
}

// NewFileDecompressor creates a new instance of FileDecompressor given
// a map of argument name/value pairs.
func NewFileDecompressor(argsMap map[string]any) (*FileDecompressor, error) {
	this := &FileDecompressor{}

	if err := this.init(argsMap); err != nil {
		return nil, err
	}

	return this, nil
}

// Compress compresses the file(s) provided at construction. Files may be
// processed concurrently depending on the number of jobs.
// Returns exit code and total number of bytes written.
func (this *FileCompressor) Compress() (int, int64) {
	return this.process(true)
}

// Decompress decompresses the file(s) provided at construction. Files may be
// processed concurrently depending on the number of jobs.
// Returns exit code and total number of bytes written.
func (this *FileDecompressor) Decompress() (int, int64) {
	return this.process(false)
}

func (this *fileProcessor) init(argsMap map[string]any) error {
	this.listeners = make([]huffman.Listener, 0)

	if force, prst := argsMap["overwrite"]; prst == true {
		this.overwrite = force.(bool)
		delete(argsMap, "overwrite")
	}

	if rmSrc, prst := argsMap["remove"]; prst == true {
		this.removeSource = rmSrc.(bool)
		delete(argsMap, "remove")
	}

	if noDot, prst := argsMap["noDotFiles"]; prst == true {
		this.noDotFiles = noDot.(bool)
		delete(argsMap, "noDotFiles")
	}

	if noLink, prst := argsMap["noLinks"]; prst == true {
		this.noLinks = noLink.(bool)
		delete(argsMap, "noLinks")
	}

	this.inputName, _ = argsMap["inputName"].(string)
	delete(argsMap, "inputName")

	if len(this.inputName) == 0 {
		return fmt.Errorf("Missing input name")
	}

	if internal.IsReservedName(this.inputName) {
		return fmt.Errorf("'%s' is a reserved name", this.inputName)
	}

	this.outputName, _ = argsMap["outputName"].(string)
	delete(argsMap, "outputName")

	if internal.IsReservedName(this.outputName) {
		return fmt.Errorf("'%s' is a reserved name", this.outputName)
	}

	this.verbosity, _ = argsMap["verbosity"].(uint)
	delete(argsMap, "verbosity")
	concurrency := uint(1)

	if c, prst := argsMap["jobs"].(uint); prst == true {
		delete(argsMap, "jobs")
		concurrency = c

		if c == 0 {
			concurrency = uint(runtime.NumCPU()) // use all cores
		} else if c > _MAX_CONCURRENCY {
			log.Warningf("The number of jobs is too high, defaulting to %d", _MAX_CONCURRENCY)
			concurrency = _MAX_CONCURRENCY
		}
	} else if runtime.NumCPU() > 1 {
		concurrency = uint(runtime.NumCPU() / 2) // defaults to half the cores
	}

	this.jobs = min(concurrency, _MAX_CONCURRENCY)

	for k := range argsMap {
		log.Warningf("Ignoring invalid option [%s]", k)
	}

	return nil
}

// AddListener adds an event listener notified for every file processed.
// Returns true if the listener has been added.
func (this *fileProcessor) AddListener(bl huffman.Listener) bool {
	if bl == nil {
		return false
	}

	this.listeners = append(this.listeners, bl)
	return true
}

// RemoveListener removes an event listener.
// Returns true if the listener has been removed.
func (this *fileProcessor) RemoveListener(bl huffman.Listener) bool {
	for i, e := range this.listeners {
		if e == bl {
			this.listeners = append(this.listeners[:i], this.listeners[i+1:]...)
			return true
		}
	}

	return false
}

func (this *fileProcessor) process(compress bool) (int, int64) {
	before := time.Now()
	action := "decompress"
	rename := internal.DecompressedName

	if compress == true {
		action = "compress"
		rename = internal.CompressedName
	}

	// A trailing "/." disables recursion
	suffix := string([]byte{os.PathSeparator, '.'})
	target := this.inputName
	isRecursive := len(target) <= 2 || strings.HasSuffix(target, suffix) == false

	if isRecursive == false {
		target = target[0 : len(target)-1]
	}

	files, err := internal.CreateFileList(target, nil, isRecursive, this.noLinks, this.noDotFiles)

	if err != nil {
		log.Errorf("Cannot access input file '%s': %v", this.inputName, err)
		return huffman.ERR_OPEN_FILE, 0
	}

	if len(files) == 0 {
		log.Errorf("Cannot open input file '%s'", this.inputName)
		return huffman.ERR_OPEN_FILE, 0
	}

	nbFiles := len(files)

	if nbFiles > 1 {
		log.Noticef("%d files to %s", nbFiles, action)
	} else {
		log.Noticef("%d file to %s", nbFiles, action)
	}

	inputRoot := ""

	if fi, err := os.Stat(target); err == nil && fi.IsDir() == true {
		inputRoot = target

		if len(this.outputName) > 0 {
			fo, err := os.Stat(this.outputName)

			if err != nil {
				log.Errorf("Output must be an existing directory")
				return huffman.ERR_OPEN_FILE, 0
			}

			if fo.IsDir() == false {
				log.Errorf("Output must be a directory")
				return huffman.ERR_CREATE_FILE, 0
			}
		}
	} else if len(this.outputName) > 0 {
		if fo, err := os.Stat(this.outputName); err == nil && fo.IsDir() == true {
			log.Errorf("Output must be a file")
			return huffman.ERR_OUTPUT_IS_DIR, 0
		}
	}

	// Limit verbosity level when files are processed concurrently
	if this.jobs > 1 && nbFiles > 1 && this.verbosity > 1 {
		log.Warning("Limiting verbosity to 1 due to concurrent processing of input files")
		this.verbosity = 1

		if leveledBackend != nil {
			leveledBackend.SetLevel(logLevel(this.verbosity), "")
		}
	}

	log.Debugf("Verbosity: %d", this.verbosity)
	log.Debugf("Overwrite: %t", this.overwrite)
	log.Debugf("Using %d job(s)", this.jobs)

	ctx := make(map[string]any)

	if this.verbosity > 4 {
		ctx["debug"] = os.Stderr
	}

	internal.SortFiles(files)
	tasks := make(chan fileTask, nbFiles)
	results := make(chan fileTaskResult, nbFiles)
	cancel := make(chan struct{})

	for _, f := range files {
		taskCtx := make(map[string]any)

		for k, v := range ctx {
			taskCtx[k] = v
		}

		// Push task to channel. The workers are the consumers.
		tasks <- fileTask{
			inputName:  f.FullPath,
			outputName: internal.OutputName(f.FullPath, inputRoot, this.outputName, rename),
			compress:   compress,
			overwrite:  this.overwrite,
			remove:     this.removeSource,
			createDir:  len(inputRoot) > 0 && len(this.outputName) > 0,
			verbosity:  this.verbosity,
			ctx:        taskCtx,
			listeners:  this.listeners,
		}
	}

	close(tasks)

	// Create one worker per job. A worker calls several tasks sequentially.
	for j := uint(0); j < min(this.jobs, uint(nbFiles)); j++ {
		go fileWorker(tasks, cancel, results)
	}

	res := 0
	read := int64(0)
	written := int64(0)

	// Wait for all task results
	for i := 0; i < nbFiles; i++ {
		result := <-results
		read += result.read
		written += result.written

		if result.code != 0 {
			// Exit early
			res = result.code
			break
		}
	}

	close(cancel)

	if nbFiles > 1 {
		delta := time.Since(before).Milliseconds()
		log.Noticef("Total %sion time: %s", action, formatDuration(delta))
		log.Noticef("Total input size: %d bytes", read)
		log.Noticef("Total output size: %d bytes", written)
	}

	return res, written
}

func formatDuration(ms int64) string {
	if ms >= 100000 {
		return fmt.Sprintf("%.1f s", float64(ms)/1000)
	}

	return fmt.Sprintf("%d ms", ms)
}

type fileTask struct {
	inputName  string
	outputName string
	compress   bool
	overwrite  bool
	remove     bool
	createDir  bool // replicate the input tree under the output directory
	verbosity  uint
	ctx        map[string]any
	listeners  []huffman.Listener
}

type fileTaskResult struct {
	code    int
	read    int64
	written int64
	err     error
}

func fileWorker(tasks <-chan fileTask, cancel <-chan struct{}, results chan<- fileTaskResult) {
	// Pull tasks from channel and run them
	for {
		select {
		case <-cancel:
			return

		case t, more := <-tasks:
			if more == false {
				return
			}

			res := t.call()
			results <- res

			if res.code != 0 {
				return
			}
		}
	}
}

func (this *fileTask) call() fileTaskResult {
	listeners := this.listeners

	if this.verbosity > 3 {
		if ip, err := NewInfoPrinter(this.inputName, log); err == nil {
			listeners = append(append([]huffman.Listener{}, listeners...), ip)
		}
	}

	if this.createDir == true {
		if err := os.MkdirAll(filepath.Dir(this.outputName), 0755); err != nil {
			log.Errorf("Cannot create output directory for '%s': %v", this.outputName, err)
			return fileTaskResult{code: huffman.ERR_CREATE_FILE, err: err}
		}
	}

	if this.compress == true {
		if format, compressed, err := internal.DetectFileFormat(this.inputName); err == nil && compressed == true {
			log.Warningf("%s: %s data is already compressed, expect a poor ratio", this.inputName, format)
		}
	}

	before := time.Now()
	var stats hio.FileStats
	var err error

	if this.compress == true {
		stats, err = hio.EncodeFileWithCtx(this.inputName, this.outputName, this.overwrite, this.ctx, listeners...)
	} else {
		stats, err = hio.DecodeFileWithCtx(this.inputName, this.outputName, this.overwrite, this.ctx, listeners...)
	}

	if err != nil {
		log.Errorf("%s: %v", this.inputName, err)
		return fileTaskResult{code: hio.ErrorCode(err), err: err}
	}

	delta := time.Since(before).Milliseconds()

	if this.compress == true && stats.Read > 0 {
		log.Infof("%s: %d => %d bytes (%.2f%%) in %s", this.inputName, stats.Read, stats.Written,
			100*float64(stats.Written)/float64(stats.Read), formatDuration(delta))
	} else {
		log.Infof("%s: %d => %d bytes in %s", this.inputName, stats.Read, stats.Written, formatDuration(delta))
	}

	if this.remove == true {
		if err := os.Remove(this.inputName); err != nil {
			log.Warningf("Cannot remove input file '%s': %v", this.inputName, err)
		} else {
			log.Debugf("Removed input file '%s'", this.inputName)
		}
	}

	return fileTaskResult{read: stats.Read, written: stats.Written}
}
