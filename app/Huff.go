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
	"io"
	"os"
	"strconv"
	"strings"

	huffman "github.com/flanglet/huffman-go"
	logging "github.com/op/go-logging"
)

const (
	_ARG_IDX_INPUT   = 2
	_ARG_IDX_OUTPUT  = 3
	_ARG_IDX_JOBS    = 4
	_ARG_IDX_VERBOSE = 5
	_HUFF_VERSION    = "1.0"
	_APP_HEADER      = "Huff " + _HUFF_VERSION + " (c) Frederic Langlet"
	_ARG_INPUT       = "--input="
	_ARG_OUTPUT      = "--output="
	_ARG_COMPRESS    = "--compress"
	_ARG_DECOMPRESS  = "--decompress"
	_ARG_VERBOSE     = "--verbose="
	_ARG_JOBS        = "--jobs="
	_ARG_FORCE       = "--force"
)

var (
	_CMD_LINE_ARGS = []string{"-c", "-d", "-i", "-o", "-j", "-v", "-f", "-h"}

	log            = logging.MustGetLogger("huffman/app")
	leveledBackend logging.LeveledBackend
)

func main() {
	argsMap := make(map[string]any)

	if status := processCommandLine(os.Args, argsMap, os.Stdout); status != 0 {
		// Command line processing error ?
		if status < 0 {
			os.Exit(0)
		}

		os.Exit(status)
	}

	// Help mode only ?
	if argsMap["mode"] == nil {
		os.Exit(0)
	}

	startLogging(os.Stderr, argsMap["verbosity"].(uint))
	mode := argsMap["mode"].(string)
	delete(argsMap, "mode")
	status := 1

	if mode == "c" {
		status = compress(argsMap)
	} else if mode == "d" {
		status = decompress(argsMap)
	} else {
		fmt.Println("Missing arguments: try --help or -h")
	}

	os.Exit(status)
}

// Verbosity to log level: 0 => errors only, 1 => notices (default),
// 2 => one line per file, 3 and above => debug messages.
func logLevel(verbosity uint) logging.Level {
	switch verbosity {
	case 0:
		return logging.ERROR
	case 1:
		return logging.NOTICE
	case 2:
		return logging.INFO
	default:
		return logging.DEBUG
	}
}

func startLogging(w io.Writer, verbosity uint) {
	backend := logging.NewLogBackend(w, "", 0)
	formatSpec := "%{level:.4s} %{module:-12s} | %{message}"
	formatter := logging.MustStringFormatter(formatSpec)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logLevel(verbosity), "")
	logging.SetBackend(leveled)
	leveledBackend = leveled
}

func compress(argsMap map[string]any) (code int) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("An unexpected error occurred during compression: %v", r)
			code = huffman.ERR_UNKNOWN
		}
	}()

	fc, err := NewFileCompressor(argsMap)

	if err != nil {
		log.Errorf("Failed to create file compressor: %v", err)
		return huffman.ERR_CREATE_COMPRESSOR
	}

	code, _ = fc.Compress()
	return code
}

func decompress(argsMap map[string]any) (code int) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("An unexpected error occurred during decompression: %v", r)
			code = huffman.ERR_UNKNOWN
		}
	}()

	fd, err := NewFileDecompressor(argsMap)

	if err != nil {
		log.Errorf("Failed to create file decompressor: %v", err)
		return huffman.ERR_CREATE_DECOMPRESSOR
	}

	code, _ = fd.Decompress()
	return code
}

// Parse the command line into 'argsMap'. Returns 0 on success, -1 when
// only the help was requested and an error code otherwise. Messages go
// to 'out' since logging is not configured yet.
func processCommandLine(args []string, argsMap map[string]any, out io.Writer) int {
	verbose := 1
	overwrite := false
	remove := false
	noDotFiles := false
	noLinks := false
	inputName := ""
	outputName := ""
	jobs := -1
	mode := " "
	ctx := -1
	warningNoValOpt := "Warning: ignoring option [%s] with no value.\n"
	warningDupOpt := "Warning: ignoring duplicate %s (%s)\n"
	warningInvalidOpt := "Invalid %s provided on command line: %s\n"

	if len(args) <= 1 {
		printHelp(out, mode)
		return -1
	}

	for i, arg := range args {
		if i == 0 {
			continue
		}

		arg = strings.TrimSpace(arg)

		if arg == "--help" || arg == "-h" {
			printHelp(out, mode)
			return -1
		}

		if arg == _ARG_COMPRESS || arg == "-c" || arg == _ARG_DECOMPRESS || arg == "-d" {
			m := "c"

			if arg == _ARG_DECOMPRESS || arg == "-d" {
				m = "d"
			}

			if mode != " " && mode != m {
				fmt.Fprintln(out, "Both compression and decompression options were provided.")
				return huffman.ERR_INVALID_PARAM
			}

			if ctx != -1 {
				fmt.Fprintf(out, warningNoValOpt, _CMD_LINE_ARGS[ctx])
			}

			mode = m
			ctx = -1
			continue
		}

		if arg == _ARG_FORCE || arg == "-f" || arg == "--rm" || arg == "--no-dot-file" || arg == "--no-link" {
			if ctx != -1 {
				fmt.Fprintf(out, warningNoValOpt, _CMD_LINE_ARGS[ctx])
			}

			switch arg {
			case "--rm":
				remove = true
			case "--no-dot-file":
				noDotFiles = true
			case "--no-link":
				noLinks = true
			default:
				overwrite = true
			}

			ctx = -1
			continue
		}

		if ctx == -1 {
			idx := -1

			for i, v := range _CMD_LINE_ARGS {
				if arg == v {
					idx = i
					break
				}
			}

			if idx != -1 {
				ctx = idx
				continue
			}
		}

		if strings.HasPrefix(arg, _ARG_OUTPUT) || ctx == _ARG_IDX_OUTPUT {
			name := strings.TrimPrefix(arg, _ARG_OUTPUT)

			if outputName != "" {
				fmt.Fprintf(out, warningDupOpt, "output name", name)
			} else {
				outputName = name
			}

			ctx = -1
			continue
		}

		if strings.HasPrefix(arg, _ARG_INPUT) || ctx == _ARG_IDX_INPUT {
			name := strings.TrimPrefix(arg, _ARG_INPUT)

			if inputName != "" {
				fmt.Fprintf(out, warningDupOpt, "input name", name)
			} else {
				inputName = name
			}

			ctx = -1
			continue
		}

		if strings.HasPrefix(arg, _ARG_VERBOSE) || ctx == _ARG_IDX_VERBOSE {
			str := strings.TrimSpace(strings.TrimPrefix(arg, _ARG_VERBOSE))
			var err error

			if verbose, err = strconv.Atoi(str); err != nil || verbose < 0 || verbose > 5 {
				fmt.Fprintf(out, warningInvalidOpt, "verbosity level", str)
				return huffman.ERR_INVALID_PARAM
			}

			ctx = -1
			continue
		}

		if strings.HasPrefix(arg, _ARG_JOBS) || ctx == _ARG_IDX_JOBS {
			str := strings.TrimSpace(strings.TrimPrefix(arg, _ARG_JOBS))

			if jobs != -1 {
				fmt.Fprintf(out, warningDupOpt, "jobs", str)
				ctx = -1
				continue
			}

			var err error

			if jobs, err = strconv.Atoi(str); err != nil || jobs < 0 {
				fmt.Fprintf(out, warningInvalidOpt, "number of jobs", str)
				return huffman.ERR_INVALID_PARAM
			}

			ctx = -1
			continue
		}

		fmt.Fprintf(out, "Warning: ignoring unknown option [%s]\n", arg)
		ctx = -1
	}

	if ctx != -1 {
		fmt.Fprintf(out, warningNoValOpt, _CMD_LINE_ARGS[ctx])
	}

	if mode == " " {
		fmt.Fprintln(out, "Missing compression or decompression mode: try --help or -h")
		return huffman.ERR_MISSING_PARAM
	}

	if len(inputName) == 0 {
		fmt.Fprintln(out, "Missing input file or directory: try --help or -h")
		return huffman.ERR_MISSING_PARAM
	}

	if verbose >= 1 {
		fmt.Fprintf(out, "\n%s\n\n", _APP_HEADER)
	}

	argsMap["mode"] = mode
	argsMap["verbosity"] = uint(verbose)
	argsMap["inputName"] = inputName
	argsMap["outputName"] = outputName

	if overwrite == true {
		argsMap["overwrite"] = true
	}

	if remove == true {
		argsMap["remove"] = true
	}

	if noDotFiles == true {
		argsMap["noDotFiles"] = true
	}

	if noLinks == true {
		argsMap["noLinks"] = true
	}

	if jobs >= 0 {
		argsMap["jobs"] = uint(jobs)
	}

	return 0
}

func printHelp(out io.Writer, mode string) {
	fmt.Fprintf(out, "\n%s\n\n", _APP_HEADER)
	fmt.Fprintln(out, "   -h, --help")
	fmt.Fprint(out, "        Display this message\n\n")

	if mode != "c" && mode != "d" {
		fmt.Fprintln(out, "   -c, --compress")
		fmt.Fprint(out, "        Compress mode\n\n")
		fmt.Fprintln(out, "   -d, --decompress")
		fmt.Fprint(out, "        Decompress mode\n\n")
	}

	fmt.Fprintln(out, "   -i, --input=<inputName>")
	fmt.Fprintln(out, "        Mandatory name of the input file or directory.")
	fmt.Fprintln(out, "        When the source is a directory, all files in it will be processed.")
	fmt.Fprintf(out, "        Provide %c. at the end of the directory name to avoid recursion.\n", os.PathSeparator)
	fmt.Fprintf(out, "        (EG: myDir%c. => no recursion)\n\n", os.PathSeparator)
	fmt.Fprintln(out, "   -o, --output=<outputName>")

	if mode == "c" {
		fmt.Fprintln(out, "        Optional name of the output file or directory (defaults to")
		fmt.Fprint(out, "        <inputName.huff>).\n\n")
	} else if mode == "d" {
		fmt.Fprintln(out, "        Optional name of the output file or directory (defaults to")
		fmt.Fprint(out, "        <inputName.decoded>, with a '.huff' extension removed first).\n\n")
	} else {
		fmt.Fprintln(out, "        Optional name of the output file or directory (defaults to")
		fmt.Fprintln(out, "        <inputName.huff> in compression mode or <inputName.decoded>")
		fmt.Fprint(out, "        in decompression mode).\n\n")
	}

	fmt.Fprintln(out, "   -j, --jobs=<jobs>")
	fmt.Fprintln(out, "        Maximum number of files processed concurrently.")
	fmt.Fprintln(out, "        If 0 is provided, use all available cores (maximum is 64).")
	fmt.Fprint(out, "        (default is half of available cores).\n\n")
	fmt.Fprintln(out, "   -v, --verbose=<level>")
	fmt.Fprintln(out, "        0=silent, 1=default, 2=display details, 3=display configuration,")
	fmt.Fprint(out, "        4=display stage events, 5=display the bits of the bitstream\n\n")
	fmt.Fprintln(out, "   -f, --force")
	fmt.Fprint(out, "        Overwrite the output file if it already exists\n\n")
	fmt.Fprintln(out, "   --rm")
	fmt.Fprint(out, "        Remove the input file after successful processing\n\n")
	fmt.Fprintln(out, "   --no-dot-file")
	fmt.Fprint(out, "        Skip dot files\n\n")
	fmt.Fprintln(out, "   --no-link")
	fmt.Fprint(out, "        Skip links\n\n")

	if mode != "d" {
		fmt.Fprint(out, "EG. huff -c -i foo.txt -v 2\n\n")
		fmt.Fprint(out, "EG. huff --compress --input=foo.txt --output=foo.huff --force --jobs=2\n\n")
	}

	if mode != "c" {
		fmt.Fprint(out, "EG. huff -d -i foo.txt.huff -v 2\n\n")
		fmt.Fprint(out, "EG. huff --decompress --input=foo.txt.huff --output=foo.txt --force\n\n")
	}
}
