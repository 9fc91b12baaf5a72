// Command loop-file replays a file to stdout (or another file) in an
// infinite loop, rewinding to the start on every short read — useful for
// feeding a fixed capture to the radio receiver as if it were a live,
// unending stream.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("loop-file", pflag.ContinueOnError)
	outPath := flags.StringP("output", "o", "", "output file (default stdout)")
	blockBytes := flags.IntP("block-size", "n", 8192, "bytes read per block")
	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if flags.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "loop-file: missing required INPUT_FILENAME argument")
		return 1
	}
	if *blockBytes <= 0 {
		fmt.Fprintln(os.Stderr, "loop-file: block size cannot be zero")
		return 1
	}

	in, err := os.Open(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "loop-file: failed to open input file %q: %v\n", flags.Arg(0), err)
		return 1
	}
	defer in.Close()

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loop-file: failed to open output file %q: %v\n", *outPath, err)
			return 1
		}
		defer f.Close()
		out = f
	}

	block := make([]byte, *blockBytes)
	for {
		n, readErr := in.Read(block)
		if n > 0 {
			if _, err := out.Write(block[:n]); err != nil {
				fmt.Fprintf(os.Stderr, "loop-file: failed to write block: %v\n", err)
				return 1
			}
		}
		if n != *blockBytes {
			if _, err := in.Seek(0, io.SeekStart); err != nil {
				fmt.Fprintf(os.Stderr, "loop-file: failed to rewind input: %v\n", err)
				return 1
			}
		}
		if readErr != nil && readErr != io.EOF && n == 0 {
			// a genuine read error (not a short read at EOF) is fatal
			fmt.Fprintf(os.Stderr, "loop-file: read error: %v\n", readErr)
			return 1
		}
	}
}
