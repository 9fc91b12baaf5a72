// Command convert-viterbi transforms between hard bytes and soft viterbi
// bits, matching the original decoder's app_helpers converter tool:
// one soft byte per bit (hard_to_soft) or one bit per soft byte
// (soft_to_hard), 8 bits per byte, LSB-first.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/dabradio/dabradio/internal/viterbi"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	flags := pflag.NewFlagSet("convert-viterbi", pflag.ContinueOnError)
	convType := flags.String("type", "", "conversion direction: soft_to_hard or hard_to_soft")
	inPath := flags.StringP("input", "i", "", "input file (default stdin)")
	outPath := flags.StringP("output", "o", "", "output file (default stdout)")
	blockBytes := flags.IntP("block-bytes", "n", 8192, "read block size in bytes")
	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var convert func([]byte) []byte
	switch *convType {
	case "hard_to_soft":
		convert = func(b []byte) []byte {
			bits := viterbi.BytesToSoftBits(b)
			out := make([]byte, len(bits))
			for i, v := range bits {
				out[i] = byte(v)
			}
			return out
		}
	case "soft_to_hard":
		convert = func(b []byte) []byte {
			bits := make([]viterbi.SoftBit, len(b))
			for i, v := range b {
				bits[i] = viterbi.SoftBit(int8(v))
			}
			return viterbi.SoftBitsToBytes(bits)
		}
	default:
		fmt.Fprintf(os.Stderr, "convert-viterbi: --type must be soft_to_hard or hard_to_soft\n")
		return 1
	}

	in := stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer f.Close()
		in = f
	}

	out := stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer f.Close()
		out = f
	}

	// soft_to_hard consumes 8 input bytes per output byte; align the read
	// block so a partial trailing group is never split across reads.
	readSize := *blockBytes
	if *convType == "soft_to_hard" {
		readSize -= readSize % 8
		if readSize == 0 {
			readSize = 8
		}
	}

	buf := make([]byte, readSize)
	for {
		n, err := io.ReadFull(in, buf)
		if n > 0 {
			chunk := buf[:n]
			if *convType == "soft_to_hard" {
				chunk = chunk[:n-n%8]
			}
			if len(chunk) > 0 {
				if _, werr := out.Write(convert(chunk)); werr != nil {
					fmt.Fprintln(os.Stderr, werr)
					return 1
				}
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
}
