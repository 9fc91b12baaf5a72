// Command radio is the DAB/DAB+ receiver's entry point: it tunes in on a
// stream of I/Q samples or pre-demodulated soft bits, decodes the ensemble,
// and serves the live ensemble database plus PAD events over HTTP/WebSocket.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
