package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dabradio/dabradio/internal/dabparams"
	"github.com/dabradio/dabradio/internal/ingest"
	"github.com/dabradio/dabradio/internal/radio"
	"github.com/dabradio/dabradio/internal/server"
)

func newRunCommand() *cobra.Command {
	var (
		mode        string
		inputPath   string
		inputFormat string
		addr        string
		staticDir   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Tune in, decode, and serve the ensemble",
		RunE: func(cmd *cobra.Command, args []string) error {
			txMode, err := parseMode(mode)
			if err != nil {
				return err
			}
			params, err := dabparams.ForMode(txMode)
			if err != nil {
				return err
			}

			in := os.Stdin
			if inputPath != "" {
				f, err := os.Open(inputPath)
				if err != nil {
					return fmt.Errorf("radio run: open input: %w", err)
				}
				defer f.Close()
				in = f
			}

			rd := radio.New(params)
			handlers := server.NewHandlers(rd)
			srv := server.NewServer(addr, handlers, staticDir)

			go func() {
				if err := srv.Start(); err != nil {
					slog.Error("server exited", "error", err)
				}
			}()

			return runPipeline(params, rd, handlers, in, inputFormat)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "I", "transmission mode: I, II, III, IV")
	cmd.Flags().StringVar(&inputPath, "input", "", "input file (default stdin)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "iq-float32", "iq-float32, iq-uint8, or softbits")
	cmd.Flags().StringVar(&addr, "addr", "0.0.0.0:8080", "HTTP server address")
	cmd.Flags().StringVar(&staticDir, "static-dir", "./web/static", "static web asset directory")
	return cmd
}

func parseMode(s string) (dabparams.TransmissionMode, error) {
	switch s {
	case "I", "1":
		return dabparams.ModeI, nil
	case "II", "2":
		return dabparams.ModeII, nil
	case "III", "3":
		return dabparams.ModeIII, nil
	case "IV", "4":
		return dabparams.ModeIV, nil
	default:
		return 0, fmt.Errorf("radio run: unknown transmission mode %q", s)
	}
}

// runPipeline dispatches on the input format: pre-demodulated soft bits
// skip straight to per-frame processing, while raw I/Q samples are driven
// through the full synchronizer/demodulator pipeline.
func runPipeline(params dabparams.Params, rd *radio.Radio, handlers *server.Handlers, in io.Reader, format string) error {
	if format == "softbits" {
		return runSoftBitPipeline(params, rd, handlers, in)
	}

	var src radio.SampleSource
	switch format {
	case "iq-float32":
		src = ingest.NewIQReaderFloat32(in)
	case "iq-uint8":
		src = ingest.NewIQReaderUint8(in)
	default:
		return fmt.Errorf("radio run: unknown input format %q", format)
	}

	rv := radio.NewReceiver(params, rd, handlers.OnAudioChannel, nil)
	return rv.Run(src)
}

func runSoftBitPipeline(params dabparams.Params, rd *radio.Radio, handlers *server.Handlers, in io.Reader) error {
	frameBits := params.NbFrameBits + params.FicBitsPerFrame()
	sr := ingest.NewSoftBitReader(in, frameBits)
	for {
		bits, err := sr.ReadFrame()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		db := rd.Database()
		frame := radio.SplitFrame(params, bits, db)
		rd.ProcessFrame(frame)
		rd.SyncSubchannels(rd.Database(), handlers.OnAudioChannel, nil)
		handlers.PushDatabaseSnapshot()
	}
}
