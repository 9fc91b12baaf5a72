package radio

import (
	"github.com/dabradio/dabradio/internal/dabparams"
	"github.com/dabradio/dabradio/internal/database"
	"github.com/dabradio/dabradio/internal/fic"
	"github.com/dabradio/dabradio/internal/fig"
	"github.com/dabradio/dabradio/internal/viterbi"
)

// ficRunner owns the per-frame FIC decode → FIG parse → database update
// chain, the Go translation of BasicFICRunner.
type ficRunner struct {
	decoder *fic.Decoder
	parser  *fig.Parser
	updater *database.Updater
}

func newFICRunner(params dabparams.Params, updater *database.Updater) *ficRunner {
	handler := newFIGHandler(updater)
	return &ficRunner{
		decoder: fic.NewDecoder(params),
		parser:  fig.NewParser(handler),
		updater: updater,
	}
}

// ProcessFrame decodes one transmission frame's FIC soft bits into FIBs,
// parsing every CRC-valid FIB into the ensemble database.
func (r *ficRunner) ProcessFrame(ficSoftBits []viterbi.SoftBit) error {
	fibs, err := r.decoder.DecodeFrame(ficSoftBits)
	if err != nil {
		return err
	}
	for _, f := range fibs {
		if !f.CRCOK {
			continue
		}
		r.parser.ParseFIB(f.Payload[:])
	}
	return nil
}
