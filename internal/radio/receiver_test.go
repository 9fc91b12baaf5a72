package radio

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSampleSource struct {
	samples []complex128
	pos     int
}

func (f *fakeSampleSource) ReadSamples(n int) ([]complex128, error) {
	if f.pos >= len(f.samples) {
		return nil, io.EOF
	}
	end := f.pos + n
	if end > len(f.samples) {
		end = len(f.samples)
	}
	out := f.samples[f.pos:end]
	f.pos = end
	var err error
	if f.pos >= len(f.samples) {
		err = io.EOF
	}
	return out, err
}

func TestReceiverRunStopsCleanlyOnEOFWithoutSync(t *testing.T) {
	r := New(testParams(t))
	rv := NewReceiver(testParams(t), r, nil, nil)

	src := &fakeSampleSource{samples: make([]complex128, 4096)}
	require.NoError(t, rv.Run(src))
}
