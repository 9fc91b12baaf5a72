package fig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMJDToGregorianKnownEpoch(t *testing.T) {
	// MJD 0 is 1858-11-17.
	y, m, d := MJDToGregorian(0)
	require.Equal(t, 1858, y)
	require.Equal(t, 11, m)
	require.Equal(t, 17, d)
}

func TestMJDToGregorianRecentDate(t *testing.T) {
	// MJD 59580 is 2022-01-01.
	y, m, d := MJDToGregorian(59580)
	require.Equal(t, 2022, y)
	require.Equal(t, 1, m)
	require.Equal(t, 1, d)
}

type recordingHandler struct {
	NoopHandler
	ensembleLabel string
}

func (r *recordingHandler) OnEnsembleLabel(ensembleID uint16, label string, mask uint16, cs Charset) {
	r.ensembleLabel = label
}

func TestParseFIG1EnsembleLabel(t *testing.T) {
	h := &recordingHandler{}
	p := NewParser(h)

	label := "Test Ensemble   " // 16 chars, padded
	body := []byte{0x10} // FIG1 header: charset=1, ext=0
	body = append(body, 0x12, 0x34) // ensemble id
	body = append(body, []byte(label[:16])...)
	body = append(body, 0x00, 0x00) // short label mask

	fibBody := append([]byte{byte(len(body)) | (1 << 5)}, body...)
	p.ParseFIB(fibBody)

	require.Equal(t, "Test Ensemble   ", h.ensembleLabel)
}
