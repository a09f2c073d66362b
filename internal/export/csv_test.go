package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/halflife/internal/decay"
	"github.com/Makepad-fr/halflife/internal/isotope"
)

func scenario(t *testing.T) (decay.Constants, decay.Series) {
	t.Helper()
	rec := isotope.Record{ID: "X-10", HalfLife: 10, HalfLifeUnit: isotope.Days}
	c, s, err := decay.Compute(rec, decay.Params{N0: 1000, MaxTime: 40, Samples: 5})
	require.NoError(t, err)
	return c, s
}

func TestWriteCSV(t *testing.T) {
	_, s := scenario(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s, Options{Precision: DefaultPrecision}))

	want := strings.Join([]string{
		"time,population",
		"0,1000",
		"10,500",
		"20,250",
		"30,125",
		"40,62.5",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVActivity(t *testing.T) {
	c, s := scenario(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s, Options{Precision: 3, Activity: true, Lambda: c.DecayConstant}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "time,population,activity", lines[0])
	// λ = ln2/10 ≈ 0.0693, A0 = 69.3
	assert.Equal(t, "0,1e+03,69.3", lines[1])
	assert.Equal(t, "10,500,34.7", lines[2])
}

func TestWriteCSVShortestPrecision(t *testing.T) {
	s := decay.Series{Times: []float64{0, 0.1}, Populations: []float64{1, 0.123456789}}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s, Options{Precision: -1}))
	assert.Contains(t, buf.String(), "0.1,0.123456789\n")
}

func TestWriteCSVLengthMismatch(t *testing.T) {
	s := decay.Series{Times: []float64{0, 1}, Populations: []float64{1}}
	assert.Error(t, WriteCSV(&bytes.Buffer{}, s, Options{}))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "decay_C-14.csv", FileName("C-14"))
	assert.Equal(t, "decay_Carbon-14_(C-14).csv", FileName("Carbon-14 (C-14)"))
	assert.Equal(t, "decay_a_b.csv", FileName("a/b"))
}

func TestSave(t *testing.T) {
	_, s := scenario(t)
	dir := filepath.Join(t.TempDir(), "out")

	p, err := Save(dir, "X-10", s, Options{Precision: DefaultPrecision})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "decay_X-10.csv"), p)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "time,population\n0,1000\n"))
}
