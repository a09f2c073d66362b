package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Makepad-fr/halflife/internal/config"
	"github.com/Makepad-fr/halflife/internal/isotope"
	"github.com/Makepad-fr/halflife/internal/tui"
	"github.com/Makepad-fr/halflife/internal/ui"
)

// testEnv returns an Env on default config plus a buffer holding stderr.
func testEnv(t *testing.T, mutate func(*config.Config)) (Env, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Load(nil)
	require.NoError(t, err)
	if mutate != nil {
		mutate(&cfg)
	}

	var out, errOut bytes.Buffer
	ui.SetColorForcing(false, true)
	ui.SetOutput(&out, &errOut)
	t.Cleanup(func() {
		ui.SetColorForcing(false, false)
		ui.SetOutput(os.Stdout, os.Stderr)
	})
	return Env{Config: cfg, Out: &out}, &out, &errOut
}

func TestCurveScenario(t *testing.T) {
	env, out, _ := testEnv(t, func(c *config.Config) {
		c.Unit, c.HalfLives, c.Samples, c.N0 = "hours", 4, 5, 1000
	})
	code := Run([]string{"curve", "Tc-99m"}, env)
	require.Equal(t, 0, code)
	assert.Equal(t, "time,population\n0,1000\n6,500\n12,250\n18,125\n24,62.5\n", out.String())
}

func TestCurveActivityColumn(t *testing.T) {
	env, out, _ := testEnv(t, func(c *config.Config) {
		c.Samples, c.Activity = 2, true
	})
	require.Equal(t, 0, Run([]string{"curve", "C-14"}, env))
	assert.True(t, strings.HasPrefix(out.String(), "time,population,activity\n"))
}

func TestUnknownIsotope(t *testing.T) {
	env, _, errOut := testEnv(t, nil)
	assert.Equal(t, 2, Run([]string{"show", "unknown_id"}, env))
	assert.Contains(t, errOut.String(), `isotope not found: "unknown_id"`)
	assert.Contains(t, errOut.String(), "halflife list")
}

func TestInvalidParameter(t *testing.T) {
	env, out, errOut := testEnv(t, func(c *config.Config) { c.N0 = 0 })
	assert.Equal(t, 2, Run([]string{"curve", "C-14"}, env))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "invalid N0")
}

func TestList(t *testing.T) {
	env, out, _ := testEnv(t, nil)
	require.Equal(t, 0, Run([]string{"list"}, env))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, isotope.Default().Len())
	assert.True(t, strings.HasPrefix(lines[0], "C-14"))
	assert.True(t, strings.HasPrefix(lines[7], "Pu-239"))
}

func TestShow(t *testing.T) {
	env, out, _ := testEnv(t, nil)
	require.Equal(t, 0, Run([]string{"show", "c-14"}, env))
	s := out.String()
	assert.Contains(t, s, "Carbon-14 (C-14)")
	assert.Contains(t, s, "3.833e-12 s⁻¹")
	assert.Contains(t, s, "5730 years")
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	env, out, _ := testEnv(t, func(c *config.Config) {
		c.ExportDir, c.Samples = dir, 3
	})
	require.Equal(t, 0, Run([]string{"export", "I-131"}, env))

	p := filepath.Join(dir, "decay_I-131.csv")
	assert.Contains(t, out.String(), "saved "+p)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(b)), "\n"), 4)
}

func TestUsageErrors(t *testing.T) {
	env, _, errOut := testEnv(t, nil)
	assert.Equal(t, 2, Run([]string{"show"}, env))
	assert.Contains(t, errOut.String(), "usage: halflife show <isotope>")
	assert.Equal(t, 2, Run([]string{"frobnicate"}, env))
}

func TestHelp(t *testing.T) {
	env, out, _ := testEnv(t, nil)
	assert.Equal(t, 0, Run([]string{"help"}, env))
	assert.Contains(t, out.String(), "Subcommands:")
}

func TestDefaultIsUI(t *testing.T) {
	env, _, _ := testEnv(t, func(c *config.Config) { c.Isotope = "Rn-222" })
	var got tui.Options
	env.RunTUI = func(_ *isotope.Registry, opt tui.Options, _ *zap.Logger) error {
		got = opt
		return nil
	}
	require.Equal(t, 0, Run(nil, env))
	assert.Equal(t, "Rn-222", got.Isotope)
	assert.Equal(t, isotope.Years, got.Unit)
	assert.Equal(t, 600, got.Samples)
}
