package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/halflife/internal/config"
	"github.com/Makepad-fr/halflife/internal/decay"
	"github.com/Makepad-fr/halflife/internal/isotope"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(model)
		require.True(t, ok)
	}
	return m
}

// pressAsync is press for keys whose effect arrives through a command, like
// the selector's filter. Filter results are fed back into the model; other
// commands (cursor blinks) are dropped.
func pressAsync(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		var ok bool
		m, ok = next.(model)
		require.True(t, ok)
		m = runFilterCmd(t, m, cmd)
	}
	return m
}

func runFilterCmd(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	if cmd == nil {
		return m
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		switch x := msg.(type) {
		case tea.BatchMsg:
			for _, c := range x {
				m = runFilterCmd(t, m, c)
			}
		case list.FilterMatchesMsg:
			next, cmd := m.Update(x)
			m = next.(model)
			m = runFilterCmd(t, m, cmd)
		}
	case <-time.After(50 * time.Millisecond):
	}
	return m
}

func testModel(t *testing.T, opt Options) model {
	t.Helper()
	if opt.N0 == 0 {
		opt.N0 = 1e6
	}
	return newModel(isotope.Default(), opt, nil)
}

func TestNewModelComputesInitialSelection(t *testing.T) {
	m := testModel(t, Options{Isotope: "I-131", Unit: isotope.Days, HalfLives: 5, Samples: 50})

	require.NoError(t, m.err)
	assert.Equal(t, "I-131", m.rec.ID)
	assert.Equal(t, 50, m.series.Len())
	assert.InDelta(t, 5*8.02, m.series.Times[49], 1e-9)
	assert.Equal(t, 1e6, m.series.Populations[0])
}

func TestUnknownInitialIsotopeFallsBack(t *testing.T) {
	m := testModel(t, Options{Isotope: "Xx-1"})
	require.NoError(t, m.err)
	assert.Equal(t, "C-14", m.rec.ID)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "Xx-1")
}

func TestSelectionChangeRecomputes(t *testing.T) {
	m := testModel(t, Options{Samples: 10})
	require.Equal(t, "C-14", m.rec.ID)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "U-238", m.rec.ID)
	assert.Equal(t, 10, m.series.Len())
}

func TestControls(t *testing.T) {
	m := testModel(t, Options{Isotope: "Tc-99m", Unit: isotope.Hours, HalfLives: 5, Samples: 11})
	require.InDelta(t, 30.0, m.series.Times[10], 1e-9)

	m = press(t, m, runes("+"))
	assert.Equal(t, 5.5, m.opt.HalfLives)
	assert.InDelta(t, 33.0, m.series.Times[10], 1e-9)

	m = press(t, m, runes("t"))
	assert.Equal(t, isotope.Days, m.opt.Unit)
	assert.Equal(t, isotope.Days, m.series.Unit)
	assert.InDelta(t, 33.0/24, m.series.Times[10], 1e-9)

	m = press(t, m, runes("l"))
	assert.True(t, m.opt.LogScale)
	assert.Greater(t, m.series.Times[0], 0.0)
}

func TestRangeIsClamped(t *testing.T) {
	m := testModel(t, Options{HalfLives: 9.5})
	m = press(t, m, runes("+"), runes("+"), runes("+"))
	assert.Equal(t, config.MaxHalfLives, m.opt.HalfLives)

	m = testModel(t, Options{HalfLives: 1})
	m = press(t, m, runes("-"), runes("-"), runes("-"))
	assert.Equal(t, config.MinHalfLives, m.opt.HalfLives)
}

func TestEditN0(t *testing.T) {
	m := testModel(t, Options{Samples: 5})
	m = press(t, m, runes("n"))
	require.True(t, m.editing)
	assert.True(t, m.ti.Focused())

	m.ti.SetValue("2500")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.editing)
	assert.Equal(t, 2500.0, m.opt.N0)
	assert.Equal(t, 2500.0, m.series.Populations[0])
}

func TestEditN0InvalidStaysOpen(t *testing.T) {
	m := testModel(t, Options{Samples: 5})
	m = press(t, m, runes("n"))

	m.ti.SetValue("0")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.editing)
	assert.Contains(t, m.editErr, "N0")

	var ipe *decay.InvalidParameterError
	require.True(t, errors.As(m.err, &ipe))
	assert.Zero(t, m.series.Len(), "no partial result on failure")
	assert.Contains(t, m.View(), "fix the input")

	m.ti.SetValue("abc")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "not a number: abc", m.editErr)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.editing)
	assert.Equal(t, 1e6, m.opt.N0)
	assert.NoError(t, m.err)
	assert.Equal(t, 5, m.series.Len())
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	m := testModel(t, Options{Isotope: "Co-60", Samples: 4, Precision: 6, ExportDir: dir})

	m = press(t, m, runes("x"))
	require.False(t, m.statusErr, m.status)
	p := filepath.Join(dir, "decay_Co-60.csv")
	assert.Equal(t, "saved "+p, m.status)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.Equal(t, "time,population", lines[0])
	assert.Len(t, lines, 5)
}

func TestExportWithActivity(t *testing.T) {
	dir := t.TempDir()
	m := testModel(t, Options{Isotope: "Co-60", Samples: 4, ExportDir: dir})
	m = press(t, m, runes("a"), runes("x"))
	require.False(t, m.statusErr, m.status)

	b, err := os.ReadFile(filepath.Join(dir, "decay_Co-60.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "time,population,activity\n"))
	assert.Len(t, m.table.Rows()[0], 3)
}

func TestPreviewTable(t *testing.T) {
	m := testModel(t, Options{Samples: 600})
	assert.Len(t, m.table.Rows(), previewRows)

	m = testModel(t, Options{Samples: 3})
	assert.Len(t, m.table.Rows(), 3)
	assert.Equal(t, "0", m.table.Rows()[0][0])
	assert.Equal(t, "1e+06", m.table.Rows()[0][1])
}

func TestQuit(t *testing.T) {
	m := testModel(t, Options{})
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewShowsConstants(t *testing.T) {
	m := testModel(t, Options{Isotope: "C-14"})
	m = press(t, m, tea.WindowSizeMsg{Width: 140, Height: 50})

	v := m.View()
	assert.Contains(t, v, "Radioactive decay")
	assert.Contains(t, v, "5730 years")
	assert.Contains(t, v, "β⁻")
	assert.Contains(t, v, "Radiocarbon dating")
	assert.Contains(t, v, "3.833e-12")
}

func TestHelpToggle(t *testing.T) {
	m := testModel(t, Options{})
	m = press(t, m, runes("?"))
	assert.True(t, m.help.ShowAll)
}

func TestFilterSelectsMatch(t *testing.T) {
	m := testModel(t, Options{Samples: 5})
	require.Equal(t, "C-14", m.rec.ID)

	m = pressAsync(t, m, runes("/"))
	require.Equal(t, list.Filtering, m.list.FilterState())

	m = pressAsync(t, m, runes("P"), runes("u"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, list.FilterApplied, m.list.FilterState())
	assert.Equal(t, "Pu-239", m.rec.ID)
	require.NoError(t, m.err)
	assert.Equal(t, 5, m.series.Len())

	// other keys work again once the filter is applied
	m = press(t, m, runes("l"))
	assert.True(t, m.opt.LogScale)
	assert.Equal(t, "Pu-239", m.rec.ID)
}

func TestNotesToggle(t *testing.T) {
	m := testModel(t, Options{})
	m = press(t, m, tea.WindowSizeMsg{Width: 140, Height: 50})
	assert.NotContains(t, m.View(), "approximate values")

	m = press(t, m, runes("i"))
	assert.True(t, m.showNotes)
	assert.Contains(t, m.View(), "approximate values")

	m = press(t, m, runes("i"))
	assert.NotContains(t, m.View(), "approximate values")
}

func TestEditApplications(t *testing.T) {
	m := testModel(t, Options{Isotope: "I-131"})
	m = press(t, m, runes("e"))
	require.True(t, m.editingApps)
	require.True(t, m.ta.Focused())
	assert.Equal(t, "Diagnosis and treatment of thyroid disorders.", m.ta.Value())

	// typed keys go to the text area, not the controls
	m.ta.SetValue("Thyroid ablation")
	m = press(t, m, runes("l"))
	assert.False(t, m.opt.LogScale)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.False(t, m.editingApps)
	assert.Equal(t, "Thyroid ablationl", m.applications())

	rec, err := isotope.Default().Lookup("I-131")
	require.NoError(t, err)
	assert.Equal(t, "Diagnosis and treatment of thyroid disorders.", rec.Applications, "registry stays read-only")

	// edits stick to their isotope
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "Co-60", m.rec.ID)
	assert.Equal(t, "Radiotherapy and industrial gamma radiography.", m.applications())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "Thyroid ablationl", m.applications())
}

func TestEditApplicationsCancel(t *testing.T) {
	m := testModel(t, Options{Isotope: "C-14"})
	m = press(t, m, runes("e"))
	m.ta.SetValue("scratch")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.editingApps)
	assert.Equal(t, "Radiocarbon dating in archaeology and geology.", m.applications())
}
