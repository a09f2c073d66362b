// Package tui is the interactive front end: an isotope selector, parameter
// controls, the decay chart and the derived constants. Every change runs one
// synchronous recomputation.
package tui

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Makepad-fr/halflife/internal/chart"
	"github.com/Makepad-fr/halflife/internal/config"
	"github.com/Makepad-fr/halflife/internal/decay"
	"github.com/Makepad-fr/halflife/internal/export"
	"github.com/Makepad-fr/halflife/internal/isotope"
	"github.com/Makepad-fr/halflife/internal/ui"
)

// Options seed the controls.
type Options struct {
	Isotope   string
	N0        float64
	Unit      isotope.TimeUnit
	HalfLives float64
	Samples   int
	LogScale  bool
	Activity  bool
	Precision int
	ExportDir string
}

const (
	previewRows = 10
	listWidth   = 30
	appsWidth   = 60
)

var notes = []string{
	"Simple exponential decay model with approximate values, for teaching.",
	"Activity is shown as λN(t). It is only in Bq if N₀ is a real count of nuclei and λ is per second.",
	"The time range is set in multiples of the half-life to keep curves readable.",
	"Applications text can be edited with e; edits last until the program exits.",
}

// listItem adapts an isotope record to bubbles/list.Item
type listItem struct {
	rec isotope.Record
}

func (i listItem) Title() string       { return i.rec.Title() }
func (i listItem) Description() string { return i.rec.HalfLifeText() }
func (i listItem) FilterValue() string { return i.rec.ID + " " + i.rec.Name }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	prefix := "  "
	text := it.rec.ID
	if index == m.Index() {
		prefix = "> "
		text = selectedStyle.Render(text)
	}
	fmt.Fprintln(w, prefix+text+" "+mutedStyle.Render(it.rec.HalfLifeText()))
}

type model struct {
	reg  *isotope.Registry
	log  *zap.Logger
	keys keyMap

	list  list.Model
	ti    textinput.Model
	ta    textarea.Model
	table table.Model
	help  help.Model

	opt Options

	// Inline N₀ edit
	editing  bool
	editErr  string
	editPrev float64 // N₀ when the edit opened, restored on cancel

	// Applications text edited this session, by isotope id. The registry
	// itself is never written.
	editingApps bool
	apps        map[string]string

	showNotes bool

	// Result of the last recomputation. err is either an
	// *isotope.NotFoundError or a *decay.InvalidParameterError; when set,
	// consts and series are zero.
	rec    isotope.Record
	consts decay.Constants
	series decay.Series
	err    error

	status    string
	statusErr bool

	width, height int
}

func newModel(reg *isotope.Registry, opt Options, log *zap.Logger) model {
	if log == nil {
		log = zap.NewNop()
	}
	if !opt.Unit.Valid() {
		opt.Unit = isotope.Years
	}
	if opt.Samples == 0 {
		opt.Samples = 600
	}
	if opt.HalfLives == 0 {
		opt.HalfLives = 5
	}

	recs := reg.Records()
	li := make([]list.Item, 0, len(recs))
	for _, r := range recs {
		li = append(li, listItem{rec: r})
	}
	l := list.New(li, itemDelegate{}, listWidth, len(li)+4)
	l.Title = "Isotopes"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "

	m := model{
		reg:    reg,
		log:    log,
		keys:   newKeyMap(),
		list:   l,
		help:   help.New(),
		opt:    opt,
		apps:   map[string]string{},
		width:  80,
		height: 24,
	}
	// set up text input for inline N₀ edit
	m.ti = textinput.New()
	m.ti.Prompt = "N₀ > "
	m.ti.Placeholder = "initial number of nuclei, e.g. 1e6"
	m.ti.CharLimit = 32

	m.ta = textarea.New()
	m.ta.Placeholder = "What is this isotope used for?"
	m.ta.ShowLineNumbers = false
	m.ta.CharLimit = 500
	m.ta.SetWidth(appsWidth)
	m.ta.SetHeight(3)

	m.table = table.New(
		table.WithColumns(m.columns()),
		table.WithHeight(previewRows+1),
		table.WithFocused(false),
		table.WithStyles(tableStyles()),
	)

	if opt.Isotope != "" {
		if rec, err := reg.Lookup(opt.Isotope); err == nil {
			for i, id := range reg.IDs() {
				if id == rec.ID {
					m.list.Select(i)
				}
			}
		} else {
			m.setStatus(err.Error()+", showing the first isotope", true)
		}
	}
	m.recompute()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(reg *isotope.Registry, opt Options, log *zap.Logger) error {
	p := tea.NewProgram(newModel(reg, opt, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.help.Width = ws.Width
		return m, nil
	}

	// N₀ edit mode
	if m.editing {
		var cmd tea.Cmd
		if x, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(x, m.keys.Confirm):
				m.applyN0(m.ti.Value())
				return m, nil
			case key.Matches(x, m.keys.Cancel):
				if m.opt.N0 != m.editPrev {
					m.opt.N0 = m.editPrev
					m.recompute()
				}
				m.closeEdit()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	// applications edit mode
	if m.editingApps {
		var cmd tea.Cmd
		if x, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(x, m.keys.Save):
				m.apps[m.rec.ID] = strings.TrimSpace(m.ta.Value())
				m.closeApps()
				return m, nil
			case key.Matches(x, m.keys.Cancel):
				m.closeApps()
				return m, nil
			}
		}
		m.ta, cmd = m.ta.Update(msg)
		return m, cmd
	}

	// the filter prompt owns the keyboard while it is open
	if m.list.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	if x, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(x, m.keys.Quit):
			if m.list.FilterState() == list.FilterApplied && x.String() == "esc" {
				return m.updateList(msg)
			}
			return m, tea.Quit
		case key.Matches(x, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(x, m.keys.EditN0):
			m.editing = true
			m.editErr = ""
			m.editPrev = m.opt.N0
			m.ti.SetValue(strconv.FormatFloat(m.opt.N0, 'g', -1, 64))
			m.ti.CursorEnd()
			cmd := m.ti.Focus()
			return m, cmd
		case key.Matches(x, m.keys.Unit):
			m.opt.Unit = m.opt.Unit.Next()
			m.recompute()
			return m, nil
		case key.Matches(x, m.keys.Wider):
			m.opt.HalfLives = math.Min(config.MaxHalfLives, m.opt.HalfLives+config.HalfLivesStep)
			m.recompute()
			return m, nil
		case key.Matches(x, m.keys.Narrower):
			m.opt.HalfLives = math.Max(config.MinHalfLives, m.opt.HalfLives-config.HalfLivesStep)
			m.recompute()
			return m, nil
		case key.Matches(x, m.keys.LogScale):
			m.opt.LogScale = !m.opt.LogScale
			m.recompute()
			return m, nil
		case key.Matches(x, m.keys.Activity):
			m.opt.Activity = !m.opt.Activity
			m.refreshTable()
			return m, nil
		case key.Matches(x, m.keys.Export):
			m.export()
			return m, nil
		case key.Matches(x, m.keys.Notes):
			m.showNotes = !m.showNotes
			return m, nil
		case key.Matches(x, m.keys.EditApps):
			if m.err != nil {
				return m, nil
			}
			m.editingApps = true
			m.ta.SetValue(m.applications())
			cmd := m.ta.Focus()
			return m, cmd
		}
	}
	return m.updateList(msg)
}

// updateList forwards msg to the selector and recomputes when the
// selection moved.
func (m model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.selectedID()
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if id := m.selectedID(); id != "" && id != before {
		m.recompute()
	}
	return m, cmd
}

func (m model) selectedID() string {
	if it, ok := m.list.SelectedItem().(listItem); ok {
		return it.rec.ID
	}
	return ""
}

func (m *model) applyN0(raw string) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		m.editErr = "not a number: " + strings.TrimSpace(raw)
		return
	}
	m.opt.N0 = v
	m.recompute()
	var ipe *decay.InvalidParameterError
	if errors.As(m.err, &ipe) && ipe.Param == "N0" {
		// the input stays open next to the offending value
		m.editErr = ipe.Error()
		return
	}
	m.closeEdit()
}

func (m *model) closeApps() {
	m.editingApps = false
	m.ta.Reset()
	m.ta.Blur()
}

// applications returns the session text for the current isotope, falling
// back to the registry's.
func (m model) applications() string {
	if s, ok := m.apps[m.rec.ID]; ok {
		return s
	}
	return m.rec.Applications
}

func (m *model) closeEdit() {
	m.editing = false
	m.editErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

// recompute looks up the selected isotope and evaluates the curve. On error
// nothing of the previous result is kept.
func (m *model) recompute() {
	m.consts, m.series, m.err = decay.Constants{}, decay.Series{}, nil

	rec, err := m.reg.Lookup(m.selectedID())
	if err != nil {
		m.err = err
		m.log.Warn("lookup failed", zap.String("isotope", m.selectedID()), zap.Error(err))
		m.refreshTable()
		return
	}
	m.rec = rec

	p := decay.Params{
		N0:       m.opt.N0,
		MaxTime:  decay.HalfLives(rec, m.opt.HalfLives, m.opt.Unit),
		Samples:  m.opt.Samples,
		LogScale: m.opt.LogScale,
		Unit:     m.opt.Unit,
	}
	c, s, err := decay.Compute(rec, p)
	if err != nil {
		m.err = err
		m.log.Warn("compute failed", zap.String("isotope", rec.ID), zap.Error(err))
		m.refreshTable()
		return
	}
	m.consts, m.series = c, s
	m.log.Debug("recomputed",
		zap.String("isotope", rec.ID),
		zap.Float64("n0", p.N0),
		zap.Float64("max_time", p.MaxTime),
		zap.Stringer("unit", p.Unit),
		zap.Int("samples", p.Samples),
		zap.Bool("log_scale", p.LogScale),
	)
	m.refreshTable()
}

func (m *model) export() {
	if m.err != nil || m.series.Len() == 0 {
		m.setStatus("nothing to export: "+errString(m.err), true)
		return
	}
	opt := export.Options{Precision: m.opt.Precision, Activity: m.opt.Activity, Lambda: m.consts.DecayConstant}
	p, err := export.Save(m.opt.ExportDir, m.rec.ID, m.series, opt)
	if err != nil {
		m.log.Error("export failed", zap.String("isotope", m.rec.ID), zap.Error(err))
		m.setStatus("export: "+err.Error(), true)
		return
	}
	m.log.Info("exported", zap.String("isotope", m.rec.ID), zap.String("path", p), zap.Int("rows", m.series.Len()))
	m.setStatus("saved "+p, false)
}

func (m *model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m model) columns() []table.Column {
	cols := []table.Column{
		{Title: "t (" + m.opt.Unit.String() + ")", Width: 14},
		{Title: "N(t)", Width: 14},
	}
	if m.opt.Activity {
		cols = append(cols, table.Column{Title: "λN(t)", Width: 14})
	}
	return cols
}

func (m *model) refreshTable() {
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	n := m.series.Len()
	if n > previewRows {
		n = previewRows
	}
	var activity []float64
	if m.opt.Activity {
		activity = m.series.Activity(m.consts.DecayConstant)
	}
	rows := make([]table.Row, 0, n)
	for i := 0; i < n; i++ {
		r := table.Row{num(m.series.Times[i]), num(m.series.Populations[i])}
		if m.opt.Activity {
			r = append(r, num(activity[i]))
		}
		rows = append(rows, r)
	}
	m.table.SetRows(rows)
}

func (m model) View() string {
	chartW := m.width - listWidth - 18
	chartH := 10
	if m.height < 30 {
		chartH = 6
	}

	header := titleStyle.Render("Radioactive decay") + "  " + mutedStyle.Render("N(t) = N₀·e^(−λt)")
	left := m.list.View()

	var right string
	switch {
	case m.err != nil:
		right = box("", errorStyle.Render("✖ "+m.err.Error())+"\n"+mutedStyle.Render("fix the input to redraw the curve"))
	case chartW < 20:
		right = box("", chart.Summary(m.series))
	default:
		caption := fmt.Sprintf("%s, t in %s", m.rec.Title(), m.opt.Unit)
		right = curveStyle.Render(chart.Render(m.series, chart.Options{
			Width: chartW, Height: chartH, LogScale: m.opt.LogScale, Caption: caption,
		}))
	}

	sections := []string{
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right),
		m.paramsLine(),
	}
	if m.err == nil {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
			box("Model parameters", m.constantsView()), " ",
			box("Activity (proportional)", m.activityView()),
		))
		if m.editingApps {
			sections = append(sections, box("Applications (editing)", m.ta.View()))
		} else {
			sections = append(sections, box("Applications", lipgloss.NewStyle().Width(appsWidth).Render(m.applications())))
		}
		if m.height >= 40 {
			sections = append(sections, box("First rows", m.table.View()))
		}
	}
	if m.editing {
		title := "Set N₀"
		if m.editErr != "" {
			title += " — " + errorStyle.Render(m.editErr)
		}
		sections = append(sections, box("", title+"\n"+m.ti.View()))
	}
	if m.status != "" {
		st := successStyle.Render("✔ " + m.status)
		if m.statusErr {
			st = pendingStyle.Render("! " + m.status)
		}
		sections = append(sections, st)
	}
	if m.showNotes {
		lines := make([]string, len(notes))
		for i, n := range notes {
			lines[i] = "• " + n
		}
		sections = append(sections, box("Notes", lipgloss.NewStyle().Width(appsWidth+20).Render(strings.Join(lines, "\n"))))
	}
	switch {
	case m.editing:
		sections = append(sections, m.help.View(editKeys{m.keys}))
	case m.editingApps:
		sections = append(sections, m.help.View(appsKeys{m.keys}))
	default:
		sections = append(sections, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) paramsLine() string {
	scale := "linear"
	if m.opt.LogScale {
		scale = "log"
	}
	return accentStyle.Render(fmt.Sprintf("N₀ = %s   unit = %s   range = %.1f t½   samples = %d   scale = %s",
		num(m.opt.N0), m.opt.Unit, m.opt.HalfLives, m.opt.Samples, scale))
}

func (m model) constantsView() string {
	si := m.consts.InSeconds()
	rows := [][2]string{
		{"half-life", m.rec.HalfLifeText()},
		{"λ", sci(si.DecayConstant) + " s⁻¹"},
		{"τ = 1/λ", sci(si.MeanLifetime) + " s"},
		{"decay mode", m.rec.DecayMode},
	}
	return kv(rows)
}

func (m model) activityView() string {
	si := m.consts.InSeconds()
	remaining := 0.0
	if n := m.series.Len(); n > 0 {
		remaining = m.series.Populations[n-1] / m.opt.N0
	}
	rows := [][2]string{
		{"A₀ = λN₀", sci(si.InitialActivity) + " (arb. u.)"},
		{"A(t½)", sci(si.ActivityAtHalfLife) + " (arb. u.)"},
		{"left at t½", "50%"},
		{"left at end", ui.Bar(remaining, 12)},
	}
	return kv(rows)
}

func kv(rows [][2]string) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = labelStyle.Render(r[0]) + r[1]
	}
	return strings.Join(lines, "\n")
}

func num(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }
func sci(v float64) string { return strconv.FormatFloat(v, 'e', 3, 64) }

func errString(err error) string {
	if err == nil {
		return "no data"
	}
	return err.Error()
}
