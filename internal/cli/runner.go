package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Makepad-fr/halflife/internal/config"
	"github.com/Makepad-fr/halflife/internal/decay"
	"github.com/Makepad-fr/halflife/internal/export"
	"github.com/Makepad-fr/halflife/internal/isotope"
	"github.com/Makepad-fr/halflife/internal/logging"
	"github.com/Makepad-fr/halflife/internal/tui"
	"github.com/Makepad-fr/halflife/internal/ui"
)

// Env carries what every subcommand needs.
type Env struct {
	Config   config.Config
	Registry *isotope.Registry
	Log      *zap.Logger
	Out      io.Writer // CSV and plain listings; os.Stdout when nil

	// RunTUI starts the interactive view; tests swap it out.
	RunTUI func(*isotope.Registry, tui.Options, *zap.Logger) error
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, env Env) int {
	if env.Registry == nil {
		env.Registry = isotope.Default()
	}
	if env.Log == nil {
		env.Log = zap.NewNop()
	}
	if env.Out == nil {
		env.Out = os.Stdout
	}
	if env.RunTUI == nil {
		env.RunTUI = tui.Run
	}
	if len(args) == 0 {
		return doUI(env)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(env.Out)
		return 0

	case "ui":
		return doUI(env)

	case "list", "ls":
		return doList(env)

	case "show", "curve", "export":
		if len(a) != 1 {
			ui.Fail("usage: halflife " + cmd + " <isotope>")
			return 2
		}
		switch cmd {
		case "show":
			return doShow(env, a[0])
		case "curve":
			return doCurve(env, a[0])
		default:
			return doExport(env, a[0])
		}
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp(os.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `halflife - radioactive decay curves in the terminal

Usage:
  halflife [flags] [subcommand] [args]

Subcommands:
  ui                 Interactive view (default)
  list               List the available isotopes
  show <isotope>     Print the derived constants
  curve <isotope>    Print the sampled curve as CSV on stdout
  export <isotope>   Write the curve to <export-dir>/decay_<isotope>.csv

Flags go before the subcommand; run with --help to list them.
Every flag can also be set as DECAY_<NAME> (e.g. DECAY_N0=5e5) or in a --config YAML file.

Examples:
  halflife
  halflife --unit days show I-131
  halflife --samples 5 --half-lives 4 curve Co-60
  halflife --activity --export-dir out export C-14
`)
}

// -------------- subcommand impls ----------------

func doUI(env Env) int {
	tl, err := logging.ForTUI(env.Config.Log.Level, env.Config.Log.File)
	if err != nil {
		ui.Fail("log: " + err.Error())
		return 1
	}
	defer func() { _ = tl.Sync() }()

	opt := tui.Options{
		Isotope:   env.Config.Isotope,
		N0:        env.Config.N0,
		Unit:      env.Config.TimeUnit(),
		HalfLives: env.Config.HalfLives,
		Samples:   env.Config.Samples,
		LogScale:  env.Config.LogScale,
		Activity:  env.Config.Activity,
		Precision: env.Config.Precision,
		ExportDir: env.Config.ExportDir,
	}
	if err := env.RunTUI(env.Registry, opt, tl); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doList(env Env) int {
	t := ui.Current()
	for _, rec := range env.Registry.Records() {
		fmt.Fprintf(env.Out, "%-8s %s  %s  %s\n",
			rec.ID,
			ui.C(t.Muted, fmt.Sprintf("%-16s", rec.Name)),
			ui.C(t.Accent, fmt.Sprintf("%-18s", rec.HalfLifeText())),
			rec.DecayMode)
	}
	return 0
}

func doShow(env Env, id string) int {
	rec, c, s, code := compute(env, id)
	if code != 0 {
		return code
	}
	t := ui.Current()
	si := c.InSeconds()
	last := s.Len() - 1

	lines := []string{
		ui.C(t.Title, rec.Title()),
		ui.Dim(rec.Applications),
		"",
		field("half-life", rec.HalfLifeText()),
		field("decay mode", rec.DecayMode),
		field("λ", fmt.Sprintf("%.3e s⁻¹  (%.3e per %s)", si.DecayConstant, c.DecayConstant, strings.TrimSuffix(c.Unit.String(), "s"))),
		field("τ = 1/λ", fmt.Sprintf("%.3e s  (%.4g %s)", si.MeanLifetime, c.MeanLifetime, c.Unit)),
		field("A₀ = λN₀", fmt.Sprintf("%.3e s⁻¹ (arb. u.)", si.InitialActivity)),
		field("A(t½)", fmt.Sprintf("%.3e s⁻¹ (arb. u.)", si.ActivityAtHalfLife)),
		"",
		field("N₀", fmt.Sprintf("%.6g", env.Config.N0)),
		field(fmt.Sprintf("N(%.4g %s)", s.Times[last], c.Unit.Short()), fmt.Sprintf("%.6g", s.Populations[last])),
		field("remaining", ui.Bar(s.Populations[last]/env.Config.N0, 24)),
	}
	fmt.Fprint(env.Out, ui.PanelString(lines))
	return 0
}

func field(label, value string) string {
	return ui.C(ui.Current().Muted, fmt.Sprintf("%-12s", label)) + " " + value
}

func doCurve(env Env, id string) int {
	_, c, s, code := compute(env, id)
	if code != 0 {
		return code
	}
	if err := export.WriteCSV(env.Out, s, env.Config.ExportOptions(c.DecayConstant)); err != nil {
		ui.Fail("curve: " + err.Error())
		return 1
	}
	return 0
}

func doExport(env Env, id string) int {
	rec, c, s, code := compute(env, id)
	if code != 0 {
		return code
	}
	p, err := export.Save(env.Config.ExportDir, rec.ID, s, env.Config.ExportOptions(c.DecayConstant))
	if err != nil {
		env.Log.Error("export failed", zap.String("isotope", rec.ID), zap.Error(err))
		ui.Fail("export: " + err.Error())
		return 1
	}
	env.Log.Info("exported", zap.String("isotope", rec.ID), zap.String("path", p), zap.Int("rows", s.Len()))
	ui.OK("saved " + p)
	return 0
}

// compute resolves id and evaluates the configured curve, reporting errors
// the way the user can fix them.
func compute(env Env, id string) (isotope.Record, decay.Constants, decay.Series, int) {
	rec, err := env.Registry.Lookup(id)
	if err != nil {
		var nf *isotope.NotFoundError
		if errors.As(err, &nf) {
			ui.Fail(err.Error())
			ui.Hint("run `halflife list` to see valid isotopes")
			return rec, decay.Constants{}, decay.Series{}, 2
		}
		ui.Fail("lookup: " + err.Error())
		return rec, decay.Constants{}, decay.Series{}, 1
	}

	p := env.Config.Params(rec)
	c, s, err := decay.Compute(rec, p)
	if err != nil {
		var ipe *decay.InvalidParameterError
		if errors.As(err, &ipe) {
			ui.Fail(err.Error())
			return rec, c, s, 2
		}
		ui.Fail("compute: " + err.Error())
		return rec, c, s, 1
	}
	env.Log.Debug("computed",
		zap.String("isotope", rec.ID),
		zap.Float64("max_time", p.MaxTime),
		zap.Stringer("unit", p.Unit),
		zap.Int("samples", s.Len()),
	)
	return rec, c, s, 0
}
