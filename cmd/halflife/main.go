package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Makepad-fr/halflife/internal/cli"
	"github.com/Makepad-fr/halflife/internal/config"
	"github.com/Makepad-fr/halflife/internal/isotope"
	"github.com/Makepad-fr/halflife/internal/logging"
	"github.com/Makepad-fr/halflife/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	fs := pflag.NewFlagSet("halflife", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	fs.SetInterspersed(false)
	fs.Usage = func() {
		cli.PrintHelp(os.Stderr)
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		ui.Fail("config: " + err.Error())
		os.Exit(2)
	}
	ui.SetColorForcing(cfg.Color, cfg.NoColor)
	ui.SetTheme(cfg.Theme)

	log, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		ui.Fail(err.Error())
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()
	log.Debug("config loaded",
		zap.String("isotope", cfg.Isotope),
		zap.String("unit", cfg.Unit),
		zap.Int("samples", cfg.Samples),
		zap.String("export_dir", cfg.ExportDir),
	)

	// Hand the remaining args to the CLI runner.
	code := cli.Run(fs.Args(), cli.Env{
		Config:   cfg,
		Registry: isotope.Default(),
		Log:      log,
	})
	if code != 0 {
		_ = log.Sync()
		os.Exit(code)
	}
}
