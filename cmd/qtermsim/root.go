package main

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"qtermsim/internal/config"
	"qtermsim/internal/logging"
	"qtermsim/internal/metrics"
	"qtermsim/quantum"
)

// app carries what every subcommand needs once the root pre-run has loaded
// configuration.
type app struct {
	configPath string
	cfg        config.Config
	seed       uint64
	logger     *slog.Logger
	metrics    *metrics.Collector
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logging.Discard()}

	root := &cobra.Command{
		Use:           "qtermsim",
		Short:         "A state-vector quantum simulator for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $HOME/.config/qtermsim/config.yaml)")
	flags.Uint64("seed", 0, "measurement seed, 0 picks a random one")
	flags.Int("workers", 0, "goroutines per state pass, 0 uses GOMAXPROCS")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "text", "text or json")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9100")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.setup(cmd)
	}

	root.AddCommand(
		newRunCmd(a),
		newBellCmd(a),
		newGroverCmd(a),
		newDeutschJozsaCmd(a),
		newInspectCmd(a),
	)
	return root
}

// setup loads configuration with flags layered over env and file, then builds
// the logger and the optional metrics endpoint.
func (a *app) setup(cmd *cobra.Command) error {
	v, err := config.New(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Root().PersistentFlags()
	for key, name := range map[string]string{
		"simulator.seed":    "seed",
		"simulator.workers": "workers",
		"log.level":         "log-level",
		"log.format":        "log-format",
		"metrics.addr":      "metrics-addr",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	if a.cfg, err = config.Decode(v); err != nil {
		return err
	}

	if a.logger, err = logging.New(cmd.ErrOrStderr(), a.cfg.Log.Level, a.cfg.Log.Format); err != nil {
		return err
	}
	a.seed = a.cfg.Simulator.Seed
	if a.seed == 0 {
		a.seed = rand.Uint64()
	}
	a.logger.Debug("configuration loaded", "config", v.ConfigFileUsed(), "seed", a.seed, "workers", a.cfg.Simulator.Workers)

	if addr := a.cfg.Metrics.Addr; addr != "" {
		a.metrics = metrics.New()
		go func() {
			if err := a.metrics.Serve(contextOf(cmd), addr, a.logger); err != nil {
				a.logger.Error("metrics server stopped", "addr", addr, "error", err)
			}
		}()
	}
	return nil
}

// stateOptions returns the quantum options for a state seeded with seed.
func (a *app) stateOptions(seed uint64) []quantum.Option {
	opts := []quantum.Option{
		quantum.WithWorkers(a.cfg.Simulator.Workers),
		quantum.WithParallelThreshold(a.cfg.Simulator.ParallelThreshold),
		quantum.WithMemoryLimit(a.cfg.Simulator.MemoryLimit),
		quantum.WithLogger(a.logger),
		quantum.WithSeed(seed),
	}
	if a.metrics != nil {
		opts = append(opts, quantum.WithObserver(a.metrics))
	}
	return opts
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
