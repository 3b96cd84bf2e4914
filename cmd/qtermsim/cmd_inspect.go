package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"qtermsim/circuit"
	"qtermsim/internal/logging"
	"qtermsim/internal/tui"
	"qtermsim/quantum"
)

func newInspectCmd(a *app) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "inspect [FILE]",
		Short: "Build and step through a circuit interactively",
		Long: `Inspect opens the circuit editor. FILE is loaded if it exists and is the
target of ctrl+s; it defaults to circuit.qasm.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "circuit.qasm"
			if len(args) == 1 {
				path = args[0]
			}
			c, err := loadCircuit(path)
			if err != nil {
				return err
			}

			// The seed belongs to the inspector so replays stay deterministic.
			opts := []quantum.Option{
				quantum.WithWorkers(a.cfg.Simulator.Workers),
				quantum.WithParallelThreshold(a.cfg.Simulator.ParallelThreshold),
				quantum.WithMemoryLimit(a.cfg.Simulator.MemoryLimit),
			}
			if a.metrics != nil {
				opts = append(opts, quantum.WithObserver(a.metrics))
			}

			// The alt screen owns the terminal, so logs go to a file or nowhere.
			logger := logging.Discard()
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				if logger, err = logging.New(f, a.cfg.Log.Level, a.cfg.Log.Format); err != nil {
					return err
				}
			}
			opts = append(opts, quantum.WithLogger(logger))

			m := tui.New(tui.Options{
				Circuit:      c,
				Path:         path,
				Seed:         a.seed,
				StateOptions: opts,
				Logger:       logger,
			})
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(contextOf(cmd)))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("inspector: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "append inspector logs to this file")
	return cmd
}

// loadCircuit parses path, or returns nil when it does not exist yet.
func loadCircuit(path string) (*circuit.Circuit, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c, err := circuit.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
