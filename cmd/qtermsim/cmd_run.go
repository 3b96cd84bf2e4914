package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"qtermsim/circuit"
	"qtermsim/quantum"
)

func newRunCmd(a *app) *cobra.Command {
	var shots int

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run an OpenQASM 2.0 circuit",
		Long: `Run parses an OpenQASM 2.0 file and simulates it.

A circuit without measurements is simulated once; the final state is printed
and --shots samples are drawn from it. A circuit with measurements is run
--shots times from scratch and the classical register is tallied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("shots") {
				shots = a.cfg.Simulator.Shots
			}
			if shots < 1 {
				return fmt.Errorf("--shots must be positive, got %d", shots)
			}
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read circuit: %w", err)
			}
			c, err := circuit.Parse(string(src))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			a.logger.Info("circuit loaded", "file", args[0], "qubits", c.NumQubits, "gates", len(c.Gates), "depth", c.Depth())
			return a.runCircuit(cmd, c, shots)
		},
	}
	cmd.Flags().IntVarP(&shots, "shots", "s", 1024, "number of samples or repetitions")
	return cmd
}

func (a *app) runCircuit(cmd *cobra.Command, c *circuit.Circuit, shots int) error {
	out := cmd.OutOrStdout()
	ctx := contextOf(cmd)
	printField(out, "seed", a.seed)

	measured := slices.ContainsFunc(c.Gates, func(g circuit.Gate) bool {
		return g.Type == circuit.TypeMeasure
	})

	if !measured {
		s, _, err := circuit.Simulate(ctx, c, a.stateOptions(a.seed)...)
		if err != nil {
			return err
		}
		defer s.Close()
		printState(out, s)

		samples, err := s.Sample(shots)
		if err != nil {
			return err
		}
		counts := make(map[string]int, len(samples))
		for idx, n := range samples {
			counts[quantum.BasisState{Index: idx}.Ket(s.NumQubits())] = n
		}
		printCounts(out, counts, shots)
		return nil
	}

	// Each shot gets its own generator drawn from the run seed.
	seeds := rand.New(rand.NewPCG(a.seed, a.seed))
	counts := make(map[string]int)
	for i := range shots {
		s, res, err := circuit.Simulate(ctx, c, a.stateOptions(seeds.Uint64())...)
		if err != nil {
			return fmt.Errorf("shot %d: %w", i, err)
		}
		s.Close()
		counts[res.BitString()]++
	}
	printField(out, "shots", shots)
	printCounts(out, counts, shots)
	a.logger.Debug("run complete", "shots", shots, "outcomes", strings.Join(mapKeys(counts), ","))
	return nil
}

func mapKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
