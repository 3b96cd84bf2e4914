package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"qtermsim/algorithms"
	"qtermsim/quantum"
)

func newBellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bell",
		Short: "Prepare a Bell pair and measure both qubits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			s, err := quantum.New(2, a.stateOptions(a.seed)...)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ApplyHadamard(0); err != nil {
				return err
			}
			if err := s.ApplyCNOT(0, 1); err != nil {
				return err
			}
			printField(out, "seed", a.seed)
			printState(out, s)

			m0, err := s.Measure(0)
			if err != nil {
				return err
			}
			m1, err := s.Measure(1)
			if err != nil {
				return err
			}
			printField(out, "q[0]", m0)
			printField(out, "q[1]", m1)
			return nil
		},
	}
}

func newGroverCmd(a *app) *cobra.Command {
	var qubits, marked, iterations int

	cmd := &cobra.Command{
		Use:   "grover",
		Short: "Amplify one marked basis state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			s, err := quantum.New(qubits, a.stateOptions(a.seed)...)
			if err != nil {
				return err
			}
			defer s.Close()
			if !cmd.Flags().Changed("iterations") {
				iterations = algorithms.OptimalIterations(qubits)
			}

			if err := algorithms.PrepareUniform(s); err != nil {
				return err
			}
			if err := algorithms.Grover(s, marked, iterations); err != nil {
				return err
			}
			amp, err := s.Amplitude(marked)
			if err != nil {
				return err
			}

			printField(out, "seed", a.seed)
			printField(out, "iterations", iterations)
			printState(out, s)
			printField(out, "norm", fmt.Sprintf("%.6f", s.Norm()))
			printField(out, "P(marked)", fmt.Sprintf("%.6f", quantum.SquaredMagnitude(amp)))

			idx, err := s.MeasureAll()
			if err != nil {
				return err
			}
			printField(out, "measured", quantum.BasisState{Index: idx}.Ket(qubits))
			return nil
		},
	}
	cmd.Flags().IntVarP(&qubits, "qubits", "n", 3, "number of qubits")
	cmd.Flags().IntVarP(&marked, "marked", "m", 5, "index of the marked basis state")
	cmd.Flags().IntVarP(&iterations, "iterations", "i", 0, "amplification rounds (default ⌊π/4·√2^n⌋)")
	return cmd
}

func newDeutschJozsaCmd(a *app) *cobra.Command {
	var qubits int
	var oracleName string

	cmd := &cobra.Command{
		Use:     "deutsch-jozsa",
		Aliases: []string{"dj"},
		Short:   "Classify an oracle as constant or balanced",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			oracle, err := parseOracle(oracleName)
			if err != nil {
				return err
			}
			verdict, err := algorithms.DeutschJozsa(qubits, oracle, a.stateOptions(a.seed)...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printField(out, "oracle", oracleName)
			printField(out, "verdict", verdict)
			return nil
		},
	}
	cmd.Flags().IntVarP(&qubits, "qubits", "n", 3, "number of input qubits")
	cmd.Flags().StringVarP(&oracleName, "oracle", "o", "parity", "constant0, constant1, parity or bit:N")
	return cmd
}

func parseOracle(name string) (algorithms.Oracle, error) {
	switch name {
	case "constant0":
		return algorithms.ConstantOracle(0), nil
	case "constant1":
		return algorithms.ConstantOracle(1), nil
	case "parity":
		return algorithms.BalancedParityOracle(), nil
	}
	if rest, ok := strings.CutPrefix(name, "bit:"); ok {
		q, err := strconv.Atoi(rest)
		if err != nil || q < 0 {
			return nil, fmt.Errorf("invalid oracle bit %q", rest)
		}
		return algorithms.BalancedBitOracle(q), nil
	}
	return nil, fmt.Errorf("unknown oracle %q", name)
}
