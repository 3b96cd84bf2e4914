package main

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"qtermsim/quantum"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff9e64")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#73daca"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// printState writes the basis states of s above DescribeThreshold.
func printState(w io.Writer, s *quantum.State) {
	t := newTable("basis", "amplitude", "probability", "phase")
	for _, b := range s.Describe() {
		t.Row(
			b.Ket(s.NumQubits()),
			fmt.Sprintf("%+.6f%+.6fi", real(b.Amplitude), imag(b.Amplitude)),
			fmt.Sprintf("%.6f", b.Probability),
			fmt.Sprintf("%+.4f", b.Phase),
		)
	}
	fmt.Fprintln(w, t.Render())
}

// printCounts writes a histogram of outcome counts, most frequent first.
func printCounts(w io.Writer, counts map[string]int, shots int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})

	const width = 30
	t := newTable("outcome", "count", "frequency", "")
	for _, k := range keys {
		f := float64(counts[k]) / float64(shots)
		t.Row(k, fmt.Sprintf("%d", counts[k]), fmt.Sprintf("%.4f", f),
			barStyle.Render(strings.Repeat("█", int(math.Round(f*width)))))
	}
	fmt.Fprintln(w, t.Render())
}

// printField writes one "label: value" line.
func printField(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "%s %v\n", labelStyle.Render(label+":"), value)
}
