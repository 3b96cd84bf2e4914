package tui

import "github.com/charmbracelet/lipgloss"

// Layout constants
const (
	cellW        = 11 // width of each moment column in characters
	labelVisualW = 7  // visual width of qubit label area
	gateNameW    = 5  // width of gate name inside box
	gateBoxW     = 7  // ┤ + gateNameW + ├ = 1 + 5 + 1
	barW         = 16 // probability bar width in the state panel
	maxBasisRows = 12 // basis states listed before the table is cut
)

// Tokyo Night palette.
const (
	colorBlue   = lipgloss.Color("#7aa2f7")
	colorCyan   = lipgloss.Color("#7dcfff")
	colorPurple = lipgloss.Color("#bb9af7")
	colorGreen  = lipgloss.Color("#9ece6a")
	colorTeal   = lipgloss.Color("#73daca")
	colorOrange = lipgloss.Color("#ff9e64")
	colorYellow = lipgloss.Color("#e0af68")
	colorRed    = lipgloss.Color("#f7768e")
	colorFg     = lipgloss.Color("#c0caf5")
	colorMuted  = lipgloss.Color("#565f89")
)

func panel(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c).Padding(0, 1)
}

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func bold(c lipgloss.Color) lipgloss.Style { return fg(c).Bold(true) }

var (
	circuitStyle    = panel(colorBlue)
	stateStyle      = panel(colorCyan)
	qasmStyle       = panel(colorPurple)
	controlsStyle   = panel(colorGreen)
	menuBorderStyle = panel(colorOrange)

	titleStyle        = bold(colorOrange)
	cursorBoxStyle    = bold(colorOrange)
	menuSelectedStyle = bold(colorOrange)
	targetSelectStyle = bold(colorPurple)
	gateStyle         = bold(colorTeal)

	activeGateStyle = fg(colorYellow)
	errorStyle      = fg(colorRed)
	qubitLabelStyle = fg(colorCyan)
	dimStyle        = fg(colorMuted)
	barFillStyle    = fg(colorTeal)
	menuNormalStyle = fg(colorFg)

	cbitLabelStyle     = fg(colorYellow)
	cbitWireStyle      = fg(colorMuted)
	cbitConnectorStyle = bold(colorYellow)
)
