package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/rsharan/lernix/internal/ui/theme"
)

// Bar is one labelled value in a bar chart.
type Bar struct {
	Label string
	Value float64
}

// BarChart renders horizontal bars scaled to the largest value.
type BarChart struct {
	Bars  []Bar
	Width int
}

// NewBarChart creates a bar chart.
func NewBarChart(bars []Bar, width int) BarChart {
	return BarChart{Bars: bars, Width: width}
}

// View renders the chart, one bar per line.
func (b BarChart) View() string {
	if len(b.Bars) == 0 {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("no data yet")
	}

	labelWidth := 0
	max := 0.0
	for _, bar := range b.Bars {
		if w := lipgloss.Width(bar.Label); w > labelWidth {
			labelWidth = w
		}
		if bar.Value > max {
			max = bar.Value
		}
	}

	valueWidth := 8
	barWidth := b.Width - labelWidth - valueWidth - 4
	if barWidth < 4 {
		barWidth = 4
	}

	var s strings.Builder
	for _, bar := range b.Bars {
		filled := 0
		if max > 0 {
			filled = int(float64(barWidth) * bar.Value / max)
		}
		if filled > barWidth {
			filled = barWidth
		}

		label := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Width(labelWidth).
			Render(bar.Label)

		fill := lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Render(strings.Repeat("█", filled))

		rest := lipgloss.NewStyle().
			Foreground(theme.Border).
			Render(strings.Repeat("░", barWidth-filled))

		value := lipgloss.NewStyle().
			Foreground(theme.Text).
			Render(fmt.Sprintf(" %.1f", bar.Value))

		s.WriteString(label + "  " + fill + rest + value + "\n")
	}
	return s.String()
}
