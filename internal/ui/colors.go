package ui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	colorTitle = lipgloss.Color("#7D56F4")
	colorHigh  = lipgloss.Color("#04B575")
	colorMid   = lipgloss.Color("#FFA500")
	colorLow   = lipgloss.Color("#626262")
	colorError = lipgloss.Color("#FF0000")
)

var styles = newPalette()

// palette holds the [lipgloss.Style] values of the profile and summary renderers.
type palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	label lipgloss.Style
	bars  [3]lipgloss.Style // low, mid, high thirds of [0, 1]
}

func newPalette() palette {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return palette{
		title: fg(colorTitle).Bold(true),
		ok:    fg(colorHigh).Bold(true),
		err:   fg(colorError).Bold(true),
		warn:  fg(colorMid),
		help:  fg(colorLow).Italic(true),
		label: fg(colorLow).Width(labelWidth).Align(lipgloss.Right),
		bars:  [3]lipgloss.Style{fg(colorLow), fg(colorMid), fg(colorHigh)},
	}
}

// bar returns the style of a bar drawn for a scaled value.
func (p palette) bar(v float64) lipgloss.Style {
	switch {
	case v >= 2.0/3:
		return p.bars[2]
	case v >= 1.0/3:
		return p.bars[1]
	default:
		return p.bars[0]
	}
}
