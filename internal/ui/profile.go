package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/featx/internal/tasks"
)

const (
	labelWidth = 18
	barWidth   = 30
)

// Bar draws v, clamped to [0, 1], as a bar of width cells.
func Bar(v float64, width int) string {
	if math.IsNaN(v) {
		v = 0
	}
	v = min(max(v, 0), 1)
	filled := int(math.Round(v * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// RenderProfile renders one bar per feature under the playlist title.
func RenderProfile(title string, names []string, values []float64) string {
	lines := []string{styles.title.Render(title)}

	for i, name := range names {
		var v float64
		if i < len(values) {
			v = values[i]
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			styles.label.Render(name),
			" ",
			styles.bar(v).Render(Bar(v, barWidth)),
			" ",
			fmt.Sprintf("%.3f", v),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderRunSummary renders the outcome of a playlist run, listing skipped playlists.
func RenderRunSummary(result *tasks.RunResult) string {
	lines := []string{
		styles.title.Render(fmt.Sprintf("Run %s", result.ID)),
		styles.ok.Render(fmt.Sprintf("✓ %d playlists analyzed", result.Analyzed)),
	}

	failures := 0
	for _, pl := range result.Playlists {
		failures += len(pl.Failures)
		if !pl.OK() {
			lines = append(lines, styles.warn.Render(fmt.Sprintf("  - %s: %v", pl.Playlist.Name, pl.Skipped)))
		}
	}
	if result.Skipped > 0 {
		lines = append(lines, styles.warn.Render(fmt.Sprintf("⚠ %d playlists skipped", result.Skipped)))
	}
	if failures > 0 {
		lines = append(lines, styles.err.Render(fmt.Sprintf("✗ %d tracks could not be fetched", failures)))
	}
	lines = append(lines, styles.help.Render(fmt.Sprintf("%d pages for user %s", result.Pages, result.User)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderHistorySummary renders the outcome of a history run.
func RenderHistorySummary(result *tasks.HistoryResult) string {
	lines := []string{
		styles.title.Render(fmt.Sprintf("Run %s", result.ID)),
		styles.ok.Render(fmt.Sprintf("✓ %d play events (%d in library)", len(result.Events), result.Matched)),
		styles.ok.Render(fmt.Sprintf("✓ %d genre rows for %d tracks", len(result.Genres), len(result.TrackIDs))),
	}
	if n := len(result.Failures); n > 0 {
		lines = append(lines, styles.warn.Render(fmt.Sprintf("⚠ %d genre lookups failed", n)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
