// Package ui renders analysis results for the terminal with lipgloss styles.
//
// [RenderProfile] draws a playlist's aggregate feature vector as one horizontal bar per feature,
// a text counterpart of the radar chart. [RenderRunSummary] and [RenderHistorySummary] close a run
// with counts of analyzed, skipped and failed units.
package ui
