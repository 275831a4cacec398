package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/desertthunder/featx/internal/shared"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// NewRadarChart builds a radar chart with one axis per category.
//
// Axes are bounded to [0, 1] since values are means of min-max scaled columns.
func NewRadarChart(title string, categories []string, values []float64) (*charts.Radar, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: radar chart needs at least one category", shared.ErrInvalidInput)
	}
	if len(categories) != len(values) {
		return nil, fmt.Errorf("%w: %d categories but %d values", shared.ErrInvalidInput, len(categories), len(values))
	}

	indicators := make([]*opts.Indicator, len(categories))
	for i, name := range categories {
		indicators[i] = &opts.Indicator{Name: name, Min: 0, Max: 1}
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator:   indicators,
			Shape:       "polygon",
			SplitNumber: 5,
		}),
	)
	radar.AddSeries(title, []opts.RadarData{{Name: title, Value: values}})

	return radar, nil
}

// WriteRadarChart renders the chart as a standalone HTML page to w.
func WriteRadarChart(w io.Writer, title string, categories []string, values []float64) error {
	radar, err := NewRadarChart(title, categories, values)
	if err != nil {
		return err
	}
	if err := radar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderRadarChart writes the chart page to path, creating parent directories.
func RenderRadarChart(path, title string, categories []string, values []float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := WriteRadarChart(f, title, categories, values); err != nil {
		return err
	}
	return f.Close()
}

// ChartPath names the chart file of a playlist. The position keeps playlists with equal names apart.
func ChartPath(dir string, position int, name string) string {
	return filepath.Join(dir, fmt.Sprintf("%03d_%s.html", position, Slugify(name)))
}

// DatasetPath names the joined dataset CSV of a playlist.
func DatasetPath(dir string, position int, name string) string {
	return filepath.Join(dir, fmt.Sprintf("%03d_%s.csv", position, Slugify(name)))
}
