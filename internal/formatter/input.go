package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/featx/internal/models"
	"github.com/desertthunder/featx/internal/shared"
)

// DecodeStreamingHistory reads one StreamingHistory*.json file of an account data export.
func DecodeStreamingHistory(r io.Reader) ([]models.PlayEvent, error) {
	var events []models.PlayEvent
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("%w: streaming history: %v", shared.ErrInvalidInput, err)
	}

	for i, ev := range events {
		if ev.MsPlayed < 0 {
			return nil, fmt.Errorf("%w: event %d has negative msPlayed", shared.ErrInvalidRecord, i)
		}
	}
	return events, nil
}

// DecodeLibrary reads the YourLibrary.json file of an account data export.
func DecodeLibrary(r io.Reader) ([]models.LibraryEntry, error) {
	var library struct {
		Tracks []models.LibraryEntry `json:"tracks"`
	}
	if err := json.NewDecoder(r).Decode(&library); err != nil {
		return nil, fmt.Errorf("%w: library: %v", shared.ErrInvalidInput, err)
	}
	return library.Tracks, nil
}

// ReadStreamingHistory concatenates the events of every file in the given order.
func ReadStreamingHistory(paths ...string) ([]models.PlayEvent, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: at least one streaming history file", shared.ErrMissingArgument)
	}

	var events []models.PlayEvent
	for _, path := range paths {
		batch, err := readJSONFile(path, DecodeStreamingHistory)
		if err != nil {
			return nil, err
		}
		events = append(events, batch...)
	}
	return events, nil
}

// ReadLibrary reads a library export file.
func ReadLibrary(path string) ([]models.LibraryEntry, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: library file", shared.ErrMissingArgument)
	}
	return readJSONFile(path, DecodeLibrary)
}

func readJSONFile[T any](path string, decode func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	items, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}
