// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"testing"

	"github.com/desertthunder/featx/internal/models"
)

// MockCatalog is an in-memory test double for [services.Catalog].
//
// Playlists are paged by offset; the continuation cursor is the next offset as a decimal string.
type MockCatalog struct {
	Playlists    []models.PlaylistSummary
	Tracks       map[string][]string // playlist id -> track ids ("" for local tracks)
	Metadata     map[string]*models.TrackMetadata
	Features     map[string]*models.AudioFeatures
	TrackArtists map[string]string   // track id -> first artist id
	Genres       map[string][]string // artist id -> genres

	ListErr      error
	AdvanceErr   error
	AdvanceAfter int // pages served before AdvanceErr fires
	PlaylistErrs map[string]error
	TrackErrs    map[string]error
	FeaturesErr  error
	ArtistErrs   map[string]error

	ListCalls     int
	AdvanceCalls  int
	FeatureCalls  int
	MetadataCalls int
	ArtistCalls   map[string]int // track id -> ArtistForTrack calls
}

// NewMockCatalog returns a catalog with empty lookup tables.
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		Tracks:       make(map[string][]string),
		Metadata:     make(map[string]*models.TrackMetadata),
		Features:     make(map[string]*models.AudioFeatures),
		TrackArtists: make(map[string]string),
		Genres:       make(map[string][]string),
		PlaylistErrs: make(map[string]error),
		TrackErrs:    make(map[string]error),
		ArtistErrs:   make(map[string]error),
		ArtistCalls:  make(map[string]int),
	}
}

// AddTrack registers metadata and, when features is non-nil, audio features for a track.
func (m *MockCatalog) AddTrack(meta models.TrackMetadata, features *models.AudioFeatures) {
	m.Metadata[meta.ID] = &meta
	if features != nil {
		features.TrackID = meta.ID
		m.Features[meta.ID] = features
	}
}

// AddPlaylist registers a playlist and its track ids.
func (m *MockCatalog) AddPlaylist(id, name string, trackIDs ...string) {
	m.Playlists = append(m.Playlists, models.PlaylistSummary{
		ID:         id,
		URI:        "spotify:playlist:" + id,
		Name:       name,
		TrackCount: len(trackIDs),
	})
	m.Tracks[id] = trackIDs
}

func (m *MockCatalog) page(offset, size int) *models.PlaylistPage {
	end := min(offset+size, len(m.Playlists))
	page := &models.PlaylistPage{
		Items:  append([]models.PlaylistSummary(nil), m.Playlists[offset:end]...),
		Offset: offset,
		Total:  len(m.Playlists),
	}
	if end < len(m.Playlists) {
		page.Next = strconv.Itoa(end) + ":" + strconv.Itoa(size)
	}
	return page
}

func (m *MockCatalog) ListPlaylists(ctx context.Context, user string, pageSize int) (*models.PlaylistPage, error) {
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	return m.page(0, pageSize), nil
}

func (m *MockCatalog) Advance(ctx context.Context, page *models.PlaylistPage) (*models.PlaylistPage, error) {
	m.AdvanceCalls++
	if m.AdvanceErr != nil && m.AdvanceCalls > m.AdvanceAfter {
		return nil, m.AdvanceErr
	}

	var offset, size int
	if _, err := fmt.Sscanf(page.Next, "%d:%d", &offset, &size); err != nil {
		return nil, fmt.Errorf("bad cursor %q: %w", page.Next, err)
	}
	return m.page(offset, size), nil
}

func (m *MockCatalog) PlaylistTrackIDs(ctx context.Context, playlistID string) ([]string, error) {
	if err := m.PlaylistErrs[playlistID]; err != nil {
		return nil, err
	}
	return m.Tracks[playlistID], nil
}

func (m *MockCatalog) TrackMetadata(ctx context.Context, trackID string) (*models.TrackMetadata, error) {
	m.MetadataCalls++
	if err := m.TrackErrs[trackID]; err != nil {
		return nil, err
	}
	meta, ok := m.Metadata[trackID]
	if !ok {
		return nil, fmt.Errorf("track %s not found", trackID)
	}
	return meta, nil
}

func (m *MockCatalog) AudioFeatures(ctx context.Context, trackIDs []string) ([]*models.AudioFeatures, error) {
	m.FeatureCalls++
	if m.FeaturesErr != nil {
		return nil, m.FeaturesErr
	}
	out := make([]*models.AudioFeatures, len(trackIDs))
	for i, id := range trackIDs {
		out[i] = m.Features[id]
	}
	return out, nil
}

func (m *MockCatalog) ArtistForTrack(ctx context.Context, trackID string) (string, error) {
	m.ArtistCalls[trackID]++
	if err := m.TrackErrs[trackID]; err != nil {
		return "", err
	}
	artist, ok := m.TrackArtists[trackID]
	if !ok {
		return "", fmt.Errorf("track %s not found", trackID)
	}
	return artist, nil
}

func (m *MockCatalog) ArtistGenres(ctx context.Context, artistID string) ([]string, error) {
	if err := m.ArtistErrs[artistID]; err != nil {
		return nil, err
	}
	return m.Genres[artistID], nil
}

func (m *MockCatalog) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
