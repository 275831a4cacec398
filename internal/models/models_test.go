package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/featx/internal/shared"
)

func TestNewTrackRecord(t *testing.T) {
	tt := []struct {
		name       string
		meta       TrackMetadata
		wantArtist string
		wantErr    bool
	}{
		{
			name:       "joins artists",
			meta:       TrackMetadata{ID: "t1", Name: "Song", Album: "LP", Artists: []string{"A", "B", "C"}, Popularity: 42},
			wantArtist: "A, B, C",
		},
		{
			name:       "single artist",
			meta:       TrackMetadata{ID: "t1", Artists: []string{"Solo"}, Popularity: 100},
			wantArtist: "Solo",
		},
		{
			name:       "no artists",
			meta:       TrackMetadata{ID: "t1"},
			wantArtist: "",
		},
		{
			name:    "empty identifier",
			meta:    TrackMetadata{Artists: []string{"A"}},
			wantErr: true,
		},
		{
			name:    "popularity above range",
			meta:    TrackMetadata{ID: "t1", Popularity: 101},
			wantErr: true,
		},
		{
			name:    "negative popularity",
			meta:    TrackMetadata{ID: "t1", Popularity: -1},
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := NewTrackRecord(tc.meta)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NewTrackRecord() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				if !errors.Is(err, shared.ErrInvalidRecord) {
					t.Errorf("expected ErrInvalidRecord, got %v", err)
				}
				return
			}
			if rec.Artist != tc.wantArtist {
				t.Errorf("Artist = %q, want %q", rec.Artist, tc.wantArtist)
			}
			if rec.ID != tc.meta.ID || rec.Popularity != tc.meta.Popularity {
				t.Errorf("record fields not copied: %+v", rec)
			}
		})
	}
}

func TestAudioFeaturesVector(t *testing.T) {
	f := AudioFeatures{
		TrackID:          "t1",
		Danceability:     0.1,
		Energy:           0.2,
		Loudness:         -5,
		Speechiness:      0.3,
		Acousticness:     0.4,
		Instrumentalness: 0.5,
		Liveness:         0.6,
		Valence:          0.7,
		Tempo:            120,
		DurationMS:       210000,
	}

	v := f.Vector()
	want := FeatureVector{0.1, 0.2, -5, 0.3, 0.4, 0.5, 0.6, 0.7, 120, 3.5}
	if v != want {
		t.Errorf("Vector() = %v, want %v", v, want)
	}
	if v[DurationIndex] != float64(f.DurationMS)/60000 {
		t.Errorf("duration should be ms / 60000, got %v", v[DurationIndex])
	}
	if len(v.Slice()) != FeatureCount {
		t.Errorf("Slice() length = %d", len(v.Slice()))
	}
}

func TestMsToMinutes(t *testing.T) {
	tc := map[int]float64{0: 0, 60000: 1, 120000: 2, 90000: 1.5, 1: 1.0 / 60000}
	for ms, want := range tc {
		if got := MsToMinutes(ms); got != want {
			t.Errorf("MsToMinutes(%d) = %v, want %v", ms, got, want)
		}
	}
}

func TestPlaylistPageLast(t *testing.T) {
	var nilPage *PlaylistPage
	if !nilPage.Last() {
		t.Error("nil page should be last")
	}
	if !(&PlaylistPage{}).Last() {
		t.Error("page without cursor should be last")
	}
	if (&PlaylistPage{Next: "cursor"}).Last() {
		t.Error("page with cursor should not be last")
	}
}

func TestFeatureVectorJSON(t *testing.T) {
	t.Run("Keys Are Feature Names In Column Order", func(t *testing.T) {
		var v FeatureVector
		for i := range v {
			v[i] = float64(i) + 0.5
		}

		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := string(data)
		last := -1
		for _, name := range FeatureNames {
			idx := strings.Index(got, `"`+name+`":`)
			if idx < 0 {
				t.Fatalf("missing %s in %s", name, got)
			}
			if idx < last {
				t.Errorf("%s out of order in %s", name, got)
			}
			last = idx
		}
		if !strings.HasPrefix(got, `{"danceability":0.5,"energy":1.5`) {
			t.Errorf("unexpected encoding %s", got)
		}

		var back FeatureVector
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if back != v {
			t.Errorf("decoded %v, want %v", back, v)
		}
	})

	t.Run("Missing Feature Is Rejected", func(t *testing.T) {
		var v FeatureVector
		err := json.Unmarshal([]byte(`{"danceability":1}`), &v)
		if !errors.Is(err, shared.ErrInvalidRecord) {
			t.Errorf("expected ErrInvalidRecord, got %v", err)
		}
	})

	t.Run("Joined Track Uses Lowercase Keys", func(t *testing.T) {
		row := JoinedTrack{Track: TrackRecord{ID: "t1", Artist: "A, B", Explicit: true, Popularity: 7}}
		data, err := json.Marshal(row)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, key := range []string{`"track":{"id":"t1"`, `"artist":"A, B"`, `"explicit":true`, `"popularity":7`, `"features":{"danceability":0`} {
			if !strings.Contains(string(data), key) {
				t.Errorf("expected %s in %s", key, data)
			}
		}
	})
}
