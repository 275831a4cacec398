package tasks

import (
	"fmt"

	"github.com/desertthunder/featx/internal/models"
	"github.com/desertthunder/featx/internal/shared"
	"github.com/samber/lo"
)

// JoinFeatures inner joins track records with audio features on track identifier.
//
// Rows keep the order of tracks. Tracks without features are dropped.
func JoinFeatures(tracks []models.TrackRecord, features []*models.AudioFeatures) []models.JoinedTrack {
	byID := make(map[string]*models.AudioFeatures, len(features))
	for _, f := range features {
		if f == nil {
			continue
		}
		if _, ok := byID[f.TrackID]; !ok {
			byID[f.TrackID] = f
		}
	}

	rows := make([]models.JoinedTrack, 0, len(tracks))
	for _, track := range tracks {
		f, ok := byID[track.ID]
		if !ok {
			continue
		}
		rows = append(rows, models.JoinedTrack{Track: track, Features: f.Vector()})
	}
	return rows
}

// Vectors extracts the feature vectors of the joined rows.
func Vectors(rows []models.JoinedTrack) []models.FeatureVector {
	return lo.Map(rows, func(row models.JoinedTrack, _ int) models.FeatureVector {
		return row.Features
	})
}

// MinMaxScale maps each column independently onto [0, 1].
//
// A constant column scales to 0.0.
func MinMaxScale(rows []models.FeatureVector) []models.FeatureVector {
	if len(rows) == 0 {
		return nil
	}

	lows, highs := rows[0], rows[0]
	for _, row := range rows[1:] {
		for c, v := range row {
			lows[c] = min(lows[c], v)
			highs[c] = max(highs[c], v)
		}
	}

	scaled := make([]models.FeatureVector, len(rows))
	for r, row := range rows {
		for c, v := range row {
			if span := highs[c] - lows[c]; span > 0 {
				scaled[r][c] = (v - lows[c]) / span
			}
		}
	}
	return scaled
}

// ColumnMeans averages every column. An empty matrix has no mean.
func ColumnMeans(rows []models.FeatureVector) (models.FeatureVector, error) {
	var mean models.FeatureVector
	if len(rows) == 0 {
		return mean, fmt.Errorf("%w: cannot average zero rows", shared.ErrEmptyDataset)
	}

	for _, row := range rows {
		for c, v := range row {
			mean[c] += v
		}
	}
	n := float64(len(rows))
	for c := range mean {
		mean[c] /= n
	}
	return mean, nil
}
