package tasks

import (
	"context"
	"iter"

	"github.com/desertthunder/featx/internal/models"
	"github.com/desertthunder/featx/internal/services"
)

// Pages returns an iterator over a user's playlist pages in cursor order.
//
// The sequence ends after the page without a continuation cursor. A fetch error is yielded once and ends the sequence.
func Pages(ctx context.Context, catalog services.Catalog, user string, pageSize int) iter.Seq2[*models.PlaylistPage, error] {
	return func(yield func(*models.PlaylistPage, error) bool) {
		page, err := catalog.ListPlaylists(ctx, user, pageSize)
		for {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(page, nil) || page.Last() {
				return
			}
			page, err = catalog.Advance(ctx, page)
		}
	}
}
