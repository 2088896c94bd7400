package enrich

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/yourorg/property-api/mls"
)

// DefaultConcurrency caps simultaneous media fetches. The media
// endpoint is rate-sensitive; unbounded fan-out on a large page turns
// into throttling and timeout storms upstream.
const DefaultConcurrency = 4

// MediaFetcher is the one upstream call the permit pool gates.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, listingKey string) []string
}

// Enricher fans media fetches out over a bounded permit pool and maps
// raw listings into view models. Each Enricher owns its pool, so tests
// can build one with whatever cap they want to observe.
type Enricher struct {
	media MediaFetcher
	sem   *semaphore.Weighted
}

func New(media MediaFetcher, limit int) *Enricher {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	return &Enricher{media: media, sem: semaphore.NewWeighted(int64(limit))}
}

// EnrichAll resolves media for every keyed listing and transforms the
// batch. Results keep input order; records without a ListingKey are
// dropped. Media failures already degrade to empty image lists inside
// FetchMedia, so the only error here is context cancellation, which
// tears down the whole batch including stragglers.
func (e *Enricher) EnrichAll(ctx context.Context, raws []mls.RawListing) ([]mls.PropertyView, error) {
	type unit struct {
		raw mls.RawListing
		key string
	}
	units := make([]unit, 0, len(raws))
	for _, raw := range raws {
		if key, ok := raw["ListingKey"].(string); ok && key != "" {
			units = append(units, unit{raw: raw, key: key})
		}
	}

	views := make([]mls.PropertyView, len(units))
	g, ctx := errgroup.WithContext(ctx)
	for i, u := range units {
		g.Go(func() error {
			if err := e.sem.Acquire(ctx, 1); err != nil {
				return err
			}
			images := e.media.FetchMedia(ctx, u.key)
			e.sem.Release(1)
			views[i] = mls.TransformProperty(u.raw, images)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}
