package enrich

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/property-api/mls"
)

// fakeMedia counts in-flight calls so tests can observe the gate.
type fakeMedia struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	failKeys    map[string]bool
	delay       time.Duration
}

func (f *fakeMedia) FetchMedia(ctx context.Context, key string) []string {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if f.failKeys[key] {
		return []string{}
	}
	return []string{"img-" + key}
}

func rawBatch(n int) []mls.RawListing {
	raws := make([]mls.RawListing, 0, n)
	for i := 0; i < n; i++ {
		raws = append(raws, mls.RawListing{"ListingKey": fmt.Sprintf("K%d", i)})
	}
	return raws
}

func TestEnrichAllKeepsInputOrderAndDegrades(t *testing.T) {
	fake := &fakeMedia{failKeys: map[string]bool{"K2": true, "K5": true, "K7": true}}
	e := New(fake, 4)

	views, err := e.EnrichAll(context.Background(), rawBatch(10))
	require.NoError(t, err)
	require.Len(t, views, 10)

	for i, view := range views {
		key := fmt.Sprintf("K%d", i)
		assert.Equal(t, key, view.ID)
		if fake.failKeys[key] {
			assert.Empty(t, view.Images, "media failure for %s must degrade to no images", key)
		} else {
			assert.Equal(t, []string{"img-" + key}, view.Images)
		}
	}
}

func TestEnrichAllDropsKeylessListings(t *testing.T) {
	raws := []mls.RawListing{
		{"ListingKey": "K0"},
		{"City": "Toronto"},
		{"ListingKey": "K2"},
		{"ListingKey": 42},
		{"ListingKey": ""},
	}
	views, err := New(&fakeMedia{}, 4).EnrichAll(context.Background(), raws)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "K0", views[0].ID)
	assert.Equal(t, "K2", views[1].ID)
}

func TestEnrichAllRespectsConcurrencyCap(t *testing.T) {
	fake := &fakeMedia{delay: 20 * time.Millisecond}
	e := New(fake, 4)

	views, err := e.EnrichAll(context.Background(), rawBatch(20))
	require.NoError(t, err)
	require.Len(t, views, 20)
	assert.LessOrEqual(t, fake.maxInFlight, 4)
	assert.Greater(t, fake.maxInFlight, 1, "fan-out should actually run concurrently")
}

func TestEnrichAllInjectableCap(t *testing.T) {
	fake := &fakeMedia{delay: 20 * time.Millisecond}
	e := New(fake, 2)

	_, err := e.EnrichAll(context.Background(), rawBatch(12))
	require.NoError(t, err)
	assert.LessOrEqual(t, fake.maxInFlight, 2)
}

func TestEnrichAllCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&fakeMedia{delay: 50 * time.Millisecond}, 1).EnrichAll(ctx, rawBatch(8))
	assert.Error(t, err)
}

func TestEnrichAllEmptyBatch(t *testing.T) {
	views, err := New(&fakeMedia{}, 4).EnrichAll(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}
