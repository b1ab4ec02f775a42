package store

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Staleness windows per collection. The catalog moves slowly; paginated
// product listings go stale faster.
const (
	CatalogStaleAfter  = 5 * time.Minute
	ProductsStaleAfter = 2 * time.Minute
)

// QueryState is the lifecycle of one tracked query
type QueryState int

const (
	StateIdle QueryState = iota
	StateLoading
	StateSuccess
	StateError
)

// FetchFunc loads the data for one cache key. The key encodes the full
// parameter tuple of the request.
type FetchFunc[T any] func(ctx context.Context, key string) (T, error)

type queryEntry[T any] struct {
	state      QueryState
	data       T
	err        error
	hasData    bool
	fetchedAt  time.Time
	appliedSeq uint64
}

// QueryCache wraps a read endpoint with per-key caching. Fresh entries are
// served as-is; stale entries are served immediately while a background
// refetch runs (stale-while-revalidate); a failed fetch is retried once and
// then left for a manual Refetch. Responses apply only to their own key,
// and only when no newer response has been applied for that key, so a
// superseded request can never clobber what the user is looking at now.
type QueryCache[T any] struct {
	mu         sync.Mutex
	staleAfter time.Duration
	fetch      FetchFunc[T]
	entries    map[string]*queryEntry[T]
	sfg        singleflight.Group
	seq        uint64
}

// NewQueryCache creates a cache over fetch with the given staleness window
func NewQueryCache[T any](staleAfter time.Duration, fetch FetchFunc[T]) *QueryCache[T] {
	return &QueryCache[T]{
		staleAfter: staleAfter,
		fetch:      fetch,
		entries:    map[string]*queryEntry[T]{},
	}
}

// Get returns the data for key. Cached data inside the staleness window is
// returned without a request; stale data is returned immediately with a
// refetch kicked off behind it; a cold key blocks on the fetch.
func (q *QueryCache[T]) Get(ctx context.Context, key string) (T, error) {
	q.mu.Lock()
	e := q.entries[key]
	if e != nil && e.hasData {
		age := time.Since(e.fetchedAt)
		data := e.data
		q.mu.Unlock()
		if age < q.staleAfter {
			return data, nil
		}
		// Serve the last known data now, revalidate in the background.
		// The view's context may be gone by the time this lands, which
		// is fine: the result only updates this key's cache entry.
		go q.runFetch(context.Background(), key)
		return data, nil
	}
	q.mu.Unlock()

	return q.runFetch(ctx, key)
}

// Refetch forces a fresh load for key, from any state
func (q *QueryCache[T]) Refetch(ctx context.Context, key string) (T, error) {
	return q.runFetch(ctx, key)
}

// Lookup peeks at the cached entry without triggering a request. ok is
// false when data has never been loaded for the key.
func (q *QueryCache[T]) Lookup(key string) (data T, state QueryState, err error, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.entries[key]
	if e == nil {
		var zero T
		return zero, StateIdle, nil, false
	}
	return e.data, e.state, e.err, e.hasData
}

// Invalidate drops the cached entry for key
func (q *QueryCache[T]) Invalidate(key string) {
	q.mu.Lock()
	delete(q.entries, key)
	q.mu.Unlock()
}

// runFetch loads key once, collapsing concurrent callers, with a single
// automatic retry on failure.
func (q *QueryCache[T]) runFetch(ctx context.Context, key string) (T, error) {
	q.mu.Lock()
	q.seq++
	seq := q.seq
	e := q.entries[key]
	if e == nil {
		e = &queryEntry[T]{}
		q.entries[key] = e
	}
	e.state = StateLoading
	q.mu.Unlock()

	v, err, _ := q.sfg.Do(key, func() (interface{}, error) {
		data, err := q.fetch(ctx, key)
		if err != nil {
			// One automatic retry; further recovery is manual
			data, err = q.fetch(ctx, key)
		}
		q.apply(key, seq, data, err)
		return data, err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// apply records a fetch result, unless a newer result already landed for
// this key (last applied response wins).
func (q *QueryCache[T]) apply(key string, seq uint64, data T, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.entries[key]
	if e == nil || seq < e.appliedSeq {
		return
	}
	e.appliedSeq = seq
	if err != nil {
		e.state = StateError
		e.err = err
		return
	}
	e.state = StateSuccess
	e.err = nil
	e.data = data
	e.hasData = true
	e.fetchedAt = time.Now()
}
