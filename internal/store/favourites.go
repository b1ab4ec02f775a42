package store

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/voltmart/voltmart/internal/api"
	"github.com/voltmart/voltmart/internal/logger"
)

// ToggleOutcome distinguishes a toggle the server confirmed from one that
// had to be reconciled with a full reload, so the reconciliation path is
// observable on its own.
type ToggleOutcome int

const (
	// ToggleAdded means the server confirmed the product was favourited
	ToggleAdded ToggleOutcome = iota
	// ToggleRemoved means the server confirmed the product was unfavourited
	ToggleRemoved
	// ToggleReconciled means the server's answer was ambiguous and local
	// state was replaced by a fresh reload instead of a guess
	ToggleReconciled
)

// Favourites owns the favourited product ids for the signed-in user. It is
// empty and inert while nobody is authenticated.
type Favourites struct {
	mu      sync.Mutex
	client  *api.Client
	session *Session

	ids     map[int64]struct{}
	loading bool
}

// NewFavourites creates a favourites store bound to a session
func NewFavourites(client *api.Client, session *Session) *Favourites {
	return &Favourites{
		client:  client,
		session: session,
		ids:     map[int64]struct{}{},
	}
}

// Load replaces local state with the server's favourites list. Any fetch
// failure resets to an empty set; stale favourites are worse than none.
func (f *Favourites) Load(ctx context.Context) error {
	user := f.session.User()
	if user == nil {
		return ErrNotAuthenticated
	}

	f.mu.Lock()
	f.loading = true
	f.mu.Unlock()

	ids, err := f.client.Favourites(ctx, user.ID)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	f.ids = map[int64]struct{}{}
	if err != nil {
		logger.Warn("failed to load favourites", logger.F("error", err))
		return err
	}
	for _, id := range ids {
		f.ids[id] = struct{}{}
	}
	return nil
}

// IsFavourite is a pure membership test
func (f *Favourites) IsFavourite(productID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.ids[productID]
	return ok
}

// NormalizeID coerces the id representations seen in backend payloads
// (number, numeric string, float-decoded number) into an int64.
func NormalizeID(v interface{}) (int64, bool) {
	switch id := v.(type) {
	case int64:
		return id, true
	case int:
		return int64(id), true
	case float64:
		return int64(id), true
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Toggle flips a product's favourite state through the server. The two
// known statuses are applied directly; anything else triggers a full
// reload, because trusting an unrecognized status risks permanent drift.
// Transport failures propagate without touching local state.
func (f *Favourites) Toggle(ctx context.Context, productID int64) (ToggleOutcome, error) {
	user := f.session.User()
	if user == nil {
		return ToggleReconciled, ErrNotAuthenticated
	}

	status, err := f.client.ToggleFavourite(ctx, user.ID, productID)
	if err != nil {
		return ToggleReconciled, err
	}

	switch status {
	case api.ToggleStatusAdded:
		f.mu.Lock()
		f.ids[productID] = struct{}{}
		f.mu.Unlock()
		return ToggleAdded, nil
	case api.ToggleStatusRemoved:
		f.mu.Lock()
		delete(f.ids, productID)
		f.mu.Unlock()
		return ToggleRemoved, nil
	}

	logger.Warn("ambiguous toggle status, reconciling",
		logger.F("status", status),
		logger.F("product", productID))
	if err := f.Load(ctx); err != nil {
		return ToggleReconciled, err
	}
	return ToggleReconciled, nil
}

// IDs returns the favourited product ids in ascending order
func (f *Favourites) IDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int64, 0, len(f.ids))
	for id := range f.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Count returns the number of favourited products
func (f *Favourites) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ids)
}

// Loading reports whether a bulk reload is in flight
func (f *Favourites) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// ClearLocal drops all local favourites state. Called on logout.
func (f *Favourites) ClearLocal() {
	f.mu.Lock()
	f.ids = map[int64]struct{}{}
	f.mu.Unlock()
}
