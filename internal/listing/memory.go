package listing

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository is an in-process Store. A single mutex makes each
// conditional mutation atomic, matching the Postgres statements.
type MemoryRepository struct {
	mu     sync.RWMutex
	works  map[string]*WorkListing
	nextID int64
}

// NewMemoryRepository creates an empty in-memory listing store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{works: make(map[string]*WorkListing)}
}

// Create stores a copy of w and assigns its ID
func (r *MemoryRepository) Create(ctx context.Context, w *WorkListing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	w.ID = r.nextID
	r.works[w.WorkID] = w.Clone()
	return nil
}

// GetByWorkID returns a copy of the listing, or nil, nil when none matches
func (r *MemoryRepository) GetByWorkID(ctx context.Context, workID string) (*WorkListing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.works[workID]
	if !ok {
		return nil, nil
	}
	return w.Clone(), nil
}

// ListByOwner returns the owner's listings, newest first
func (r *MemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*WorkListing, error) {
	return r.filter(func(w *WorkListing) bool {
		return w.FarmerID == ownerID
	}), nil
}

// ListOpenInRegion returns active listings dated on or after fromDate whose
// area and state contain the given terms, case-insensitively
func (r *MemoryRepository) ListOpenInRegion(ctx context.Context, area, state string, fromDate time.Time) ([]*WorkListing, error) {
	area = strings.ToLower(strings.TrimSpace(area))
	state = strings.ToLower(strings.TrimSpace(state))
	return r.filter(func(w *WorkListing) bool {
		return w.Status == StatusActive &&
			!w.WorkDate.Before(fromDate) &&
			strings.Contains(strings.ToLower(w.Area), area) &&
			strings.Contains(strings.ToLower(w.State), state)
	}), nil
}

// ListByLaborer returns every listing the laborer has applied to
func (r *MemoryRepository) ListByLaborer(ctx context.Context, laborerID string) ([]*WorkListing, error) {
	return r.filter(func(w *WorkListing) bool {
		return w.HasApplicant(laborerID)
	}), nil
}

// PushApplication appends app under the same guards as the Postgres store
func (r *MemoryRepository) PushApplication(ctx context.Context, workID string, app Application, minWorkDate time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.works[workID]
	if !ok || w.Status != StatusActive || w.WorkDate.Before(minWorkDate) {
		return false, nil
	}
	if w.IsFull() || w.HasApplicant(app.LaborerID) {
		return false, nil
	}

	w.Applications = append(w.Applications, app)
	return true, nil
}

// PullApplication removes the laborer's application and returns it, or nil
// when the listing did not qualify or held no such application
func (r *MemoryRepository) PullApplication(ctx context.Context, workID, laborerID string, minWorkDate time.Time) (*Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.works[workID]
	if !ok || w.Status != StatusActive || w.WorkDate.Before(minWorkDate) {
		return nil, nil
	}

	for i, app := range w.Applications {
		if app.LaborerID != laborerID {
			continue
		}
		removed := app
		w.Applications = append(w.Applications[:i:i], w.Applications[i+1:]...)
		return &removed, nil
	}
	return nil, nil
}

// Cancel freezes a qualifying listing as cancelled and returns a copy of it
func (r *MemoryRepository) Cancel(ctx context.Context, workID, ownerID string, minWorkDate, at time.Time) (*WorkListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.works[workID]
	if !ok || w.FarmerID != ownerID || w.Status != StatusActive || w.WorkDate.Before(minWorkDate) {
		return nil, nil
	}

	w.Status = StatusCancelled
	cancelledAt := at
	w.CancelledAt = &cancelledAt
	return w.Clone(), nil
}

// DeleteInactive removes a completed or cancelled listing owned by ownerID
func (r *MemoryRepository) DeleteInactive(ctx context.Context, workID, ownerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.works[workID]
	if !ok || w.FarmerID != ownerID || w.Status == StatusActive {
		return false, nil
	}

	delete(r.works, workID)
	return true, nil
}

// CompleteBefore completes active listings dated before date
func (r *MemoryRepository) CompleteBefore(ctx context.Context, date time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, w := range r.works {
		if w.Status == StatusActive && w.WorkDate.Before(date) {
			w.Status = StatusCompleted
			n++
		}
	}
	return n, nil
}

// filter returns clones of matching listings, newest first
func (r *MemoryRepository) filter(match func(*WorkListing) bool) []*WorkListing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*WorkListing
	for _, w := range r.works {
		if match(w) {
			out = append(out, w.Clone())
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
