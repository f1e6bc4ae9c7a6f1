package notification

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-process Store used for local development and tests
type MemoryRepository struct {
	mu            sync.RWMutex
	notifications []*Notification
	keys          map[string]struct{} // event key + recipient + role
	nextID        int64
}

// NewMemoryRepository creates an empty in-memory notification store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{keys: make(map[string]struct{})}
}

// Create stores n unless one with the same event key, recipient and role
// exists. It reports whether n was stored.
func (r *MemoryRepository) Create(ctx context.Context, n *Notification) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := n.EventKey + "\x00" + n.RecipientID + "\x00" + string(n.RecipientRole)
	if _, exists := r.keys[key]; exists {
		return false, nil
	}
	r.keys[key] = struct{}{}

	r.nextID++
	stored := *n
	stored.ID = r.nextID
	stored.IsRead = false
	r.notifications = append(r.notifications, &stored)
	n.ID = stored.ID
	return true, nil
}

// ListByRecipientID returns up to limit of the recipient's notifications,
// newest first
func (r *MemoryRepository) ListByRecipientID(ctx context.Context, recipientID string, limit int, unreadOnly bool) ([]*Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Notification
	for _, n := range r.notifications {
		if n.RecipientID != recipientID || (unreadOnly && n.IsRead) {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetUnreadCount counts the unread notifications of recipientID
func (r *MemoryRepository) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// MarkAsRead marks the listed notifications owned by recipientID as read
// and returns how many changed
func (r *MemoryRepository) MarkAsRead(ctx context.Context, recipientID string, notificationIDs []string) (int64, error) {
	wanted := make(map[string]struct{}, len(notificationIDs))
	for _, id := range notificationIDs {
		wanted[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var modified int64
	for _, n := range r.notifications {
		if _, ok := wanted[n.NotificationID]; !ok {
			continue
		}
		if n.RecipientID != recipientID || n.IsRead {
			continue
		}
		n.IsRead = true
		modified++
	}
	return modified, nil
}

// MarkAllAsRead marks every unread notification of recipientID as read
func (r *MemoryRepository) MarkAllAsRead(ctx context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var modified int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			modified++
		}
	}
	return modified, nil
}
