package notification

import (
	"context"
	"errors"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// Common errors
var (
	ErrInvalidArgument = errors.New("no notifications specified")
	ErrMissingUser     = errors.New("user id is required")
)

// Inbox is the result of listing a user's notifications
type Inbox struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unread_count"`
}

// Service handles the read side of notifications
type Service struct {
	repo Store
}

// NewService creates a new notification service
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// List returns the newest notifications of a user, bounded by limit, along
// with the user's total unread count
func (s *Service) List(ctx context.Context, userID string, limit int, unreadOnly bool) (*Inbox, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if limit < 1 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	notifications, err := s.repo.ListByRecipientID(ctx, userID, limit, unreadOnly)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []*Notification{}
	}

	unread, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Inbox{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead marks notifications of userID as read, either the listed ids or
// all of them. Ids belonging to other users are ignored. It returns the number
// of notifications that changed state.
func (s *Service) MarkRead(ctx context.Context, userID string, ids []string, markAll bool) (int64, error) {
	if userID == "" {
		return 0, ErrMissingUser
	}
	if markAll {
		return s.repo.MarkAllAsRead(ctx, userID)
	}

	ids = compactIDs(ids)
	if len(ids) == 0 {
		return 0, ErrInvalidArgument
	}
	return s.repo.MarkAsRead(ctx, userID, ids)
}

func compactIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
