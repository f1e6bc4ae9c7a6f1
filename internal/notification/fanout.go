package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Fanout turns a committed listing event into one stored notification per
// recipient. Delivery is best effort: a failed write is logged and the
// remaining recipients are still attempted.
type Fanout struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

// NewFanout creates a fan-out emitter backed by store
func NewFanout(store Store, log zerolog.Logger) *Fanout {
	return &Fanout{
		store: store,
		log:   log.With().Str("component", "notification_fanout").Logger(),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Emit persists one unread notification per recipient of ev and returns how
// many were newly created. A recipient that already holds a notification for
// ev.Key in the same role is skipped, so re-emitting an event is harmless.
func (f *Fanout) Emit(ctx context.Context, ev Event) int {
	// The triggering mutation is already committed; a caller hanging up must
	// not cut the fan-out short.
	ctx = context.WithoutCancel(ctx)

	created := 0
	now := f.now().UTC()
	for _, rcpt := range ev.Recipients {
		n := &Notification{
			NotificationID: f.newID(),
			RecipientID:    rcpt.UserID,
			RecipientRole:  rcpt.Role,
			EventType:      ev.Type,
			EventKey:       ev.Key,
			WorkID:         ev.WorkID,
			CropName:       ev.CropName,
			WorkLabel:      ev.WorkLabel,
			Message:        rcpt.Message,
			CreatedAt:      now,
		}
		if rcpt.RelatedUserID != "" {
			related := rcpt.RelatedUserID
			n.RelatedUserID = &related
		}

		inserted, err := f.store.Create(ctx, n)
		if err != nil {
			f.log.Error().
				Err(err).
				Str("event", string(ev.Type)).
				Str("work_id", ev.WorkID).
				Str("recipient", rcpt.UserID).
				Msg("Failed to deliver notification")
			continue
		}
		if !inserted {
			f.log.Debug().
				Str("event_key", ev.Key).
				Str("recipient", rcpt.UserID).
				Msg("Notification already delivered")
			continue
		}
		created++
	}

	f.log.Info().
		Str("event", string(ev.Type)).
		Str("work_id", ev.WorkID).
		Int("recipients", len(ev.Recipients)).
		Int("created", created).
		Msg("Event fanned out")

	return created
}
