package listing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/farmease/workmatch/internal/deadline"
	"github.com/farmease/workmatch/internal/notification"
	"github.com/farmease/workmatch/pkg/validate"
)

// Emitter fans a committed event out to its recipients
type Emitter interface {
	Emit(ctx context.Context, ev notification.Event) int
}

// Service drives the listing lifecycle: active -> completed | cancelled
type Service struct {
	store     Store
	rules     *deadline.Rules
	fanout    Emitter
	log       zerolog.Logger
	validate  *validate.Validator
	newWorkID func() string
}

// NewService creates a new listing service
func NewService(store Store, rules *deadline.Rules, fanout Emitter, log zerolog.Logger) *Service {
	return &Service{
		store:     store,
		rules:     rules,
		fanout:    fanout,
		log:       log.With().Str("component", "listing_service").Logger(),
		validate:  validate.New(),
		newWorkID: func() string { return "work_" + uuid.NewString() },
	}
}

// Rules returns the deadline rules the service evaluates against
func (s *Service) Rules() *deadline.Rules {
	return s.rules
}

// Create posts a new active listing with no applications
func (s *Service) Create(ctx context.Context, ownerID string, req *CreateWorkRequest) (*WorkListing, error) {
	w, err := s.validateCreate(ownerID, req)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, w); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("work_id", w.WorkID).
		Str("farmer_id", w.FarmerID).
		Str("work_date", deadline.FormatDate(w.WorkDate)).
		Int("laborers_required", w.LaborersRequired).
		Msg("Work posted")

	return w, nil
}

func (s *Service) validateCreate(ownerID string, req *CreateWorkRequest) (*WorkListing, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidArgument)
	}

	norm := CreateWorkRequest{
		CropName:         strings.TrimSpace(req.CropName),
		WorkType:         strings.TrimSpace(req.WorkType),
		LaborersRequired: req.LaborersRequired,
		WorkDate:         strings.TrimSpace(req.WorkDate),
		Details:          strings.TrimSpace(req.Details),
		Area:             strings.TrimSpace(req.Area),
		State:            strings.TrimSpace(req.State),
	}
	if err := s.validate.Struct(&norm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	workDate, err := deadline.ParseDate(norm.WorkDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if workDate.Before(s.rules.Tomorrow()) {
		return nil, fmt.Errorf("%w: work date must be tomorrow or later", ErrInvalidArgument)
	}

	return &WorkListing{
		WorkID:           s.newWorkID(),
		FarmerID:         ownerID,
		CropName:         norm.CropName,
		WorkType:         norm.WorkType,
		LaborersRequired: norm.LaborersRequired,
		WorkDate:         workDate,
		Details:          norm.Details,
		Area:             norm.Area,
		State:            norm.State,
		Status:           StatusActive,
		Applications:     []Application{},
		CreatedAt:        s.rules.Now().UTC(),
	}, nil
}

// GetByWorkID retrieves a listing by its public id
func (s *Service) GetByWorkID(ctx context.Context, workID string) (*WorkListing, error) {
	w, err := s.store.GetByWorkID(ctx, workID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNotFound
	}
	return w, nil
}

// ListByOwner returns every listing a farmer posted, newest first
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]*WorkListing, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// ListOpenInRegion returns active listings in a region dated today or later
func (s *Service) ListOpenInRegion(ctx context.Context, area, state string) ([]*WorkListing, error) {
	if strings.TrimSpace(area) == "" || strings.TrimSpace(state) == "" {
		return nil, fmt.Errorf("%w: area and state are required", ErrInvalidArgument)
	}
	return s.store.ListOpenInRegion(ctx, area, state, s.rules.Today())
}

// ListByLaborer returns the listings a laborer currently holds an application on
func (s *Service) ListByLaborer(ctx context.Context, laborerID string) ([]*WorkListing, error) {
	return s.store.ListByLaborer(ctx, laborerID)
}

// Cancel moves an active listing to cancelled and notifies the farmer and
// every applicant on the list at the moment of cancellation
func (s *Service) Cancel(ctx context.Context, workID, ownerID string) (*WorkListing, error) {
	now := s.rules.Now()

	cancelled, err := s.store.Cancel(ctx, workID, ownerID, s.rules.EarliestCancellationDate(), now.UTC())
	if err != nil {
		return nil, err
	}
	if cancelled == nil {
		return nil, s.classifyCancel(ctx, workID, ownerID)
	}

	s.log.Info().
		Str("work_id", workID).
		Int("applicants", len(cancelled.Applications)).
		Msg("Work cancelled")

	s.fanout.Emit(ctx, CancellationEvent(cancelled))
	return cancelled, nil
}

func (s *Service) classifyCancel(ctx context.Context, workID, ownerID string) error {
	w, err := s.store.GetByWorkID(ctx, workID)
	if err != nil {
		return err
	}
	if w == nil || w.FarmerID != ownerID {
		return ErrNotFoundOrUnauthorized
	}
	if w.Status != StatusActive {
		return ErrInvalidState
	}
	if !s.rules.CancellationOpen(w.WorkDate) {
		return ErrDeadlinePassed
	}
	return ErrConflict
}

// Delete removes a completed or cancelled listing owned by ownerID. A
// missing listing, a foreign listing and an active listing all fail with
// ErrNotFoundOrUnauthorized.
func (s *Service) Delete(ctx context.Context, workID, ownerID string) error {
	deleted, err := s.store.DeleteInactive(ctx, workID, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFoundOrUnauthorized
	}

	s.log.Info().Str("work_id", workID).Msg("Work deleted")
	return nil
}

// Sweep completes every active listing whose work date has passed and
// returns how many listings it transitioned. Running it again is a no-op.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	today := s.rules.Today()

	n, err := s.store.CompleteBefore(ctx, today)
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Str("before", deadline.FormatDate(today)).
		Int64("completed", n).
		Msg("Sweep finished")

	return n, nil
}
