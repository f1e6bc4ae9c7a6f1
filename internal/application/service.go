package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/farmease/workmatch/internal/deadline"
	"github.com/farmease/workmatch/internal/listing"
	"github.com/farmease/workmatch/pkg/validate"
)

// Common errors
var (
	ErrFull           = errors.New("this work has reached maximum applications")
	ErrAlreadyApplied = errors.New("you have already applied for this work")
	ErrNotApplied     = errors.New("you haven't applied for this work")
)

// Service enforces capacity, uniqueness and deadline rules on the
// applications of a listing. The guards are checked against a snapshot for a
// precise error, then enforced again inside the store's conditional
// mutation, which is what keeps concurrent callers from overbooking.
type Service struct {
	store    listing.Store
	rules    *deadline.Rules
	fanout   listing.Emitter
	log      zerolog.Logger
	validate *validate.Validator
}

// NewService creates a new application service
func NewService(store listing.Store, rules *deadline.Rules, fanout listing.Emitter, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		rules:    rules,
		fanout:   fanout,
		log:      log.With().Str("component", "application_service").Logger(),
		validate: validate.New(),
	}
}

// Apply adds the laborer to a listing
func (s *Service) Apply(ctx context.Context, laborerID string, req *ApplyRequest) (*listing.Application, error) {
	laborerID = strings.TrimSpace(laborerID)
	if laborerID == "" {
		return nil, fmt.Errorf("%w: laborer is required", listing.ErrInvalidArgument)
	}
	norm := ApplyRequest{
		WorkID:  strings.TrimSpace(req.WorkID),
		Name:    strings.TrimSpace(req.Name),
		Contact: strings.TrimSpace(req.Contact),
	}
	if err := s.validate.Struct(&norm); err != nil {
		return nil, fmt.Errorf("%w: %v", listing.ErrInvalidArgument, err)
	}
	req = &norm

	if err := s.checkApply(ctx, req.WorkID, laborerID); err != nil {
		return nil, err
	}

	app := listing.Application{
		LaborerID: laborerID,
		Name:      req.Name,
		Contact:   req.Contact,
		AppliedAt: s.rules.Now().UTC(),
	}

	added, err := s.store.PushApplication(ctx, req.WorkID, app, s.rules.EarliestApplicationDate())
	if err != nil {
		return nil, err
	}
	if !added {
		// Lost a race between the snapshot and the write.
		if err := s.checkApply(ctx, req.WorkID, laborerID); err != nil {
			return nil, err
		}
		return nil, listing.ErrConflict
	}

	s.log.Info().
		Str("work_id", req.WorkID).
		Str("laborer_id", laborerID).
		Msg("Application submitted")

	return &app, nil
}

// checkApply reports the first violated apply guard in precedence order
func (s *Service) checkApply(ctx context.Context, workID, laborerID string) error {
	w, err := s.store.GetByWorkID(ctx, workID)
	if err != nil {
		return err
	}
	switch {
	case w == nil:
		return listing.ErrNotFound
	case w.Status != listing.StatusActive:
		return listing.ErrInvalidState
	case !s.rules.ApplicationOpen(w.WorkDate):
		return fmt.Errorf("%w: applications close at 11 PM the day before the work date", listing.ErrDeadlinePassed)
	case w.IsFull():
		return ErrFull
	case w.HasApplicant(laborerID):
		return ErrAlreadyApplied
	}
	return nil
}

// Withdraw removes the laborer from a listing and notifies the farmer
func (s *Service) Withdraw(ctx context.Context, laborerID string, req *WithdrawRequest) error {
	laborerID = strings.TrimSpace(laborerID)
	if laborerID == "" {
		return fmt.Errorf("%w: laborer is required", listing.ErrInvalidArgument)
	}
	norm := WithdrawRequest{WorkID: strings.TrimSpace(req.WorkID)}
	if err := s.validate.Struct(&norm); err != nil {
		return fmt.Errorf("%w: %v", listing.ErrInvalidArgument, err)
	}
	req = &norm

	w, err := s.checkWithdraw(ctx, req.WorkID, laborerID)
	if err != nil {
		return err
	}

	removed, err := s.store.PullApplication(ctx, req.WorkID, laborerID, s.rules.EarliestCancellationDate())
	if err != nil {
		return err
	}
	if removed == nil {
		if _, err := s.checkWithdraw(ctx, req.WorkID, laborerID); err != nil {
			return err
		}
		return listing.ErrConflict
	}

	s.log.Info().
		Str("work_id", req.WorkID).
		Str("laborer_id", laborerID).
		Msg("Application withdrawn")

	s.fanout.Emit(ctx, listing.WithdrawalEvent(w, *removed))
	return nil
}

// checkWithdraw reports the first violated withdraw guard in precedence order
func (s *Service) checkWithdraw(ctx context.Context, workID, laborerID string) (*listing.WorkListing, error) {
	w, err := s.store.GetByWorkID(ctx, workID)
	if err != nil {
		return nil, err
	}
	switch {
	case w == nil:
		return nil, listing.ErrNotFound
	case w.Status != listing.StatusActive:
		return nil, listing.ErrInvalidState
	case !s.rules.CancellationOpen(w.WorkDate):
		return nil, fmt.Errorf("%w: withdrawals close at midnight before the work date", listing.ErrDeadlinePassed)
	case !w.HasApplicant(laborerID):
		return nil, ErrNotApplied
	}
	return w, nil
}

// ListApplied returns the listings the laborer currently holds an application on
func (s *Service) ListApplied(ctx context.Context, laborerID string) ([]*listing.WorkListing, error) {
	return s.store.ListByLaborer(ctx, laborerID)
}
