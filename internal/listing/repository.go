package listing

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/farmease/workmatch/internal/deadline"
)

// Store is the persistence contract for work listings. Every mutation is a
// single conditional operation: it either applies with all guards holding or
// leaves the listing untouched.
type Store interface {
	Create(ctx context.Context, w *WorkListing) error
	// GetByWorkID returns nil, nil when no listing matches
	GetByWorkID(ctx context.Context, workID string) (*WorkListing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*WorkListing, error)
	ListOpenInRegion(ctx context.Context, area, state string, fromDate time.Time) ([]*WorkListing, error)
	ListByLaborer(ctx context.Context, laborerID string) ([]*WorkListing, error)

	// PushApplication appends app if the listing is active, its work date is
	// on or after minWorkDate, it has a free slot and the laborer has not
	// applied yet. It reports whether the application was added.
	PushApplication(ctx context.Context, workID string, app Application, minWorkDate time.Time) (bool, error)
	// PullApplication removes the laborer's application if the listing is
	// active and its work date is on or after minWorkDate. It returns the
	// removed entry, or nil when nothing was removed.
	PullApplication(ctx context.Context, workID, laborerID string, minWorkDate time.Time) (*Application, error)
	// Cancel moves an active listing owned by ownerID with a work date on or
	// after minWorkDate to cancelled and returns the listing as it was frozen,
	// or nil when no listing qualified.
	Cancel(ctx context.Context, workID, ownerID string, minWorkDate, at time.Time) (*WorkListing, error)
	// DeleteInactive removes a non-active listing owned by ownerID
	DeleteInactive(ctx context.Context, workID, ownerID string) (bool, error)
	// CompleteBefore completes every active listing dated before date
	CompleteBefore(ctx context.Context, date time.Time) (int64, error)
}

// Repository handles work listing persistence in Postgres. Applications live
// in a JSONB array on the listing row so each guard and mutation is one
// single-row statement.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new listing repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const listingColumns = `id, work_id, farmer_id, crop_name, work_type, laborers_required, work_date,
		details, area, state, status, applications, created_at, cancelled_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanListing(row scanner) (*WorkListing, error) {
	w := &WorkListing{}
	var apps []byte
	var cancelledAt sql.NullTime
	if err := row.Scan(
		&w.ID,
		&w.WorkID,
		&w.FarmerID,
		&w.CropName,
		&w.WorkType,
		&w.LaborersRequired,
		&w.WorkDate,
		&w.Details,
		&w.Area,
		&w.State,
		&w.Status,
		&apps,
		&w.CreatedAt,
		&cancelledAt,
	); err != nil {
		return nil, err
	}

	w.WorkDate = deadline.DateOf(w.WorkDate)
	if cancelledAt.Valid {
		at := cancelledAt.Time
		w.CancelledAt = &at
	}
	if err := json.Unmarshal(apps, &w.Applications); err != nil {
		return nil, fmt.Errorf("failed to decode applications: %w", err)
	}
	if w.Applications == nil {
		w.Applications = []Application{}
	}
	return w, nil
}

func (r *Repository) queryListings(ctx context.Context, query string, args ...any) ([]*WorkListing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list works: %w", err)
	}
	defer rows.Close()

	var works []*WorkListing
	for rows.Next() {
		w, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work: %w", err)
		}
		works = append(works, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate works: %w", err)
	}

	return works, nil
}

// Create inserts a new listing into the database
func (r *Repository) Create(ctx context.Context, w *WorkListing) error {
	apps, err := json.Marshal(w.Applications)
	if err != nil {
		return fmt.Errorf("failed to encode applications: %w", err)
	}

	query := `
		INSERT INTO farm_works (work_id, farmer_id, crop_name, work_type, laborers_required, work_date,
			details, area, state, status, applications, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9, $10, $11::jsonb, $12)
		RETURNING id
	`

	err = r.db.QueryRowContext(ctx, query,
		w.WorkID,
		w.FarmerID,
		w.CropName,
		w.WorkType,
		w.LaborersRequired,
		deadline.FormatDate(w.WorkDate),
		w.Details,
		w.Area,
		w.State,
		w.Status,
		string(apps),
		w.CreatedAt,
	).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("failed to create work: %w", err)
	}

	return nil
}

// GetByWorkID retrieves a listing by its public work id
func (r *Repository) GetByWorkID(ctx context.Context, workID string) (*WorkListing, error) {
	query := `SELECT ` + listingColumns + ` FROM farm_works WHERE work_id = $1`

	w, err := scanListing(r.db.QueryRowContext(ctx, query, workID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get work: %w", err)
	}

	return w, nil
}

// ListByOwner retrieves every listing posted by a farmer, newest first
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]*WorkListing, error) {
	query := `SELECT ` + listingColumns + ` FROM farm_works
		WHERE farmer_id = $1
		ORDER BY created_at DESC, id DESC`
	return r.queryListings(ctx, query, ownerID)
}

// ListOpenInRegion retrieves active listings in an area and state dated on or
// after fromDate, newest first. Area and state match case-insensitively.
func (r *Repository) ListOpenInRegion(ctx context.Context, area, state string, fromDate time.Time) ([]*WorkListing, error) {
	query := `SELECT ` + listingColumns + ` FROM farm_works
		WHERE area ILIKE $1 AND state ILIKE $2 AND status = 'active' AND work_date >= $3::date
		ORDER BY created_at DESC, id DESC`
	return r.queryListings(ctx, query, containsPattern(area), containsPattern(state), deadline.FormatDate(fromDate))
}

// ListByLaborer retrieves every listing a laborer currently holds an
// application on, newest first
func (r *Repository) ListByLaborer(ctx context.Context, laborerID string) ([]*WorkListing, error) {
	key, err := applicantKey(laborerID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + listingColumns + ` FROM farm_works
		WHERE applications @> $1::jsonb
		ORDER BY created_at DESC, id DESC`
	return r.queryListings(ctx, query, key)
}

// PushApplication appends an application when every listing guard holds
func (r *Repository) PushApplication(ctx context.Context, workID string, app Application, minWorkDate time.Time) (bool, error) {
	entry, err := json.Marshal([]Application{app})
	if err != nil {
		return false, fmt.Errorf("failed to encode application: %w", err)
	}
	key, err := applicantKey(app.LaborerID)
	if err != nil {
		return false, err
	}

	query := `
		UPDATE farm_works
		SET applications = applications || $2::jsonb
		WHERE work_id = $1
		  AND status = 'active'
		  AND work_date >= $3::date
		  AND jsonb_array_length(applications) < laborers_required
		  AND NOT applications @> $4::jsonb
	`

	res, err := r.db.ExecContext(ctx, query, workID, string(entry), deadline.FormatDate(minWorkDate), key)
	if err != nil {
		return false, fmt.Errorf("failed to add application: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to add application: %w", err)
	}

	return n == 1, nil
}

// PullApplication removes a laborer's application when the listing is still
// open for withdrawals
func (r *Repository) PullApplication(ctx context.Context, workID, laborerID string, minWorkDate time.Time) (*Application, error) {
	key, err := applicantKey(laborerID)
	if err != nil {
		return nil, err
	}

	// The locked read hands the UPDATE the latest array, which is rebuilt in
	// order without the laborer; the removed entry is returned from it.
	query := `
		WITH target AS (
			SELECT id, applications FROM farm_works
			WHERE work_id = $1
			  AND status = 'active'
			  AND work_date >= $3::date
			  AND applications @> $4::jsonb
			FOR UPDATE
		)
		UPDATE farm_works f
		SET applications = COALESCE((
			SELECT jsonb_agg(e.elem ORDER BY e.pos)
			FROM jsonb_array_elements(t.applications) WITH ORDINALITY AS e(elem, pos)
			WHERE e.elem->>'laborer_id' <> $2
		), '[]'::jsonb)
		FROM target t
		WHERE f.id = t.id
		RETURNING (
			SELECT e.elem FROM jsonb_array_elements(t.applications) AS e(elem)
			WHERE e.elem->>'laborer_id' = $2
			LIMIT 1
		)
	`

	var removed []byte
	err = r.db.QueryRowContext(ctx, query, workID, laborerID, deadline.FormatDate(minWorkDate), key).Scan(&removed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to remove application: %w", err)
	}

	app := &Application{}
	if err := json.Unmarshal(removed, app); err != nil {
		return nil, fmt.Errorf("failed to decode application: %w", err)
	}
	return app, nil
}

// Cancel transitions an active listing to cancelled
func (r *Repository) Cancel(ctx context.Context, workID, ownerID string, minWorkDate, at time.Time) (*WorkListing, error) {
	query := `
		UPDATE farm_works
		SET status = 'cancelled', cancelled_at = $3
		WHERE work_id = $1
		  AND farmer_id = $2
		  AND status = 'active'
		  AND work_date >= $4::date
		RETURNING ` + listingColumns

	w, err := scanListing(r.db.QueryRowContext(ctx, query, workID, ownerID, at, deadline.FormatDate(minWorkDate)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to cancel work: %w", err)
	}

	return w, nil
}

// DeleteInactive hard-deletes a completed or cancelled listing
func (r *Repository) DeleteInactive(ctx context.Context, workID, ownerID string) (bool, error) {
	query := `DELETE FROM farm_works WHERE work_id = $1 AND farmer_id = $2 AND status <> 'active'`

	res, err := r.db.ExecContext(ctx, query, workID, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete work: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete work: %w", err)
	}

	return n == 1, nil
}

// CompleteBefore marks every active listing dated before date as completed
func (r *Repository) CompleteBefore(ctx context.Context, date time.Time) (int64, error) {
	query := `UPDATE farm_works SET status = 'completed' WHERE status = 'active' AND work_date < $1::date`

	res, err := r.db.ExecContext(ctx, query, deadline.FormatDate(date))
	if err != nil {
		return 0, fmt.Errorf("failed to complete works: %w", err)
	}
	return res.RowsAffected()
}

// applicantKey is the JSONB containment pattern matching a laborer's application
func applicantKey(laborerID string) (string, error) {
	key, err := json.Marshal([]map[string]string{{"laborer_id": laborerID}})
	if err != nil {
		return "", fmt.Errorf("failed to encode laborer key: %w", err)
	}
	return string(key), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}
