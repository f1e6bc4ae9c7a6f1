package listing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmease/workmatch/internal/database/dbtest"
)

func newPostgresRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(dbtest.Open(t))
}

// insertWork stores an active listing for farmer1 and removes it when t ends
func insertWork(t *testing.T, repo *Repository, workDate time.Time, capacity int) *WorkListing {
	t.Helper()
	w := &WorkListing{
		WorkID:           "work_" + uuid.NewString(),
		FarmerID:         "farmer1",
		CropName:         "Chilli",
		WorkType:         "Picking",
		LaborersRequired: capacity,
		WorkDate:         workDate,
		Area:             "Guntur " + uuid.NewString()[:8],
		State:            "Andhra Pradesh",
		Status:           StatusActive,
		Applications:     []Application{},
		CreatedAt:        time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), w))
	t.Cleanup(func() {
		repo.db.ExecContext(context.Background(), `DELETE FROM farm_works WHERE work_id = $1`, w.WorkID)
	})
	return w
}

func laborerApp(id string) Application {
	return Application{
		LaborerID: id,
		Name:      "Laborer " + id,
		Contact:   "9000000000",
		AppliedAt: time.Date(2026, 10, 19, 4, 30, 0, 0, time.UTC),
	}
}

var (
	pgWorkDate = time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC)
	pgOpenFrom = time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
)

func TestRepositoryCreateAndGet(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()
	w := insertWork(t, repo, pgWorkDate, 3)
	assert.NotZero(t, w.ID)

	got, err := repo.GetByWorkID(ctx, w.WorkID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, w.FarmerID, got.FarmerID)
	assert.True(t, got.WorkDate.Equal(pgWorkDate), got.WorkDate.String())
	assert.Equal(t, StatusActive, got.Status)
	assert.Empty(t, got.Applications)
	assert.Nil(t, got.CancelledAt)

	missing, err := repo.GetByWorkID(ctx, "work_"+uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepositoryPushApplicationGuards(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()
	w := insertWork(t, repo, pgWorkDate, 2)

	ok, err := repo.PushApplication(ctx, w.WorkID, laborerApp("labA"), pgOpenFrom)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.PushApplication(ctx, w.WorkID, laborerApp("labA"), pgOpenFrom)
	require.NoError(t, err)
	assert.False(t, ok, "duplicate laborer")

	ok, err = repo.PushApplication(ctx, w.WorkID, laborerApp("labB"), pgOpenFrom)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.PushApplication(ctx, w.WorkID, laborerApp("labC"), pgOpenFrom)
	require.NoError(t, err)
	assert.False(t, ok, "listing is full")

	other := insertWork(t, repo, pgWorkDate, 2)
	ok, err = repo.PushApplication(ctx, other.WorkID, laborerApp("labA"), pgWorkDate.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, ok, "work date before the earliest open date")

	got, err := repo.GetByWorkID(ctx, w.WorkID)
	require.NoError(t, err)
	require.Len(t, got.Applications, 2)
	assert.Equal(t, "labA", got.Applications[0].LaborerID)
	assert.Equal(t, "labB", got.Applications[1].LaborerID)
	assert.True(t, got.Applications[0].AppliedAt.Equal(laborerApp("labA").AppliedAt))
}

func TestRepositoryConcurrentPushNeverExceedsCapacity(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()
	const capacity = 5
	w := insertWork(t, repo, pgWorkDate, capacity)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := repo.PushApplication(ctx, w.WorkID, laborerApp(fmt.Sprintf("lab%d", i)), pgOpenFrom)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, capacity, successes)
	got, err := repo.GetByWorkID(ctx, w.WorkID)
	require.NoError(t, err)
	assert.Len(t, got.Applications, capacity)
}

func TestRepositoryConcurrentPushSameLaborer(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()
	w := insertWork(t, repo, pgWorkDate, 10)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.PushApplication(ctx, w.WorkID, laborerApp("labX"), pgOpenFrom)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	got, err := repo.GetByWorkID(ctx, w.WorkID)
	require.NoError(t, err)
	assert.Len(t, got.Applications, 1)
}

func TestRepositoryPullApplication(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()
	w := insertWork(t, repo, pgWorkDate, 3)
	for _, id := range []string{"labA", "labB", "labC"} {
		ok, err := repo.PushApplication(ctx, w.WorkID, laborerApp(id), pgOpenFrom)
		require.NoError(t, err)
		require.True(t, ok)
	}

	removed, err := repo.PullApplication(ctx, w.WorkID, "labB", pgOpenFrom)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "labB", removed.LaborerID)
	assert.Equal(t, "Laborer labB", removed.Name)
	assert.Equal(t, "9000000000", removed.Contact)

	got, err := repo.GetByWorkID(ctx, w.WorkID)
	require.NoError(t, err)
	require.Len(t, got.Applications, 2)
	assert.Equal(t, "labA", got.Applications[0].LaborerID)
	assert.Equal(t, "labC", got.Applications[1].LaborerID)

	removed, err = repo.PullApplication(ctx, w.WorkID, "labB", pgOpenFrom)
	require.NoError(t, err)
	assert.Nil(t, removed, "already withdrawn")

	removed, err = repo.PullApplication(ctx, w.WorkID, "labA", pgWorkDate.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Nil(t, removed, "withdrawal window closed")

	removed, err = repo.PullApplication(ctx, w.WorkID, "labC", pgOpenFrom)
	require.NoError(t, err)
	require.NotNil(t, removed)
	removed, err = repo.PullApplication(ctx, w.WorkID, "labA", pgOpenFrom)
	require.NoError(t, err)
	require.NotNil(t, removed)

	got, err = repo.GetByWorkID(ctx, w.WorkID)
	require.NoError(t, err)
	assert.NotNil(t, got.Applications)
	assert.Empty(t, got.Applications)
}

func TestRepositoryCancelReturnsFrozenApplicants(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()
	w := insertWork(t, repo, pgWorkDate, 3)
	for _, id := range []string{"labA", "labB"} {
		ok, err := repo.PushApplication(ctx, w.WorkID, laborerApp(id), pgOpenFrom)
		require.NoError(t, err)
		require.True(t, ok)
	}
	at := time.Date(2026, 10, 19, 5, 0, 0, 0, time.UTC)

	frozen, err := repo.Cancel(ctx, w.WorkID, "farmer2", pgOpenFrom, at)
	require.NoError(t, err)
	assert.Nil(t, frozen, "not the owner")

	frozen, err = repo.Cancel(ctx, w.WorkID, "farmer1", pgWorkDate.AddDate(0, 0, 1), at)
	require.NoError(t, err)
	assert.Nil(t, frozen, "cancellation window closed")

	frozen, err = repo.Cancel(ctx, w.WorkID, "farmer1", pgOpenFrom, at)
	require.NoError(t, err)
	require.NotNil(t, frozen)
	assert.Equal(t, StatusCancelled, frozen.Status)
	require.NotNil(t, frozen.CancelledAt)
	assert.True(t, frozen.CancelledAt.Equal(at))
	require.Len(t, frozen.Applications, 2)
	assert.Equal(t, "labA", frozen.Applications[0].LaborerID)
	assert.Equal(t, "labB", frozen.Applications[1].LaborerID)

	again, err := repo.Cancel(ctx, w.WorkID, "farmer1", pgOpenFrom, at)
	require.NoError(t, err)
	assert.Nil(t, again)

	ok, err := repo.PushApplication(ctx, w.WorkID, laborerApp("labC"), pgOpenFrom)
	require.NoError(t, err)
	assert.False(t, ok, "cancelled listings take no applications")
}

func TestRepositoryDeleteInactive(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()
	w := insertWork(t, repo, pgWorkDate, 3)

	deleted, err := repo.DeleteInactive(ctx, w.WorkID, "farmer1")
	require.NoError(t, err)
	assert.False(t, deleted, "active listings are kept")

	_, err = repo.Cancel(ctx, w.WorkID, "farmer1", pgOpenFrom, time.Now().UTC())
	require.NoError(t, err)

	deleted, err = repo.DeleteInactive(ctx, w.WorkID, "farmer2")
	require.NoError(t, err)
	assert.False(t, deleted, "not the owner")

	deleted, err = repo.DeleteInactive(ctx, w.WorkID, "farmer1")
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := repo.GetByWorkID(ctx, w.WorkID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositoryCompleteBeforeIsIdempotent(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()
	// Dates far in the past keep the sweep away from other tests' rows.
	past := insertWork(t, repo, time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), 2)
	cutoff := time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC)
	onCutoff := insertWork(t, repo, cutoff, 2)

	n, err := repo.CompleteBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	n, err = repo.CompleteBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := repo.GetByWorkID(ctx, past.WorkID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)

	got, err = repo.GetByWorkID(ctx, onCutoff.WorkID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, got.Status)
}

func TestRepositoryListQueries(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()
	open := insertWork(t, repo, pgWorkDate, 2)
	early := insertWork(t, repo, pgOpenFrom.AddDate(0, 0, -1), 2)
	_, err := repo.db.ExecContext(ctx, `UPDATE farm_works SET area = $2 WHERE work_id = $1`, early.WorkID, open.Area)
	require.NoError(t, err)

	ok, err := repo.PushApplication(ctx, open.WorkID, laborerApp("labQ_"+open.WorkID), pgOpenFrom)
	require.NoError(t, err)
	require.True(t, ok)

	region, err := repo.ListOpenInRegion(ctx, "  "+open.Area[len("Guntur "):], "andhra", pgOpenFrom)
	require.NoError(t, err)
	require.Len(t, region, 1)
	assert.Equal(t, open.WorkID, region[0].WorkID)

	wildcard, err := repo.ListOpenInRegion(ctx, "%", "_", pgOpenFrom)
	require.NoError(t, err)
	for _, w := range wildcard {
		assert.NotEqual(t, open.WorkID, w.WorkID, "LIKE metacharacters match literally")
	}

	applied, err := repo.ListByLaborer(ctx, "labQ_"+open.WorkID)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, open.WorkID, applied[0].WorkID)

	owned, err := repo.ListByOwner(ctx, "farmer1")
	require.NoError(t, err)
	var ids []string
	for _, w := range owned {
		ids = append(ids, w.WorkID)
	}
	assert.Contains(t, ids, open.WorkID)
	assert.Contains(t, ids, early.WorkID)
}
