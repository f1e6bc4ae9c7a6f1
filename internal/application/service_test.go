package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmease/workmatch/internal/deadline"
	"github.com/farmease/workmatch/internal/listing"
	"github.com/farmease/workmatch/internal/notification"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	svc      *Service
	listings *listing.Service
	store    *listing.MemoryRepository
	inbox    *notification.Service
	clock    *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store: listing.NewMemoryRepository(),
		clock: &testClock{now: time.Date(2026, 10, 19, 10, 0, 0, 0, ist)},
	}
	notes := notification.NewMemoryRepository()
	rules := deadline.NewRules(ist).WithClock(f.clock.Now)
	fanout := notification.NewFanout(notes, zerolog.Nop())

	f.listings = listing.NewService(f.store, rules, fanout, zerolog.Nop())
	f.svc = NewService(f.store, rules, fanout, zerolog.Nop())
	f.inbox = notification.NewService(notes)
	return f
}

// post creates a listing dated daysOut days after the fixture's today
func (f *fixture) post(t *testing.T, daysOut, laborers int) *listing.WorkListing {
	t.Helper()
	date := f.listings.Rules().Today().AddDate(0, 0, daysOut)
	w, err := f.listings.Create(context.Background(), "farmer1", &listing.CreateWorkRequest{
		CropName:         "Cotton",
		WorkType:         "Picking",
		LaborersRequired: laborers,
		WorkDate:         deadline.FormatDate(date),
		Area:             "Warangal",
		State:            "Telangana",
	})
	require.NoError(t, err)
	return w
}

func (f *fixture) apply(workID, laborerID string) error {
	_, err := f.svc.Apply(context.Background(), laborerID, &ApplyRequest{
		WorkID:  workID,
		Name:    "Laborer " + laborerID,
		Contact: "9000000000",
	})
	return err
}

func (f *fixture) withdraw(workID, laborerID string) error {
	return f.svc.Withdraw(context.Background(), laborerID, &WithdrawRequest{WorkID: workID})
}

func TestApply(t *testing.T) {
	f := newFixture(t)
	w := f.post(t, 3, 2)

	app, err := f.svc.Apply(context.Background(), "labX", &ApplyRequest{
		WorkID:  w.WorkID,
		Name:    " Ravi ",
		Contact: "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, "labX", app.LaborerID)
	assert.Equal(t, "Ravi", app.Name)
	assert.True(t, app.AppliedAt.Equal(f.clock.Now()))

	got, err := f.listings.GetByWorkID(context.Background(), w.WorkID)
	require.NoError(t, err)
	require.Len(t, got.Applications, 1)
	assert.Equal(t, "labX", got.Applications[0].LaborerID)
}

func TestApplyDoesNotNotify(t *testing.T) {
	f := newFixture(t)
	w := f.post(t, 3, 2)
	require.NoError(t, f.apply(w.WorkID, "labX"))

	inbox, err := f.inbox.List(context.Background(), "farmer1", 10, false)
	require.NoError(t, err)
	assert.Empty(t, inbox.Notifications)
}

func TestApplyValidation(t *testing.T) {
	f := newFixture(t)
	w := f.post(t, 3, 2)

	_, err := f.svc.Apply(context.Background(), "labX", &ApplyRequest{WorkID: w.WorkID, Contact: "9000000000"})
	assert.ErrorIs(t, err, listing.ErrInvalidArgument)

	_, err = f.svc.Apply(context.Background(), "", &ApplyRequest{WorkID: w.WorkID, Name: "Ravi", Contact: "9000000000"})
	assert.ErrorIs(t, err, listing.ErrInvalidArgument)
}

func TestCapacityScenario(t *testing.T) {
	f := newFixture(t)
	w := f.post(t, 3, 1)

	require.NoError(t, f.apply(w.WorkID, "labX"))
	assert.ErrorIs(t, f.apply(w.WorkID, "labY"), ErrFull)

	require.NoError(t, f.withdraw(w.WorkID, "labX"))
	require.NoError(t, f.apply(w.WorkID, "labY"))

	got, err := f.listings.GetByWorkID(context.Background(), w.WorkID)
	require.NoError(t, err)
	require.Len(t, got.Applications, 1)
	assert.Equal(t, "labY", got.Applications[0].LaborerID)
}

func TestApplyErrors(t *testing.T) {
	f := newFixture(t)
	w := f.post(t, 3, 2)
	require.NoError(t, f.apply(w.WorkID, "labX"))

	assert.ErrorIs(t, f.apply(w.WorkID, "labX"), ErrAlreadyApplied)
	assert.ErrorIs(t, f.apply("work_missing", "labX"), listing.ErrNotFound)

	_, err := f.listings.Cancel(context.Background(), w.WorkID, "farmer1")
	require.NoError(t, err)
	assert.ErrorIs(t, f.apply(w.WorkID, "labY"), listing.ErrInvalidState)
}

func TestApplyFullTakesPrecedenceOverAlreadyApplied(t *testing.T) {
	f := newFixture(t)
	w := f.post(t, 3, 1)
	require.NoError(t, f.apply(w.WorkID, "labX"))

	assert.ErrorIs(t, f.apply(w.WorkID, "labX"), ErrFull)
}

func TestApplyDeadline(t *testing.T) {
	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"well before", time.Date(2026, 10, 20, 12, 0, 0, 0, ist), nil},
		{"one minute before cutoff", time.Date(2026, 10, 20, 22, 59, 0, 0, ist), nil},
		{"exactly at cutoff", time.Date(2026, 10, 20, 23, 0, 0, 0, ist), nil},
		{"just after cutoff", time.Date(2026, 10, 20, 23, 0, 1, 0, ist), listing.ErrDeadlinePassed},
		{"work day", time.Date(2026, 10, 21, 6, 0, 0, 0, ist), listing.ErrDeadlinePassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			w := f.post(t, 2, 5) // work date 2026-10-21

			f.clock.Set(tt.at)
			err := f.apply(w.WorkID, "labX")
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApplyDeadlineBeatsCapacity(t *testing.T) {
	f := newFixture(t)
	w := f.post(t, 2, 1)
	require.NoError(t, f.apply(w.WorkID, "labX"))

	f.clock.Set(time.Date(2026, 10, 20, 23, 30, 0, 0, ist))
	assert.ErrorIs(t, f.apply(w.WorkID, "labY"), listing.ErrDeadlinePassed)
}

func TestWithdrawDeadline(t *testing.T) {
	f := newFixture(t)
	w := f.post(t, 2, 5)
	require.NoError(t, f.apply(w.WorkID, "labX"))
	require.NoError(t, f.apply(w.WorkID, "labY"))

	// Applications are closed but withdrawals stay open until midnight.
	f.clock.Set(time.Date(2026, 10, 20, 23, 30, 0, 0, ist))
	assert.ErrorIs(t, f.apply(w.WorkID, "labZ"), listing.ErrDeadlinePassed)
	require.NoError(t, f.withdraw(w.WorkID, "labX"))

	f.clock.Set(time.Date(2026, 10, 21, 0, 0, 1, 0, ist))
	assert.ErrorIs(t, f.withdraw(w.WorkID, "labY"), listing.ErrDeadlinePassed)
}

func TestWithdrawErrors(t *testing.T) {
	f := newFixture(t)
	w := f.post(t, 3, 2)

	assert.ErrorIs(t, f.withdraw(w.WorkID, "labX"), ErrNotApplied)
	assert.ErrorIs(t, f.withdraw("work_missing", "labX"), listing.ErrNotFound)

	require.NoError(t, f.apply(w.WorkID, "labX"))
	require.NoError(t, f.withdraw(w.WorkID, "labX"))
	assert.ErrorIs(t, f.withdraw(w.WorkID, "labX"), ErrNotApplied)

	require.NoError(t, f.apply(w.WorkID, "labY"))
	_, err := f.listings.Cancel(context.Background(), w.WorkID, "farmer1")
	require.NoError(t, err)
	assert.ErrorIs(t, f.withdraw(w.WorkID, "labY"), listing.ErrInvalidState)
}

func TestWithdrawNotifiesFarmer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.post(t, 3, 2)
	require.NoError(t, f.apply(w.WorkID, "labX"))
	require.NoError(t, f.withdraw(w.WorkID, "labX"))

	inbox, err := f.inbox.List(ctx, "farmer1", 10, false)
	require.NoError(t, err)
	require.Len(t, inbox.Notifications, 1)
	n := inbox.Notifications[0]
	assert.Equal(t, notification.EventWithdrawal, n.EventType)
	assert.Equal(t, w.WorkID, n.WorkID)
	assert.Equal(t, "Picking work", n.WorkLabel)
	assert.Contains(t, n.Message, "Laborer labX")
	require.NotNil(t, n.RelatedUserID)
	assert.Equal(t, "labX", *n.RelatedUserID)

	// A second apply/withdraw round is a distinct event.
	f.clock.Set(f.clock.Now().Add(time.Minute))
	require.NoError(t, f.apply(w.WorkID, "labX"))
	require.NoError(t, f.withdraw(w.WorkID, "labX"))

	inbox, err = f.inbox.List(ctx, "farmer1", 10, false)
	require.NoError(t, err)
	assert.Len(t, inbox.Notifications, 2)
	assert.Equal(t, 2, inbox.UnreadCount)
}

func TestWithdrawTrimsWorkID(t *testing.T) {
	f := newFixture(t)
	w := f.post(t, 3, 2)
	require.NoError(t, f.apply(w.WorkID, "labX"))

	require.NoError(t, f.withdraw("  "+w.WorkID+"\t", "labX"))

	got, err := f.listings.GetByWorkID(context.Background(), w.WorkID)
	require.NoError(t, err)
	assert.Empty(t, got.Applications)

	assert.ErrorIs(t, f.withdraw("   ", "labX"), listing.ErrInvalidArgument)
}

func TestOwnerApplyingToOwnListingGetsBothNotices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.post(t, 3, 3)
	require.NoError(t, f.apply(w.WorkID, "farmer1"))
	require.NoError(t, f.apply(w.WorkID, "labA"))

	_, err := f.listings.Cancel(ctx, w.WorkID, "farmer1")
	require.NoError(t, err)

	owner, err := f.inbox.List(ctx, "farmer1", 10, false)
	require.NoError(t, err)
	require.Len(t, owner.Notifications, 2)
	assert.Equal(t, 2, owner.UnreadCount)
	roles := []notification.RecipientRole{
		owner.Notifications[0].RecipientRole,
		owner.Notifications[1].RecipientRole,
	}
	assert.ElementsMatch(t, []notification.RecipientRole{notification.RoleFarmer, notification.RoleLaborer}, roles)

	lab, err := f.inbox.List(ctx, "labA", 10, false)
	require.NoError(t, err)
	assert.Len(t, lab.Notifications, 1)
}

func TestApplyAfterSweep(t *testing.T) {
	f := newFixture(t)
	w := f.post(t, 1, 3)

	f.clock.Set(time.Date(2026, 10, 22, 8, 0, 0, 0, ist))
	n, err := f.listings.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, f.apply(w.WorkID, "labX"), listing.ErrInvalidState)
}

func TestConcurrentApplyNeverExceedsCapacity(t *testing.T) {
	f := newFixture(t)
	const capacity = 5
	w := f.post(t, 3, capacity)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := f.apply(w.WorkID, fmt.Sprintf("lab%d", i))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, capacity, successes)
	for _, err := range failures {
		assert.True(t, errors.Is(err, ErrFull) || errors.Is(err, listing.ErrConflict), err.Error())
	}

	got, err := f.listings.GetByWorkID(context.Background(), w.WorkID)
	require.NoError(t, err)
	assert.Len(t, got.Applications, capacity)
}

func TestConcurrentApplySameLaborer(t *testing.T) {
	f := newFixture(t)
	w := f.post(t, 3, 10)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.apply(w.WorkID, "labX")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			assert.True(t, errors.Is(err, ErrAlreadyApplied) || errors.Is(err, listing.ErrConflict), err.Error())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	got, err := f.listings.GetByWorkID(context.Background(), w.WorkID)
	require.NoError(t, err)
	assert.Len(t, got.Applications, 1)
}

func TestListApplied(t *testing.T) {
	f := newFixture(t)
	a := f.post(t, 3, 2)
	f.post(t, 3, 2)
	require.NoError(t, f.apply(a.WorkID, "labX"))

	works, err := f.svc.ListApplied(context.Background(), "labX")
	require.NoError(t, err)
	require.Len(t, works, 1)
	assert.Equal(t, a.WorkID, works[0].WorkID)
}
