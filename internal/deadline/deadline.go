package deadline

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of a work date
const DateLayout = "2006-01-02"

// Rules computes the application and cancellation cutoffs of a work date.
// Work dates are calendar dates; they are carried as time.Time values at
// midnight UTC and interpreted in the configured location.
type Rules struct {
	loc *time.Location
	now func() time.Time
}

// NewRules creates deadline rules evaluated in loc using the wall clock
func NewRules(loc *time.Location) *Rules {
	if loc == nil {
		loc = time.Local
	}
	return &Rules{loc: loc, now: time.Now}
}

// WithClock returns a copy of the rules that reads the current time from now
func (r *Rules) WithClock(now func() time.Time) *Rules {
	return &Rules{loc: r.loc, now: now}
}

// Location returns the location deadlines are evaluated in
func (r *Rules) Location() *time.Location {
	return r.loc
}

// Now returns the current instant
func (r *Rules) Now() time.Time {
	return r.now()
}

// Today returns the current calendar date in the rules' location
func (r *Rules) Today() time.Time {
	return DateOf(r.now().In(r.loc))
}

// Tomorrow returns the calendar date after Today
func (r *Rules) Tomorrow() time.Time {
	return r.Today().AddDate(0, 0, 1)
}

// ApplicationDeadline is 23:00 local time on the day before workDate
func (r *Rules) ApplicationDeadline(workDate time.Time) time.Time {
	y, m, d := workDate.Date()
	return time.Date(y, m, d-1, 23, 0, 0, 0, r.loc)
}

// CancellationDeadline is 23:59:59.999 local time on the day before workDate
func (r *Rules) CancellationDeadline(workDate time.Time) time.Time {
	y, m, d := workDate.Date()
	return time.Date(y, m, d-1, 23, 59, 59, int(999*time.Millisecond), r.loc)
}

// ApplicationOpen reports whether applications to workDate are still accepted
func (r *Rules) ApplicationOpen(workDate time.Time) bool {
	return !IsPast(r.ApplicationDeadline(workDate), r.now())
}

// CancellationOpen reports whether withdrawals and cancellations for workDate
// are still accepted
func (r *Rules) CancellationOpen(workDate time.Time) bool {
	return !IsPast(r.CancellationDeadline(workDate), r.now())
}

// EarliestApplicationDate is the first work date whose application deadline
// has not passed yet.
func (r *Rules) EarliestApplicationDate() time.Time {
	return r.earliestOpen(r.ApplicationDeadline)
}

// EarliestCancellationDate is the first work date whose cancellation deadline
// has not passed yet.
func (r *Rules) EarliestCancellationDate() time.Time {
	return r.earliestOpen(r.CancellationDeadline)
}

// Both cutoffs fall on the day before the work date, so the answer is either
// tomorrow or the day after.
func (r *Rules) earliestOpen(cutoff func(time.Time) time.Time) time.Time {
	now := r.now()
	candidate := r.Tomorrow()
	if IsPast(cutoff(candidate), now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

// IsPast reports whether now is strictly after deadline
func IsPast(deadline, now time.Time) bool {
	return now.After(deadline)
}

// DateOf truncates t to its calendar date, expressed at midnight UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD work date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders a work date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
