package listing

import "time"

// Status represents the lifecycle state of a work listing
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

const (
	MinLaborers = 1
	MaxLaborers = 50
)

// Application is a laborer's entry on a listing
type Application struct {
	LaborerID string    `json:"laborer_id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	AppliedAt time.Time `json:"applied_at"`
}

// WorkListing represents a posted unit of short-term farm work
type WorkListing struct {
	ID               int64         `json:"-"` // storage id, never exposed
	WorkID           string        `json:"work_id"`
	FarmerID         string        `json:"farmer_id"`
	CropName         string        `json:"crop_name"`
	WorkType         string        `json:"work_type"`
	LaborersRequired int           `json:"laborers_required"`
	WorkDate         time.Time     `json:"work_date"`
	Details          string        `json:"details"`
	Area             string        `json:"area"`
	State            string        `json:"state"`
	Status           Status        `json:"status"`
	Applications     []Application `json:"applications"`
	CreatedAt        time.Time     `json:"created_at"`
	CancelledAt      *time.Time    `json:"cancelled_at,omitempty"`
}

// WorkLabel is the human readable name used in notifications
func (w *WorkListing) WorkLabel() string {
	return w.WorkType + " work"
}

// IsFull reports whether every laborer slot is taken
func (w *WorkListing) IsFull() bool {
	return len(w.Applications) >= w.LaborersRequired
}

// HasApplicant reports whether laborerID holds an application
func (w *WorkListing) HasApplicant(laborerID string) bool {
	return w.FindApplication(laborerID) != nil
}

// FindApplication returns the application of laborerID, or nil
func (w *WorkListing) FindApplication(laborerID string) *Application {
	for i := range w.Applications {
		if w.Applications[i].LaborerID == laborerID {
			return &w.Applications[i]
		}
	}
	return nil
}

// Clone returns a deep copy safe to hand out of a store
func (w *WorkListing) Clone() *WorkListing {
	cp := *w
	cp.Applications = append([]Application(nil), w.Applications...)
	if w.CancelledAt != nil {
		at := *w.CancelledAt
		cp.CancelledAt = &at
	}
	return &cp
}
