package listing

import "github.com/farmease/workmatch/internal/deadline"

// CreateWorkRequest represents the request to post a new listing
type CreateWorkRequest struct {
	CropName         string `json:"crop_name" validate:"required"`
	WorkType         string `json:"work_type" validate:"required"`
	LaborersRequired int    `json:"laborers_required" validate:"min=1,max=50"`
	WorkDate         string `json:"work_date" validate:"required,datetime=2006-01-02"`
	Details          string `json:"details,omitempty"`
	Area             string `json:"area" validate:"required"`
	State            string `json:"state" validate:"required"`
}

// CreateWorkResponse carries the id of a newly posted listing
type CreateWorkResponse struct {
	WorkID string `json:"work_id"`
}

// ApplicationResponse represents one application on a listing
type ApplicationResponse struct {
	LaborerID string `json:"laborer_id"`
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	AppliedAt string `json:"applied_at"`
}

// WorkResponse represents the response for a listing
type WorkResponse struct {
	WorkID               string                 `json:"work_id"`
	FarmerID             string                 `json:"farmer_id"`
	CropName             string                 `json:"crop_name"`
	WorkType             string                 `json:"work_type"`
	LaborersRequired     int                    `json:"laborers_required"`
	WorkDate             string                 `json:"work_date"`
	Details              string                 `json:"details"`
	Area                 string                 `json:"area"`
	State                string                 `json:"state"`
	Status               Status                 `json:"status"`
	Applications         []*ApplicationResponse `json:"applications"`
	CreatedAt            string                 `json:"created_at"`
	CancelledAt          *string                `json:"cancelled_at,omitempty"`
	ApplicationDeadline  string                 `json:"application_deadline"`
	CancellationDeadline string                 `json:"cancellation_deadline"`
}

const timestampLayout = "2006-01-02T15:04:05Z07:00"

// ToResponse converts a WorkListing model to a WorkResponse DTO
func (w *WorkListing) ToResponse(rules *deadline.Rules) *WorkResponse {
	apps := make([]*ApplicationResponse, len(w.Applications))
	for i, a := range w.Applications {
		apps[i] = &ApplicationResponse{
			LaborerID: a.LaborerID,
			Name:      a.Name,
			Contact:   a.Contact,
			AppliedAt: a.AppliedAt.UTC().Format(timestampLayout),
		}
	}

	resp := &WorkResponse{
		WorkID:               w.WorkID,
		FarmerID:             w.FarmerID,
		CropName:             w.CropName,
		WorkType:             w.WorkType,
		LaborersRequired:     w.LaborersRequired,
		WorkDate:             deadline.FormatDate(w.WorkDate),
		Details:              w.Details,
		Area:                 w.Area,
		State:                w.State,
		Status:               w.Status,
		Applications:         apps,
		CreatedAt:            w.CreatedAt.UTC().Format(timestampLayout),
		ApplicationDeadline:  rules.ApplicationDeadline(w.WorkDate).Format(timestampLayout),
		CancellationDeadline: rules.CancellationDeadline(w.WorkDate).Format(timestampLayout),
	}
	if w.CancelledAt != nil {
		at := w.CancelledAt.UTC().Format(timestampLayout)
		resp.CancelledAt = &at
	}
	return resp
}
