package listing

import (
	"fmt"
	"strings"

	"github.com/farmease/workmatch/internal/notification"
)

// CancellationEvent addresses the owning farmer and every laborer on the
// frozen applicant list. Each message names the other party.
func CancellationEvent(w *WorkListing) notification.Event {
	label := w.WorkLabel()

	farmerMsg := fmt.Sprintf("You cancelled %s for %s", label, w.CropName)
	if len(w.Applications) > 0 {
		names := make([]string, len(w.Applications))
		for i, app := range w.Applications {
			names[i] = app.Name
		}
		farmerMsg += ". Applicants notified: " + strings.Join(names, ", ")
	} else {
		farmerMsg += ". No laborers had applied"
	}

	recipients := make([]notification.Recipient, 0, len(w.Applications)+1)
	recipients = append(recipients, notification.Recipient{
		UserID:  w.FarmerID,
		Role:    notification.RoleFarmer,
		Message: farmerMsg,
	})
	for _, app := range w.Applications {
		recipients = append(recipients, notification.Recipient{
			UserID:        app.LaborerID,
			Role:          notification.RoleLaborer,
			Message:       fmt.Sprintf("Farmer %s cancelled %s for %s", w.FarmerID, label, w.CropName),
			RelatedUserID: w.FarmerID,
		})
	}

	return notification.Event{
		Key:        "cancellation:" + w.WorkID,
		Type:       notification.EventCancellation,
		WorkID:     w.WorkID,
		CropName:   w.CropName,
		WorkLabel:  label,
		Recipients: recipients,
	}
}

// WithdrawalEvent tells the owning farmer that a laborer withdrew. A laborer
// may apply and withdraw more than once, so the key includes the time of the
// withdrawn application.
func WithdrawalEvent(w *WorkListing, app Application) notification.Event {
	label := w.WorkLabel()
	return notification.Event{
		Key:       fmt.Sprintf("withdrawal:%s:%s:%d", w.WorkID, app.LaborerID, app.AppliedAt.UnixNano()),
		Type:      notification.EventWithdrawal,
		WorkID:    w.WorkID,
		CropName:  w.CropName,
		WorkLabel: label,
		Recipients: []notification.Recipient{{
			UserID:        w.FarmerID,
			Role:          notification.RoleFarmer,
			Message:       fmt.Sprintf("%s withdrew from %s for %s", app.Name, label, w.CropName),
			RelatedUserID: app.LaborerID,
		}},
	}
}
