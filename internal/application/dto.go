package application

// ApplyRequest represents a laborer's application to a listing
type ApplyRequest struct {
	WorkID  string `json:"work_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact" validate:"required"`
}

// WithdrawRequest represents a laborer's withdrawal from a listing
type WithdrawRequest struct {
	WorkID string `json:"work_id" validate:"required"`
}
