package request

type CreateBookingRequest struct {
	TripID  string  `json:"trip_id" validate:"required,uuid"`
	DiverID string  `json:"diver_id" validate:"required,max=128"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
