package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"dive-booking/internal/usecase"

	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; notes are the largest field.
const maxBodyBytes = 64 << 10

type Handler struct {
	Booking *BookingHandler
	Trip    *TripHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Booking, log),
		Trip:    NewTripHandler(service.Booking, log),
	}
}

// decodeJSON reads exactly one JSON object and rejects unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
