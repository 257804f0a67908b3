package adaptor

import (
	"net/http"

	"dive-booking/internal/usecase"
	"dive-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TripHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewTripHandler(service usecase.BookingService, log *zap.Logger) *TripHandler {
	return &TripHandler{
		service: service,
		log:     log.With(zap.String("handler", "trip")),
	}
}

// GetTripBookings handles GET /api/trip/{id}/bookings
func (h *TripHandler) GetTripBookings(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")
	if tripID == "" {
		utils.ResponseBadRequest(w, "Trip ID is required", nil)
		return
	}

	bookings, err := h.service.GetTripBookings(r.Context(), tripID)
	if err != nil {
		handleServiceError(h.log, w, err, "get trip bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetTripAvailability handles GET /api/trip/{id}/availability
func (h *TripHandler) GetTripAvailability(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")
	if tripID == "" {
		utils.ResponseBadRequest(w, "Trip ID is required", nil)
		return
	}

	availability, err := h.service.GetTripAvailability(r.Context(), tripID)
	if err != nil {
		handleServiceError(h.log, w, err, "get trip availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}
