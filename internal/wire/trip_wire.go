package wire

import (
	"dive-booking/internal/adaptor"
	"dive-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTrip(
	r chi.Router,
	tripHandler *adaptor.TripHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	log.Debug("Mounting trip routes", zap.String("app", config.App.Name))

	r.Route("/api/trip/{id}", func(r chi.Router) {
		// GET /api/trip/{id}/bookings - seats first, then the waitlist
		r.Get("/bookings", tripHandler.GetTripBookings)

		// GET /api/trip/{id}/availability - seat counts
		r.Get("/availability", tripHandler.GetTripAvailability)
	})
}
