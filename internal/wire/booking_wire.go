package wire

import (
	"dive-booking/internal/adaptor"
	"dive-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	log.Debug("Mounting booking routes", zap.String("app", config.App.Name))

	r.Route("/api/booking", func(r chi.Router) {
		// POST /api/booking - allocate a seat or waitlist slot
		r.Post("/", bookingHandler.CreateBooking)

		// GET /api/booking/{id} - booking detail, cancelled included
		r.Get("/{id}", bookingHandler.GetBookingByID)

		// POST /api/booking/{id}/cancel - cancel and promote the waitlist head
		r.Post("/{id}/cancel", bookingHandler.CancelBooking)
	})
}
