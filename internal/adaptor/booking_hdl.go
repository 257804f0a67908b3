package adaptor

import (
	"errors"
	"net/http"

	"dive-booking/internal/dto/request"
	"dive-booking/internal/usecase"
	"dive-booking/pkg/apperror"
	"dive-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/booking
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log.Warn("Invalid create booking body", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// CancelBooking handles POST /api/booking/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	result, err := h.service.CancelBooking(r.Context(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// GetBookingByID handles GET /api/booking/{id}
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.GetBookingByID(r.Context(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "get booking by ID")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// handleServiceError answers with the status carried by the error kind.
// Storage details stay in the log.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("kind", string(apperror.KindOf(err))),
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Storage(err, "%s failed", operation)
	}

	switch appErr.Status() {
	case http.StatusBadRequest:
		log.Warn(operation+" validation failed", fields...)
		utils.ResponseBadRequest(w, appErr.Message, nil)

	case http.StatusNotFound:
		log.Warn(operation+" failed - not found", fields...)
		utils.ResponseNotFound(w, appErr.Message)

	case http.StatusGone:
		log.Warn(operation+" failed - already cancelled", fields...)
		utils.ResponseGone(w, appErr.Message)

	case http.StatusConflict:
		log.Warn(operation+" failed - trip busy", fields...)
		utils.ResponseConflict(w, appErr.Message)

	default:
		log.Error("Failed to "+operation, fields...)
		utils.ResponseInternalError(w, "Internal server error")
	}
}
