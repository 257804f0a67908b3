package usecase

import (
	"dive-booking/internal/data/repository"
	"dive-booking/pkg/notify"

	"go.uber.org/zap"
)

type Service struct {
	Booking BookingService
}

func NewService(repo *repository.Repository, guard *Guard, publisher notify.Publisher, log *zap.Logger) *Service {
	return &Service{
		Booking: NewBookingService(repo, guard, publisher, log),
	}
}
