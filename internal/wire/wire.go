package wire

import (
	"net/http"

	"dive-booking/internal/adaptor"
	"dive-booking/internal/data/repository"
	"dive-booking/internal/usecase"
	"dive-booking/pkg/middleware"
	"dive-booking/pkg/notify"
	"dive-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface
type App struct {
	Router *chi.Mux
}

// Deps are the infrastructure pieces main builds from config.
type Deps struct {
	Repo      *repository.Repository
	Guard     *usecase.Guard
	Publisher notify.Publisher
}

// Wiring builds services and handlers on top of deps and mounts the routes.
func Wiring(deps Deps, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(deps.Repo, deps.Guard, deps.Publisher, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(handler, config, logger),
	}
}

func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	wireBooking(r, handler.Booking, config, logger)
	wireTrip(r, handler.Trip, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
