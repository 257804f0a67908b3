package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"dive-booking/cmd"
	"dive-booking/internal/data/entity"
	"dive-booking/internal/data/repository"
	"dive-booking/internal/usecase"
	"dive-booking/internal/wire"
	"dive-booking/pkg/database"
	"dive-booking/pkg/lock"
	"dive-booking/pkg/notify"
	"dive-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("store", config.App.StoreDriver),
		zap.String("guard", config.Guard.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	var rdb *redis.Client
	if config.Redis.URL != "" {
		rdb, err = database.InitRedis(config.Redis.URL)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		logger.Info("Redis connected successfully")
	}

	repo := initRepository(config, logger)
	if repo.close != nil {
		defer repo.close()
	}

	var locker lock.Locker = lock.NewKeyedMutex(config.Guard.LockTimeout)
	if config.Guard.Driver == utils.GuardDriverRedis {
		locker = lock.NewRedisLocker(rdb, config.Guard.LockTTL, config.Guard.LockTimeout, logger)
	}

	var publisher notify.Publisher = notify.Nop{}
	if rdb != nil {
		publisher = notify.NewRedisPublisher(rdb, config.Redis.NotifyChannel, logger)
	}

	// Wire all dependencies
	app := wire.Wiring(wire.Deps{
		Repo:      repo.Repository,
		Guard:     usecase.NewGuard(locker, config.Guard.Retries, logger),
		Publisher: publisher,
	}, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}

type store struct {
	*repository.Repository
	close func()
}

func initRepository(config *utils.Config, logger *zap.Logger) store {
	if config.App.StoreDriver == utils.StoreDriverMemory {
		logger.Warn("Using in-memory store, bookings are lost on restart")
		mem := repository.NewMemoryStore()
		for _, entry := range config.App.MemoryTrips {
			trip, err := parseTrip(entry)
			if err != nil {
				logger.Fatal("Invalid MEMORY_TRIPS entry", zap.String("entry", entry), zap.Error(err))
			}
			mem.PutTrip(trip)
			logger.Info("Seeded trip", zap.String("trip_id", trip.ID.String()), zap.Int("capacity", trip.Capacity))
		}
		return store{Repository: repository.NewMemoryRepository(mem)}
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(context.Background(), db); err != nil {
			db.Close()
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database schema applied")
	}

	return store{
		Repository: repository.NewRepository(db, config.Database.LockTimeout, logger),
		close:      db.Close,
	}
}

// parseTrip reads a "<trip-uuid>=<capacity>" seed entry.
func parseTrip(entry string) (*entity.Trip, error) {
	id, capacity, ok := strings.Cut(entry, "=")
	if !ok {
		return nil, fmt.Errorf("want <trip-uuid>=<capacity>")
	}
	tripID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("trip id: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(capacity))
	if err != nil || n < 1 {
		return nil, fmt.Errorf("capacity must be a positive integer")
	}
	return &entity.Trip{Base: entity.Base{ID: tripID}, Name: tripID.String(), Capacity: n}, nil
}
