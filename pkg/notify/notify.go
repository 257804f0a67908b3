// Package notify publishes booking events for downstream consumers such as
// the diver messaging system.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const EventBookingPromoted = "booking.promoted"

type Event struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	TripID     string    `json:"trip_id"`
	DiverID    string    `json:"diver_id"`
	SeatNumber int       `json:"seat_number"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

type RedisPublisher struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

func NewRedisPublisher(client *redis.Client, channel string, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
		log:     log.With(zap.String("publisher", "redis")),
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}

	p.log.Debug("Event published",
		zap.String("type", event.Type),
		zap.String("booking_id", event.BookingID),
		zap.Int64("receivers", receivers),
	)
	return nil
}
