package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base holds the identity and audit columns shared by every table.
type Base struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
