package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslatePgError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		contention bool
	}{
		{"lock timeout", &pgconn.PgError{Code: pgLockNotAvailable, Message: "canceling statement due to lock timeout"}, true},
		{"serialization", &pgconn.PgError{Code: pgSerializationFailure}, true},
		{"deadlock", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: pgDeadlockDetected}), true},
		{"seat taken", &pgconn.PgError{Code: pgUniqueViolation}, true},
		{"syntax", &pgconn.PgError{Code: "42601"}, false},
		{"plain", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translatePgError(tt.err)
			assert.Equal(t, tt.contention, errors.Is(got, ErrContention))
		})
	}
}
