package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrip(t *testing.T) {
	id := uuid.New()

	trip, err := parseTrip(id.String() + "=6")
	require.NoError(t, err)
	assert.Equal(t, id, trip.ID)
	assert.Equal(t, 6, trip.Capacity)

	for _, bad := range []string{"", id.String(), "x=2", id.String() + "=0", id.String() + "=many"} {
		_, err := parseTrip(bad)
		assert.Error(t, err, bad)
	}
}
