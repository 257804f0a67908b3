package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := NotFound("trip %s not found", "abc")
	wrapped := fmt.Errorf("create booking: %w", base)

	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindConflict))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, "create booking: trip abc not found", wrapped.Error())
}

func TestUntaggedErrorIsStorage(t *testing.T) {
	assert.Equal(t, KindStorage, KindOf(errors.New("connection reset")))
}

func TestStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:       http.StatusBadRequest,
		KindNotFound:         http.StatusNotFound,
		KindAlreadyCancelled: http.StatusGone,
		KindConflict:         http.StatusConflict,
		KindStorage:          http.StatusInternalServerError,
	}
	for kind, want := range cases {
		t.Run(string(kind), func(t *testing.T) {
			assert.Equal(t, want, (&Error{Kind: kind}).Status())
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("lock timeout")
	err := Conflict(cause, "trip %d busy", 7)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "trip 7 busy: lock timeout", err.Error())
}
