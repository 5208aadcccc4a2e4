package scanerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedKind(t *testing.T) {
	err := Wrap(KindToolTimeout, "nmap-quick timed out", errors.New("context deadline exceeded"))
	assert.True(t, Is(err, KindToolTimeout))
	assert.False(t, Is(err, KindParseFailure))
}

func TestErrorMessageIncludesCauseWhenPresent(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindToolArgumentError, "bad flag", cause)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "bad flag")

	bare := New(KindInvalidInput, "empty target")
	assert.NotContains(t, bare.Error(), "<nil>")
}

func TestHaltsOnlyForInvalidInputAndArchitectureViolation(t *testing.T) {
	assert.True(t, Halts(New(KindInvalidInput, "x")))
	assert.True(t, Halts(New(KindArchitectureViolation, "x")))
	assert.False(t, Halts(New(KindToolTimeout, "x")))
	assert.False(t, Halts(New(KindParseFailure, "x")))
	assert.False(t, Halts(errors.New("plain error")))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(KindBudgetExhausted, "ran out of time", cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}
