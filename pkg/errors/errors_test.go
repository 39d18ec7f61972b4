package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrConfigValid, "run field is required")
	assert.Equal(t, ErrConfigValid, err.Code)
	assert.Equal(t, "[CONFIG_INVALID] run field is required", err.Error())
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("open failed")
	err := Wrap(inner, ErrConfigLoad, "cannot read config")
	assert.Equal(t, "[CONFIG_LOAD] cannot read config: open failed", err.Error())
	assert.Equal(t, inner, errors.Unwrap(err))

	assert.Nil(t, Wrap(nil, ErrConfigLoad, "no-op"))
}

func TestIsErrorCode(t *testing.T) {
	err := Newf(ErrGlobInvalid, "bad pattern %q", "[a-")
	wrapped := fmt.Errorf("loading: %w", err)

	assert.True(t, IsErrorCode(wrapped, ErrGlobInvalid))
	assert.False(t, IsErrorCode(wrapped, ErrConfigLoad))
	assert.False(t, IsErrorCode(errors.New("plain"), ErrGlobInvalid))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrProcessSpawn, GetErrorCode(New(ErrProcessSpawn, "mypy not found")))
	assert.Equal(t, ErrUnknown, GetErrorCode(errors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrActionExecute, "action failed").
		WithDetail("action", "black").
		WithDetail("exitCode", 1)

	details := GetErrorDetails(err)
	assert.Equal(t, "black", details["action"])
	assert.Equal(t, 1, details["exitCode"])
}

func TestIs(t *testing.T) {
	a := New(ErrInterrupted, "run aborted")
	b := New(ErrInterrupted, "different message")
	assert.True(t, errors.Is(a, b))

	c := New(ErrActionExecute, "run aborted")
	assert.False(t, errors.Is(a, c))
}
