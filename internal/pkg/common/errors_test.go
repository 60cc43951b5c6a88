package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomErrorWrap(t *testing.T) {
	cause := errors.New("open recipes.csv: no such file")
	err := fmt.Errorf("startup: %w", ErrIndexLoad.Wrap(cause))

	assert.True(t, errors.Is(err, ErrIndexLoad))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrCacheMiss))
	assert.Contains(t, err.Error(), "no such file")

	ce, ok := AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, "INDEX_LOAD_FAILED", ce.Code)
	assert.Equal(t, http.StatusServiceUnavailable, ce.Status)

	_, ok = AsCustomError(cause)
	assert.False(t, ok)
}

func TestCustomErrorResponse(t *testing.T) {
	resp := ErrInvalidRequest.Response("bad body")

	assert.Equal(t, ErrorResponse{
		Code:    ErrCodeInvalidRequest,
		Message: ErrInvalidRequest.Message,
		Details: "bad body",
	}, resp)
	assert.Equal(t, ErrInvalidRequest.Message, ErrInvalidRequest.Error())
}
