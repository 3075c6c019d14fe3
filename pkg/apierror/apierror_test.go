package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError(t *testing.T) {
	err := BadRequest("invalid note id", "id")
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Equal(t, "BAD_REQUEST: invalid note id (id)", err.Error())

	var wrapped error = New("RATE_LIMITED", "Too many requests", "", http.StatusTooManyRequests)
	var target *APIError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "RATE_LIMITED: Too many requests", target.Error())

	var nilErr *APIError
	assert.Empty(t, nilErr.Error())
}
