package myerrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	myErr := fmt.Errorf("my error")

	testCases := []struct {
		name       string
		in         error
		httpStatus int
		errorText  string
	}{
		{
			name:       "No http error",
			in:         myErr,
			httpStatus: 500,
			errorText:  "my error",
		},
		{
			name:       "Invalid input error",
			in:         NewInvalidInputError(myErr),
			httpStatus: 400,
			errorText:  "status: 400, err: my error",
		},
		{
			name:       "Invalid input errorf",
			in:         NewInvalidInputErrorf("%s: %d", myErr.Error(), 123),
			httpStatus: 400,
			errorText:  "status: 400, err: my error: 123",
		},
		{
			name:       "Authentication error",
			in:         NewAuthenticationError(myErr),
			httpStatus: 403,
			errorText:  "status: 403, err: my error",
		},
		{
			name:       "Not found error",
			in:         NewNotFoundError(myErr),
			httpStatus: 404,
			errorText:  "status: 404, err: my error",
		},
		{
			name:       "Conflict error",
			in:         NewConflictError(myErr),
			httpStatus: 409,
			errorText:  "status: 409, err: my error",
		},
		{
			name:       "UnsupportedMedia error",
			in:         NewUnsupportedMediaTypeError(myErr),
			httpStatus: 415,
			errorText:  "status: 415, err: my error",
		},
		{
			name:       "Internal error",
			in:         NewInternalError(myErr),
			httpStatus: 500,
			errorText:  "status: 500, err: my error",
		},
		{
			name:       "Not available error",
			in:         NewUnavailableError(myErr),
			httpStatus: 503,
			errorText:  "status: 503, err: my error",
		},
		{
			name:       "Wrapped remote error",
			in:         fmt.Errorf("calling backend: %w", NewHTTPError(422, myErr)),
			httpStatus: 422,
			errorText:  "calling backend: status: 422, err: my error",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.httpStatus, GetHTTPStatus(tc.in))
			assert.Equal(t, tc.errorText, tc.in.Error())
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(429))
	assert.True(t, IsRetryable(408))
	assert.True(t, IsRetryable(502))
	assert.False(t, IsRetryable(501))
	assert.False(t, IsRetryable(400))
	assert.False(t, IsRetryable(404))
}

func TestGetMessage(t *testing.T) {
	myErr := fmt.Errorf("my error")

	assert.Equal(t, "my error", GetMessage(NewNotFoundError(myErr)))
	assert.Equal(t, "my error", GetMessage(myErr))
}
