package myerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type httpErrorCoder interface {
	error
	GetHTTPErrorCode() int
}

type httpError struct {
	httpCode int
	err      error
}

func (e httpError) Error() string {
	return fmt.Sprintf("status: %d, err: %s", e.httpCode, e.err.Error())
}

func (e httpError) Unwrap() error {
	return e.err
}

func (e httpError) GetHTTPErrorCode() int {
	return e.httpCode
}

func newError(httpCode int, err error) *httpError {
	return &httpError{
		httpCode: httpCode,
		err:      err,
	}
}

// NewHTTPError wraps err with an arbitrary status, e.g. one received from a
// remote server.
func NewHTTPError(httpCode int, err error) error {
	return newError(httpCode, err)
}

func NewInvalidInputError(err error) error {
	return newError(http.StatusBadRequest, err)
}

func NewInvalidInputErrorf(format string, args ...any) error {
	return NewInvalidInputError(fmt.Errorf(format, args...))
}

func NewAuthenticationError(err error) error {
	return newError(http.StatusForbidden, err)
}

func NewNotFoundError(err error) error {
	return newError(http.StatusNotFound, err)
}

func NewConflictError(err error) error {
	return newError(http.StatusConflict, err)
}

func NewUnsupportedMediaTypeError(err error) error {
	return newError(http.StatusUnsupportedMediaType, err)
}

func NewInternalError(err error) error {
	return newError(http.StatusInternalServerError, err)
}

func NewUnavailableError(err error) error {
	return newError(http.StatusServiceUnavailable, err)
}

func GetHTTPStatus(err error) int {
	if err != nil {
		var myError httpErrorCoder
		if errors.As(err, &myError) {
			return myError.GetHTTPErrorCode()
		}
	}
	return http.StatusInternalServerError
}

// IsRetryable reports whether a request that failed with this status may
// succeed when sent again unchanged.
func IsRetryable(httpStatus int) bool {
	switch {
	case httpStatus == http.StatusTooManyRequests:
		return true
	case httpStatus == http.StatusRequestTimeout:
		return true
	case httpStatus >= 500:
		return httpStatus != http.StatusNotImplemented
	default:
		return false
	}
}

// GetMessage returns the message without the status decoration, suitable for
// an API error body.
func GetMessage(err error) string {
	var myError *httpError
	if errors.As(err, &myError) {
		return myError.err.Error()
	}
	return err.Error()
}
