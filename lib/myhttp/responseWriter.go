package myhttp

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/reevit/reevit-go/lib/myerrors"
	"github.com/reevit/reevit-go/lib/mylog"
)

type ResponseWriter interface {
	WriteError(c context.Context, w http.ResponseWriter, errorCode string, err error)
	Write(c context.Context, w http.ResponseWriter, httpStatus int, resp any)
}

// errorResponse mirrors the error body of the Reevit API.
type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func NewWriter(logger mylog.Logger) ResponseWriter {
	return &responseWriter{
		logger: logger,
	}
}

type responseWriter struct {
	logger mylog.Logger
}

func (rw responseWriter) WriteError(c context.Context, w http.ResponseWriter, errorCode string, err error) {
	httpStatus := myerrors.GetHTTPStatus(err)
	rw.logger.Log(c, "", mylog.SeverityWarn, "Error response: http-status:%d, error-code:%s, error-msg:%s", httpStatus, errorCode, err)
	rw.write(w, httpStatus, errorResponse{
		Code:    errorCode,
		Message: myerrors.GetMessage(err),
	})
}

func (rw responseWriter) Write(c context.Context, w http.ResponseWriter, httpStatus int, resp any) {
	rw.logger.Log(c, "", mylog.SeverityInfo, "Success response: http-status:%d", httpStatus)
	rw.write(w, httpStatus, resp)
}

func (rw responseWriter) write(w http.ResponseWriter, httpStatus int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "\t")
	err := encoder.Encode(resp)
	if err != nil {
		log.Printf("Error writing response: %s", err)
	}
}
