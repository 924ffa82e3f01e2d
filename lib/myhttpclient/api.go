package myhttpclient

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/reevit/reevit-go/lib/mylog"
)

//go:generate mockgen -source=api.go -package myhttpclient -destination http_sender_mock.go HTTPSender
type HTTPSender interface {
	Send(c context.Context, method string, url string, headers http.Header, body []byte) (int, []byte, error)
}

func New(timeout time.Duration, logger mylog.Logger) HTTPSender {
	return newJSONHTTPClient(&http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}, logger)
}

// NewWithClient lets callers bring their own transport, e.g. the client of an
// httptest.Server.
func NewWithClient(httpClient *http.Client, logger mylog.Logger) HTTPSender {
	return newJSONHTTPClient(httpClient, logger)
}
