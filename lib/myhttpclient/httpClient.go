package myhttpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/reevit/reevit-go/lib/mylog"
)

type jsonHTTPClient struct {
	httpClient *http.Client
	logger     mylog.Logger
}

func newJSONHTTPClient(httpClient *http.Client, logger mylog.Logger) HTTPSender {
	return &jsonHTTPClient{
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c jsonHTTPClient) Send(ctx context.Context, method string, url string, headers http.Header, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error creating http request for %s %s: %w", method, url, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for key, values := range headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	c.logger.Log(ctx, headers.Get("Idempotency-Key"), mylog.SeverityDebug, "HTTP request: %s %s", method, url)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error sending %s %s: %w", method, url, err)
	}
	defer httpResp.Body.Close()

	respPayload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error reading response %s %s: %w", method, url, err)
	}

	c.logger.Log(ctx, headers.Get("Idempotency-Key"), mylog.SeverityDebug, "HTTP resp: %d", httpResp.StatusCode)

	return httpResp.StatusCode, respPayload, nil
}
