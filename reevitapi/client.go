package reevitapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	formcodec "github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"

	"github.com/reevit/reevit-go/checkout/checkoutmodel"
	"github.com/reevit/reevit-go/lib/myerrors"
	"github.com/reevit/reevit-go/lib/myhttpclient"
	"github.com/reevit/reevit-go/lib/mylog"
	"github.com/reevit/reevit-go/lib/myuuid"
	"github.com/reevit/reevit-go/regional"
)

const (
	BaseURLProduction = "https://api.reevit.io"
	BaseURLSandbox    = "https://sandbox-api.reevit.io"
	DefaultTimeout    = 30 * time.Second

	ClientName    = "reevit-go"
	ClientVersion = "0.3.2"
)

var sandboxKeyPrefixes = []string{"pk_test_", "pk_sandbox_", "pfk_test_", "pfk_sandbox_"}

var validate = validator.New()

type ClientConfig struct {
	PublicKey string
	// BaseURL defaults to the sandbox or production API depending on the key.
	BaseURL string
	Timeout time.Duration
}

func IsSandboxKey(publicKey string) bool {
	for _, prefix := range sandboxKeyPrefixes {
		if strings.HasPrefix(publicKey, prefix) {
			return true
		}
	}
	return false
}

type Client struct {
	publicKey string
	baseURL   string
	timeout   time.Duration
	sender    myhttpclient.HTTPSender
	uuider    myuuid.UUIDer
	logger    mylog.Logger
}

func NewClient(cfg ClientConfig, logger mylog.Logger) *Client {
	cfg.Timeout = timeoutOrDefault(cfg.Timeout)
	return NewClientWithSender(cfg, myhttpclient.New(cfg.Timeout, logger), logger)
}

// NewClientWithSender allows tests and integrators to plug in their own transport.
func NewClientWithSender(cfg ClientConfig, sender myhttpclient.HTTPSender, logger mylog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURLProduction
		if IsSandboxKey(cfg.PublicKey) {
			baseURL = BaseURLSandbox
		}
	}

	return &Client{
		publicKey: cfg.PublicKey,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		timeout:   timeoutOrDefault(cfg.Timeout),
		sender:    sender,
		uuider:    myuuid.RealUUIDer{},
		logger:    logger,
	}
}

func timeoutOrDefault(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return DefaultTimeout
	}
	return timeout
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// IntentRequest carries everything needed to create one payment intent.
type IntentRequest struct {
	Config             checkoutmodel.Config
	Method             checkoutmodel.PaymentMethod
	Country            string
	PreferredProviders []string
	AllowedProviders   []string
	// IdempotencyKey and Reference normally come from intent.Resolver.
	IdempotencyKey string
	Reference      string
}

func (c *Client) CreatePaymentIntent(ctx context.Context, req IntentRequest) (checkoutmodel.PaymentIntentResponse, *checkoutmodel.PaymentError) {
	resp := checkoutmodel.PaymentIntentResponse{}

	err := validate.Struct(req.Config)
	if err != nil {
		return resp, &checkoutmodel.PaymentError{
			Code:        "invalid_request",
			Message:     err.Error(),
			Recoverable: true,
		}
	}

	country := req.Country
	if country == "" {
		country = regional.DetectCountryFromCurrency(req.Config.Currency)
	}

	metadata := make(map[string]any, len(req.Config.Metadata)+2)
	for k, v := range req.Config.Metadata {
		metadata[k] = v
	}
	if req.Config.Email != "" {
		metadata["customer_email"] = req.Config.Email
	}
	if req.Config.Phone != "" {
		metadata["customer_phone"] = req.Config.Phone
	}

	customerID := req.Config.Email
	if customerID == "" {
		if id, ok := req.Config.Metadata["customerId"].(string); ok {
			customerID = id
		}
	}

	reference := req.Reference
	if reference == "" {
		reference = req.Config.Reference
	}

	body := checkoutmodel.CreatePaymentIntentRequest{
		Amount:          req.Config.Amount,
		Currency:        req.Config.Currency,
		Method:          mapPaymentMethod(req.Method),
		Country:         country,
		CustomerID:      customerID,
		Reference:       reference,
		Metadata:        metadata,
		PaymentLinkCode: req.Config.PaymentLinkCode,
	}
	if len(req.PreferredProviders) > 0 || len(req.AllowedProviders) > 0 {
		body.Policy = &checkoutmodel.IntentPolicy{
			Prefer:           req.PreferredProviders,
			AllowedProviders: req.AllowedProviders,
		}
	}

	perr := c.request(ctx, http.MethodPost, "/v1/payments/intents", req.IdempotencyKey, body, &resp)
	return resp, perr
}

func (c *Client) GetPaymentIntent(ctx context.Context, paymentID string) (checkoutmodel.PaymentDetailResponse, *checkoutmodel.PaymentError) {
	resp := checkoutmodel.PaymentDetailResponse{}
	perr := c.request(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), "", nil, &resp)
	return resp, perr
}

// ConfirmPayment confirms a payment after the PSP called back.
func (c *Client) ConfirmPayment(ctx context.Context, paymentID string) (checkoutmodel.PaymentDetailResponse, *checkoutmodel.PaymentError) {
	resp := checkoutmodel.PaymentDetailResponse{}
	perr := c.request(ctx, http.MethodPost, "/v1/payments/"+url.PathEscape(paymentID)+"/confirm", "", nil, &resp)
	return resp, perr
}

type clientSecretQuery struct {
	ClientSecret string `form:"client_secret"`
}

func encodeClientSecret(clientSecret string) (string, error) {
	values, err := formcodec.NewEncoder().Encode(clientSecretQuery{ClientSecret: clientSecret})
	if err != nil {
		return "", fmt.Errorf("error encoding client secret: %w", err)
	}
	return values.Encode(), nil
}

// ConfirmPaymentIntent confirms through the public endpoint that only needs
// the intent's client secret.
func (c *Client) ConfirmPaymentIntent(ctx context.Context, paymentID string, clientSecret string) (checkoutmodel.PaymentDetailResponse, *checkoutmodel.PaymentError) {
	resp := checkoutmodel.PaymentDetailResponse{}

	query, err := encodeClientSecret(clientSecret)
	if err != nil {
		return resp, unknownError(err)
	}

	perr := c.request(ctx, http.MethodPost, "/v1/payments/"+url.PathEscape(paymentID)+"/confirm-intent?"+query, "", nil, &resp)
	return resp, perr
}

func (c *Client) CancelPaymentIntent(ctx context.Context, paymentID string) (checkoutmodel.PaymentDetailResponse, *checkoutmodel.PaymentError) {
	resp := checkoutmodel.PaymentDetailResponse{}
	perr := c.request(ctx, http.MethodPost, "/v1/payments/"+url.PathEscape(paymentID)+"/cancel", "", nil, &resp)
	return resp, perr
}

// CreateHubtelSession returns a short-lived token wrapping the Hubtel
// credentials, so they never reach the client directly.
func (c *Client) CreateHubtelSession(ctx context.Context, paymentID string, clientSecret string) (checkoutmodel.HubtelSessionResponse, *checkoutmodel.PaymentError) {
	resp := checkoutmodel.HubtelSessionResponse{}

	path := "/v1/payments/hubtel/sessions/" + url.PathEscape(paymentID)
	if clientSecret != "" {
		query, err := encodeClientSecret(clientSecret)
		if err != nil {
			return resp, unknownError(err)
		}
		path += "?" + query
	}

	perr := c.request(ctx, http.MethodPost, path, "", nil, &resp)
	return resp, perr
}

func (c *Client) request(ctx context.Context, method string, path string, idempotencyKey string, body any, out any) *checkoutmodel.PaymentError {
	headers := http.Header{}
	headers.Set("X-Reevit-Key", c.publicKey)
	headers.Set("X-Reevit-Client", ClientName)
	headers.Set("X-Reevit-Client-Version", ClientVersion)
	if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
		if idempotencyKey == "" {
			idempotencyKey = c.uuider.Create()
		}
		headers.Set("Idempotency-Key", idempotencyKey)
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return unknownError(fmt.Errorf("error marshalling request body: %w", err))
		}
	}

	status, respPayload, err := c.sender.Send(ctx, method, c.baseURL+path, headers, payload)
	if err != nil {
		c.logger.Log(ctx, idempotencyKey, mylog.SeverityWarn, "%s %s failed: %s", method, path, err)
		return transportError(err)
	}

	if status < 200 || status > 299 {
		c.logger.Log(ctx, idempotencyKey, mylog.SeverityWarn, "%s %s returned %d", method, path, status)
		return apiError(status, respPayload)
	}

	if out != nil && len(respPayload) > 0 {
		err = json.Unmarshal(respPayload, out)
		if err != nil {
			return &checkoutmodel.PaymentError{
				Code:    "invalid_response",
				Message: "The server returned an unreadable response.",
				Details: map[string]any{"httpStatus": status},
			}
		}
	}

	return nil
}

func apiError(status int, payload []byte) *checkoutmodel.PaymentError {
	body := checkoutmodel.APIErrorResponse{}
	_ = json.Unmarshal(payload, &body)

	perr := &checkoutmodel.PaymentError{
		Code:        body.Code,
		Message:     body.Message,
		Recoverable: myerrors.IsRetryable(status),
		Details:     map[string]any{"httpStatus": status},
	}
	if perr.Code == "" {
		perr.Code = "api_error"
	}
	if perr.Message == "" {
		perr.Message = "An unexpected error occurred"
	}
	for k, v := range body.Details {
		perr.Details[k] = v
	}
	return perr
}

func transportError(err error) *checkoutmodel.PaymentError {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return &checkoutmodel.PaymentError{
			Code:        "request_timeout",
			Message:     "The request timed out. Please try again.",
			Recoverable: true,
		}
	case errors.Is(err, context.Canceled):
		return &checkoutmodel.PaymentError{
			Code:        "request_cancelled",
			Message:     "The request was cancelled.",
			Recoverable: true,
		}
	case errors.As(err, &netErr):
		return &checkoutmodel.PaymentError{
			Code:        "network_error",
			Message:     "Unable to connect to Reevit. Please check your internet connection.",
			Recoverable: true,
		}
	default:
		return unknownError(err)
	}
}

func unknownError(err error) *checkoutmodel.PaymentError {
	return &checkoutmodel.PaymentError{
		Code:        "unknown_error",
		Message:     "An unexpected error occurred. Please try again.",
		Recoverable: true,
		Details:     map[string]any{"cause": err.Error()},
	}
}

func mapPaymentMethod(method checkoutmodel.PaymentMethod) string {
	switch method {
	case checkoutmodel.PaymentMethodCard:
		return "card"
	case checkoutmodel.PaymentMethodMobileMoney:
		return "mobile_money"
	case checkoutmodel.PaymentMethodBankTransfer:
		return "bank_transfer"
	default:
		return string(method)
	}
}
