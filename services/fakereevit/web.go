package fakereevit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/reevit/reevit-go/checkout/checkoutmodel"
	"github.com/reevit/reevit-go/lib/mycontext"
	"github.com/reevit/reevit-go/lib/myerrors"
	"github.com/reevit/reevit-go/lib/myhttp"
	"github.com/reevit/reevit-go/lib/mylog"
	"github.com/reevit/reevit-go/lib/mystore"
	"github.com/reevit/reevit-go/lib/mytime"
	"github.com/reevit/reevit-go/lib/myuuid"
)

var (
	errMissingKey  = errors.New("missing X-Reevit-Key header")
	errNotJSON     = errors.New("request body must be application/json")
	queryDecoder   = form.NewDecoder()
	maxRequestBody = int64(1 << 20)
)

// WebService is an in-memory stand-in for the Reevit payments API, used as
// a sandbox and as the backend of the client tests.
type WebService struct {
	logger  mylog.Logger
	service *service
}

type secretQuery struct {
	ClientSecret *string `form:"client_secret"`
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(c context.Context, nower mytime.Nower, uuider myuuid.UUIDer, latency time.Duration) (*WebService, func(), error) {
	logger := mylog.New("fakereevit")

	store, cleanup, err := mystore.New[PaymentRecord](c)
	if err != nil {
		return nil, func() {}, err
	}

	return &WebService{
		logger:  logger,
		service: newService(store, nower, uuider, logger, latency),
	}, cleanup, nil
}

func (s *WebService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/v1/payments/intents", s.createIntent()).Methods("POST")
	router.HandleFunc("/v1/payments/hubtel/sessions/{paymentID}", s.createHubtelSession()).Methods("POST")
	router.HandleFunc("/v1/payments/{paymentID}", s.getPayment()).Methods("GET")
	router.HandleFunc("/v1/payments/{paymentID}/confirm", s.confirm()).Methods("POST")
	router.HandleFunc("/v1/payments/{paymentID}/confirm-intent", s.confirmIntent()).Methods("POST")
	router.HandleFunc("/v1/payments/{paymentID}/cancel", s.cancel()).Methods("POST")

	return nil
}

// Ping reports whether the payment store can be read.
func (s *WebService) Ping(c context.Context) error {
	_, err := s.service.store.List(c)
	if err != nil {
		return myerrors.NewUnavailableError(err)
	}
	return nil
}

// Creations reports how many intents were actually created, replays excluded.
func (s *WebService) Creations() int64 {
	return s.service.Creations()
}

func (s *WebService) createIntent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		publicKey, err := s.authenticate(r)
		if err != nil {
			writer.WriteError(c, w, "unauthorized", err)
			return
		}

		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType != "application/json" {
			writer.WriteError(c, w, "unsupported_media_type", myerrors.NewUnsupportedMediaTypeError(errNotJSON))
			return
		}

		req := checkoutmodel.CreatePaymentIntentRequest{}
		err = json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req)
		if err != nil {
			writer.WriteError(c, w, "invalid_request", myerrors.NewInvalidInputError(fmt.Errorf("error parsing request body: %w", err)))
			return
		}

		record, created, err := s.service.createIntent(c, publicKey, r.Header.Get("Idempotency-Key"), req)
		if err != nil {
			writer.WriteError(c, w, errorCode(err), err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writer.Write(c, w, status, record.ToIntentResponse())
	}
}

func (s *WebService) getPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		_, err := s.authenticate(r)
		if err != nil {
			writer.WriteError(c, w, "unauthorized", err)
			return
		}

		record, err := s.service.getPayment(c, mux.Vars(r)["paymentID"])
		if err != nil {
			writer.WriteError(c, w, errorCode(err), err)
			return
		}

		writer.Write(c, w, http.StatusOK, record.ToDetailResponse())
	}
}

func (s *WebService) confirm() http.HandlerFunc {
	return s.transition(StatusSucceeded, false)
}

func (s *WebService) confirmIntent() http.HandlerFunc {
	return s.transition(StatusSucceeded, true)
}

func (s *WebService) cancel() http.HandlerFunc {
	return s.transition(StatusCanceled, false)
}

func (s *WebService) transition(status string, requireSecret bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		_, err := s.authenticate(r)
		if err != nil {
			writer.WriteError(c, w, "unauthorized", err)
			return
		}

		query, err := parseSecret(r)
		if err != nil {
			writer.WriteError(c, w, "invalid_request", err)
			return
		}
		if requireSecret && query.ClientSecret == nil {
			writer.WriteError(c, w, "invalid_request", myerrors.NewInvalidInputErrorf("missing client_secret"))
			return
		}

		record, err := s.service.transition(c, mux.Vars(r)["paymentID"], query.ClientSecret, status)
		if err != nil {
			writer.WriteError(c, w, errorCode(err), err)
			return
		}

		writer.Write(c, w, http.StatusOK, record.ToDetailResponse())
	}
}

func (s *WebService) createHubtelSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		_, err := s.authenticate(r)
		if err != nil {
			writer.WriteError(c, w, "unauthorized", err)
			return
		}

		query, err := parseSecret(r)
		if err != nil {
			writer.WriteError(c, w, "invalid_request", err)
			return
		}

		session, err := s.service.createHubtelSession(c, mux.Vars(r)["paymentID"], query.ClientSecret)
		if err != nil {
			writer.WriteError(c, w, errorCode(err), err)
			return
		}

		writer.Write(c, w, http.StatusOK, session)
	}
}

func (s *WebService) authenticate(r *http.Request) (string, error) {
	publicKey := r.Header.Get("X-Reevit-Key")
	if publicKey == "" {
		return "", myerrors.NewAuthenticationError(errMissingKey)
	}
	return publicKey, nil
}

func parseSecret(r *http.Request) (secretQuery, error) {
	query := secretQuery{}
	err := queryDecoder.Decode(&query, r.URL.Query())
	if err != nil {
		return query, myerrors.NewInvalidInputError(fmt.Errorf("error parsing query: %w", err))
	}
	return query, nil
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrPaymentDoesNotExist):
		return "payment_not_found"
	case errors.Is(err, ErrPSPUnavailable):
		return "psp_unavailable"
	case errors.Is(err, ErrAlreadyFinal):
		return "payment_final"
	case errors.Is(err, ErrClientSecret):
		return "invalid_client_secret"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "request_cancelled"
	}

	switch myerrors.GetHTTPStatus(err) {
	case http.StatusBadRequest:
		return "invalid_request"
	default:
		return "internal_error"
	}
}
