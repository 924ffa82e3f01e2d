package fakereevit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/reevit/reevit-go/checkout/checkoutmodel"
	"github.com/reevit/reevit-go/lib/myerrors"
	"github.com/reevit/reevit-go/lib/mylog"
	"github.com/reevit/reevit-go/lib/mystore"
	"github.com/reevit/reevit-go/lib/mytime"
	"github.com/reevit/reevit-go/lib/myuuid"
)

// UnavailableAmount makes intent creation fail as if every PSP was down.
const UnavailableAmount = 666

var (
	ErrPaymentDoesNotExist = errors.New("payment does not exist")
	ErrPSPUnavailable      = errors.New("no payment provider available")
	ErrAlreadyFinal        = errors.New("payment is already final")
	ErrClientSecret        = errors.New("client secret does not match")
)

type service struct {
	store     mystore.Store[PaymentRecord]
	nower     mytime.Nower
	uuider    myuuid.UUIDer
	logger    mylog.Logger
	latency   time.Duration
	creations atomic.Int64
}

func newService(store mystore.Store[PaymentRecord], nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger, latency time.Duration) *service {
	return &service{
		store:   store,
		nower:   nower,
		uuider:  uuider,
		logger:  logger,
		latency: latency,
	}
}

// createIntent returns the stored intent when the idempotency key was seen
// before; created reports whether a new one was made.
func (s *service) createIntent(c context.Context, publicKey string, idempotencyKey string, req checkoutmodel.CreatePaymentIntentRequest) (PaymentRecord, bool, error) {
	if req.Amount <= 0 {
		return PaymentRecord{}, false, myerrors.NewInvalidInputErrorf("amount must be positive, got %d", req.Amount)
	}
	if len(req.Currency) != 3 {
		return PaymentRecord{}, false, myerrors.NewInvalidInputErrorf("invalid currency %q", req.Currency)
	}

	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-c.Done():
			return PaymentRecord{}, false, c.Err()
		}
	}

	if req.Amount == UnavailableAmount {
		return PaymentRecord{}, false, myerrors.NewHTTPError(502, ErrPSPUnavailable)
	}

	var (
		record  PaymentRecord
		created bool
	)
	err := s.store.RunInTransaction(c, func(c context.Context) error {
		if idempotencyKey != "" {
			existing, err := s.store.Query(c, []mystore.Filter{{Field: "IdempotencyKey", Compare: "=", Value: idempotencyKey}}, "")
			if err != nil {
				return myerrors.NewInternalError(err)
			}
			if len(existing) > 0 {
				record = existing[0]
				return nil
			}
		}

		now := s.nower.Now()
		id := "pay_" + strings.ReplaceAll(s.uuider.Create(), "-", "")
		record = PaymentRecord{
			ID:             id,
			IdempotencyKey: idempotencyKey,
			PublicKey:      publicKey,
			ConnectionID:   "conn_" + strings.ToLower(req.Country),
			Provider:       providerFor(req),
			Method:         req.Method,
			Status:         StatusPending,
			ClientSecret:   id + "_secret_" + strings.ReplaceAll(s.uuider.Create(), "-", "")[:12],
			Amount:         req.Amount,
			Currency:       req.Currency,
			Country:        req.Country,
			CustomerID:     req.CustomerID,
			Reference:      req.Reference,
			Metadata:       req.Metadata,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		err := s.store.Put(c, id, record)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		created = true
		return nil
	})
	if err != nil {
		return PaymentRecord{}, false, err
	}

	if created {
		s.creations.Add(1)
		s.logger.Log(c, idempotencyKey, mylog.SeverityInfo, "Created payment %s for %d %s", record.ID, record.Amount, record.Currency)
	} else {
		s.logger.Log(c, idempotencyKey, mylog.SeverityInfo, "Replayed payment %s", record.ID)
	}

	return record, created, nil
}

func providerFor(req checkoutmodel.CreatePaymentIntentRequest) string {
	if req.Policy != nil {
		if len(req.Policy.Prefer) > 0 {
			return req.Policy.Prefer[0]
		}
		if len(req.Policy.AllowedProviders) > 0 {
			return req.Policy.AllowedProviders[0]
		}
	}
	if req.Country == "GH" && (req.Method == "mobile_money" || req.Method == "") {
		return "hubtel"
	}
	return "paystack"
}

func (s *service) getPayment(c context.Context, id string) (PaymentRecord, error) {
	record, exists, err := s.store.Get(c, id)
	if err != nil {
		return PaymentRecord{}, myerrors.NewInternalError(err)
	}
	if !exists {
		return PaymentRecord{}, myerrors.NewNotFoundError(fmt.Errorf("%w: %s", ErrPaymentDoesNotExist, id))
	}
	return record, nil
}

// transition moves a pending payment to status. Repeating a transition that
// already happened is accepted.
func (s *service) transition(c context.Context, id string, clientSecret *string, status string) (PaymentRecord, error) {
	var record PaymentRecord
	err := s.store.RunInTransaction(c, func(c context.Context) error {
		var err error
		record, err = s.getPayment(c, id)
		if err != nil {
			return err
		}
		if clientSecret != nil && *clientSecret != record.ClientSecret {
			return myerrors.NewAuthenticationError(ErrClientSecret)
		}
		if record.Status == status {
			return nil
		}
		if record.Status != StatusPending {
			return myerrors.NewConflictError(fmt.Errorf("%w: %s is %s", ErrAlreadyFinal, id, record.Status))
		}

		record.Status = status
		record.UpdatedAt = s.nower.Now()
		err = s.store.Put(c, id, record)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return PaymentRecord{}, err
	}

	s.logger.Log(c, record.IdempotencyKey, mylog.SeverityInfo, "Payment %s is %s", id, record.Status)

	return record, nil
}

func (s *service) createHubtelSession(c context.Context, id string, clientSecret *string) (checkoutmodel.HubtelSessionResponse, error) {
	record, err := s.getPayment(c, id)
	if err != nil {
		return checkoutmodel.HubtelSessionResponse{}, err
	}
	if clientSecret != nil && *clientSecret != record.ClientSecret {
		return checkoutmodel.HubtelSessionResponse{}, myerrors.NewAuthenticationError(ErrClientSecret)
	}

	const lifetime = 5 * time.Minute
	return checkoutmodel.HubtelSessionResponse{
		Token:            "hst_" + strings.ReplaceAll(s.uuider.Create(), "-", ""),
		MerchantAccount:  "2017174",
		ExpiresInSeconds: int(lifetime.Seconds()),
		ExpiresAt:        s.nower.Now().Add(lifetime).Unix(),
	}, nil
}

func (s *service) Creations() int64 {
	return s.creations.Load()
}
