package fakereevit

import (
	"time"

	"github.com/reevit/reevit-go/checkout/checkoutmodel"
)

const (
	StatusPending   = "pending"
	StatusSucceeded = "succeeded"
	StatusCanceled  = "canceled"
)

// PaymentRecord is what the fake backend keeps per payment intent.
type PaymentRecord struct {
	ID             string
	IdempotencyKey string
	PublicKey      string
	ConnectionID   string
	Provider       string
	Method         string
	Status         string
	ClientSecret   string
	Amount         int64
	Currency       string
	Country        string
	CustomerID     string
	Reference      string
	Metadata       map[string]any
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r PaymentRecord) feeAmount() int64 {
	// 1.95% rounded down, like the cheapest mobile money route.
	return r.Amount * 195 / 10000
}

func (r PaymentRecord) ToIntentResponse() checkoutmodel.PaymentIntentResponse {
	fee := r.feeAmount()
	return checkoutmodel.PaymentIntentResponse{
		ID:           r.ID,
		ConnectionID: r.ConnectionID,
		Provider:     r.Provider,
		Status:       r.Status,
		ClientSecret: r.ClientSecret,
		PSPPublicKey: "pk_psp_" + r.Provider,
		Amount:       r.Amount,
		Currency:     r.Currency,
		FeeAmount:    fee,
		FeeCurrency:  r.Currency,
		NetAmount:    r.Amount - fee,
		Reference:    r.Reference,
		AvailablePSPs: []checkoutmodel.AvailablePSP{
			{Provider: "hubtel", Name: "Hubtel", Methods: []string{"mobile_money", "card"}, Countries: []string{"GH"}},
			{Provider: "paystack", Name: "Paystack", Methods: []string{"card", "bank_transfer"}, Countries: []string{"GH", "NG", "KE"}},
		},
	}
}

func (r PaymentRecord) ToDetailResponse() checkoutmodel.PaymentDetailResponse {
	fee := r.feeAmount()
	return checkoutmodel.PaymentDetailResponse{
		ID:           r.ID,
		ConnectionID: r.ConnectionID,
		Provider:     r.Provider,
		Method:       r.Method,
		Status:       r.Status,
		Amount:       r.Amount,
		Currency:     r.Currency,
		FeeAmount:    fee,
		FeeCurrency:  r.Currency,
		NetAmount:    r.Amount - fee,
		CustomerID:   r.CustomerID,
		ClientSecret: r.ClientSecret,
		Metadata:     r.Metadata,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
		Source:       checkoutmodel.SourceAPI,
	}
}
