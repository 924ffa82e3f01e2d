package checkout

import (
	"github.com/reevit/reevit-go/checkout/checkoutmodel"
)

type Status string

const (
	StatusIdle           Status = "idle"
	StatusLoading        Status = "loading"
	StatusReady          Status = "ready"
	StatusMethodSelected Status = "method_selected"
	StatusProcessing     Status = "processing"
	StatusSuccess        Status = "success"
	StatusFailed         Status = "failed"
	StatusClosed         Status = "closed"
)

var AllStatuses = []Status{
	StatusIdle,
	StatusLoading,
	StatusReady,
	StatusMethodSelected,
	StatusProcessing,
	StatusSuccess,
	StatusFailed,
	StatusClosed,
}

// IsTerminal reports whether the checkout needs no further user interaction.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusClosed
}

// State is owned by Reduce. Status is the discriminator; the pointer fields
// are payload slots that are only meaningful for some statuses (Error only
// when failed, Result only when success).
type State struct {
	Status         Status
	PaymentIntent  *checkoutmodel.PaymentIntent
	SelectedMethod *checkoutmodel.PaymentMethod
	Error          *checkoutmodel.PaymentError
	Result         *checkoutmodel.PaymentResult
}

func NewInitialState() State {
	return State{
		Status: StatusIdle,
	}
}
