package checkout

import (
	"github.com/reevit/reevit-go/checkout/checkoutmodel"
)

// Action is implemented by every event Reduce understands. The set is closed
// in practice; Reduce ignores types it does not know.
type Action interface {
	Type() string
}

type InitStart struct{}

type InitSuccess struct {
	Intent checkoutmodel.PaymentIntent
}

type InitError struct {
	Error checkoutmodel.PaymentError
}

type SelectMethod struct {
	Method checkoutmodel.PaymentMethod
}

type ProcessStart struct{}

type ProcessSuccess struct {
	Result checkoutmodel.PaymentResult
}

type ProcessError struct {
	Error checkoutmodel.PaymentError
}

type Reset struct{}

type Close struct{}

func (InitStart) Type() string      { return "INIT_START" }
func (InitSuccess) Type() string    { return "INIT_SUCCESS" }
func (InitError) Type() string      { return "INIT_ERROR" }
func (SelectMethod) Type() string   { return "SELECT_METHOD" }
func (ProcessStart) Type() string   { return "PROCESS_START" }
func (ProcessSuccess) Type() string { return "PROCESS_SUCCESS" }
func (ProcessError) Type() string   { return "PROCESS_ERROR" }
func (Reset) Type() string          { return "RESET" }
func (Close) Type() string          { return "CLOSE" }
