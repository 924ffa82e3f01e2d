package intent

import (
	"context"
	"sync"

	"github.com/reevit/reevit-go/checkout/checkoutmodel"
)

// Pending is an intent creation that is still on the wire. Any number of
// goroutines may Wait on it; it is resolved exactly once.
type Pending struct {
	done     chan struct{}
	once     sync.Once
	response checkoutmodel.PaymentIntentResponse
	err      *checkoutmodel.PaymentError
}

func NewPending() *Pending {
	return &Pending{
		done: make(chan struct{}),
	}
}

// Resolve publishes the outcome to all waiters. Only the first call has effect.
func (p *Pending) Resolve(response checkoutmodel.PaymentIntentResponse, err *checkoutmodel.PaymentError) {
	p.once.Do(func() {
		p.response = response
		p.err = err
		close(p.done)
	})
}

func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the creation completes or ctx is done. The returned error
// is either a *checkoutmodel.PaymentError from the backend or ctx.Err().
func (p *Pending) Wait(ctx context.Context) (checkoutmodel.PaymentIntentResponse, error) {
	select {
	case <-p.done:
		if p.err != nil {
			return checkoutmodel.PaymentIntentResponse{}, p.err
		}
		return p.response, nil
	case <-ctx.Done():
		return checkoutmodel.PaymentIntentResponse{}, ctx.Err()
	}
}
