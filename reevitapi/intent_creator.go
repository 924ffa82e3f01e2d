package reevitapi

import (
	"context"
	"errors"

	"github.com/reevit/reevit-go/checkout"
	"github.com/reevit/reevit-go/checkout/checkoutmodel"
	"github.com/reevit/reevit-go/intent"
	"github.com/reevit/reevit-go/lib/mylog"
)

// IntentCreator creates payment intents at most once per logical request.
// Callers that race on the same request share the single outstanding call;
// a completed intent is served from the cache until it expires.
type IntentCreator struct {
	client   *Client
	resolver *intent.Resolver
	logger   mylog.Logger
}

func NewIntentCreator(client *Client, resolver *intent.Resolver, logger mylog.Logger) *IntentCreator {
	return &IntentCreator{
		client:   client,
		resolver: resolver,
		logger:   logger,
	}
}

// Create returns the intent for opts. The backend call runs detached from
// ctx and is bounded by the client timeout, so a caller that gives up only
// stops waiting; the others sharing the call still get its result.
func (ic *IntentCreator) Create(ctx context.Context, opts intent.Options, country string) (checkoutmodel.PaymentIntentResponse, intent.Identity, *checkoutmodel.PaymentError) {
	identity := ic.resolver.Resolve(opts)
	key := identity.IdempotencyKey

	pending, owner, entry := ic.resolver.Cache().ClaimPending(key)
	if entry.Response != nil {
		ic.logger.Log(ctx, key, mylog.SeverityDebug, "Serving intent %s from cache", entry.Response.ID)
		return *entry.Response, identity, nil
	}

	if owner {
		go ic.create(context.WithoutCancel(ctx), opts, country, identity, pending)
	} else {
		ic.logger.Log(ctx, key, mylog.SeverityDebug, "Waiting for intent creation already in flight")
	}

	resp, err := pending.Wait(ctx)
	if err != nil {
		return resp, identity, asPaymentError(err)
	}
	return resp, identity, nil
}

// Initialize creates the intent and turns the outcome into the action that
// starts the checkout state machine.
func (ic *IntentCreator) Initialize(ctx context.Context, opts intent.Options, country string) checkout.Action {
	resp, _, perr := ic.Create(ctx, opts, country)
	if perr != nil {
		return checkout.InitError{Error: *perr}
	}
	return checkout.InitSuccess{Intent: resp.ToPaymentIntent(opts.Config.PaymentMethods)}
}

func (ic *IntentCreator) create(ctx context.Context, opts intent.Options, country string, identity intent.Identity, pending *intent.Pending) {
	ctx, cancel := context.WithTimeout(ctx, ic.client.Timeout())
	defer cancel()

	key := identity.IdempotencyKey
	cache := ic.resolver.Cache()

	ic.logger.Log(ctx, key, mylog.SeverityInfo, "Creating payment intent with reference %s", identity.Reference)

	resp, perr := ic.client.CreatePaymentIntent(ctx, IntentRequest{
		Config:             opts.Config,
		Method:             opts.Method,
		Country:            country,
		PreferredProviders: preferred(opts.PreferredProvider),
		AllowedProviders:   opts.AllowedProviders,
		IdempotencyKey:     key,
		Reference:          identity.Reference,
	})
	if perr != nil {
		// Forget the attempt so the next call retries instead of replaying the failure.
		cache.ClearPending(key, pending)
		pending.Resolve(checkoutmodel.PaymentIntentResponse{}, perr)
		ic.logger.Log(ctx, key, mylog.SeverityWarn, "Creating payment intent failed: %s", perr)
		return
	}

	cache.CacheResponse(key, resp)
	pending.Resolve(resp, nil)

	ic.logger.Log(ctx, key, mylog.SeverityInfo, "Created payment intent %s", resp.ID)
}

func preferred(provider string) []string {
	if provider == "" {
		return nil
	}
	return []string{provider}
}

func asPaymentError(err error) *checkoutmodel.PaymentError {
	var perr *checkoutmodel.PaymentError
	if errors.As(err, &perr) {
		return perr
	}
	return transportError(err)
}
