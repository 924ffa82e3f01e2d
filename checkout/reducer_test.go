package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reevit/reevit-go/checkout/checkoutmodel"
)

var (
	intent = checkoutmodel.PaymentIntent{
		ID:               "pi_123",
		ClientSecret:     "pi_123_secret",
		Amount:           1000,
		Currency:         "GHS",
		Status:           "pending",
		RecommendedPSP:   checkoutmodel.PSPHubtel,
		AvailableMethods: []checkoutmodel.PaymentMethod{checkoutmodel.PaymentMethodCard, checkoutmodel.PaymentMethodMobileMoney},
	}
	result = checkoutmodel.PaymentResult{
		PaymentID:     "pi_123",
		Reference:     "reevit_abc_def",
		Amount:        1000,
		Currency:      "GHS",
		PaymentMethod: checkoutmodel.PaymentMethodMobileMoney,
		PSP:           "hubtel",
		PSPReference:  "hub_987",
		Status:        "success",
	}
	paymentErr = checkoutmodel.PaymentError{
		Code:        "network_error",
		Message:     "Unable to connect to Reevit. Please check your internet connection.",
		Recoverable: true,
	}
)

type unknownAction struct{}

func (unknownAction) Type() string { return "SOMETHING_NEW" }

func ptr[T any](v T) *T {
	return &v
}

func TestInitialState(t *testing.T) {
	assert.Equal(t, State{Status: StatusIdle}, NewInitialState())
}

func TestReduce(t *testing.T) {
	testCases := []struct {
		name   string
		state  State
		action Action
		want   State
	}{
		{
			name:   "init start clears error",
			state:  State{Status: StatusFailed, Error: &paymentErr},
			action: InitStart{},
			want:   State{Status: StatusLoading},
		},
		{
			name:   "init success keeps selection when several methods",
			state:  State{Status: StatusLoading, SelectedMethod: ptr(checkoutmodel.PaymentMethodCard)},
			action: InitSuccess{Intent: intent},
			want:   State{Status: StatusReady, PaymentIntent: &intent, SelectedMethod: ptr(checkoutmodel.PaymentMethodCard)},
		},
		{
			name:   "init success without selection when several methods",
			state:  NewInitialState(),
			action: InitSuccess{Intent: intent},
			want:   State{Status: StatusReady, PaymentIntent: &intent},
		},
		{
			name:   "init error",
			state:  State{Status: StatusLoading},
			action: InitError{Error: paymentErr},
			want:   State{Status: StatusFailed, Error: &paymentErr},
		},
		{
			name:   "select method",
			state:  State{Status: StatusReady, PaymentIntent: &intent},
			action: SelectMethod{Method: checkoutmodel.PaymentMethodMobileMoney},
			want:   State{Status: StatusMethodSelected, PaymentIntent: &intent, SelectedMethod: ptr(checkoutmodel.PaymentMethodMobileMoney)},
		},
		{
			name:   "process start clears error",
			state:  State{Status: StatusFailed, PaymentIntent: &intent, Error: &paymentErr},
			action: ProcessStart{},
			want:   State{Status: StatusProcessing, PaymentIntent: &intent},
		},
		{
			name:   "process success",
			state:  State{Status: StatusProcessing, PaymentIntent: &intent},
			action: ProcessSuccess{Result: result},
			want:   State{Status: StatusSuccess, PaymentIntent: &intent, Result: &result},
		},
		{
			name:   "process error",
			state:  State{Status: StatusProcessing, PaymentIntent: &intent},
			action: ProcessError{Error: paymentErr},
			want:   State{Status: StatusFailed, PaymentIntent: &intent, Error: &paymentErr},
		},
		{
			name:   "close keeps payload",
			state:  State{Status: StatusSuccess, PaymentIntent: &intent, Result: &result},
			action: Close{},
			want:   State{Status: StatusClosed, PaymentIntent: &intent, Result: &result},
		},
		{
			name:   "unguarded: process success while idle",
			state:  NewInitialState(),
			action: ProcessSuccess{Result: result},
			want:   State{Status: StatusSuccess, Result: &result},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Reduce(tc.state, tc.action))
		})
	}
}

func TestSingleMethodAutoSelect(t *testing.T) {
	cardOnly := intent
	cardOnly.AvailableMethods = []checkoutmodel.PaymentMethod{checkoutmodel.PaymentMethodCard}

	got := Reduce(NewInitialState(), InitSuccess{Intent: cardOnly})

	assert.Equal(t, StatusReady, got.Status)
	if assert.NotNil(t, got.SelectedMethod) {
		assert.Equal(t, checkoutmodel.PaymentMethodCard, *got.SelectedMethod)
	}
}

func TestResetPreservesIntent(t *testing.T) {
	state := State{
		Status:         StatusSuccess,
		PaymentIntent:  &intent,
		SelectedMethod: ptr(checkoutmodel.PaymentMethodCard),
		Error:          &paymentErr,
		Result:         &result,
	}

	got := Reduce(state, Reset{})

	assert.Equal(t, State{Status: StatusReady, PaymentIntent: &intent}, got)
}

func TestReduceDoesNotModifyInput(t *testing.T) {
	state := State{Status: StatusFailed, PaymentIntent: &intent, Error: &paymentErr}
	before := state

	_ = Reduce(state, InitStart{})

	assert.Equal(t, before, state)
}

// Unknown actions are a no-op, while every known action changes a fresh state.
func TestUnknownActionIsIdentity(t *testing.T) {
	state := State{Status: StatusMethodSelected, PaymentIntent: &intent, SelectedMethod: ptr(checkoutmodel.PaymentMethodCard)}

	assert.Equal(t, state, Reduce(state, unknownAction{}))
	assert.Equal(t, state, Reduce(state, nil))

	for _, action := range knownActions() {
		assert.NotEqual(t, NewInitialState(), Reduce(NewInitialState(), action), action.Type())
	}
}

func TestReduceIsTotal(t *testing.T) {
	expected := map[string]Status{
		"INIT_START":      StatusLoading,
		"INIT_SUCCESS":    StatusReady,
		"INIT_ERROR":      StatusFailed,
		"SELECT_METHOD":   StatusMethodSelected,
		"PROCESS_START":   StatusProcessing,
		"PROCESS_SUCCESS": StatusSuccess,
		"PROCESS_ERROR":   StatusFailed,
		"RESET":           StatusReady,
		"CLOSE":           StatusClosed,
	}

	for _, status := range AllStatuses {
		for _, action := range knownActions() {
			t.Run(string(status)+"/"+action.Type(), func(t *testing.T) {
				state := State{Status: status, PaymentIntent: &intent}
				var got State
				assert.NotPanics(t, func() {
					got = Reduce(state, action)
				})
				assert.Equal(t, expected[action.Type()], got.Status)
				assert.Equal(t, &intent, got.PaymentIntent)
			})
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusSuccess.IsTerminal())
	assert.True(t, StatusClosed.IsTerminal())
	assert.False(t, StatusFailed.IsTerminal())
	assert.False(t, StatusIdle.IsTerminal())
}

func knownActions() []Action {
	return []Action{
		InitStart{},
		InitSuccess{Intent: intent},
		InitError{Error: paymentErr},
		SelectMethod{Method: checkoutmodel.PaymentMethodCard},
		ProcessStart{},
		ProcessSuccess{Result: result},
		ProcessError{Error: paymentErr},
		Reset{},
		Close{},
	}
}
