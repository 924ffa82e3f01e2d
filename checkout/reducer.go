package checkout

// Reduce computes the next checkout state. It is pure: the input state is not
// modified and no I/O happens. Any action is accepted in any status so that
// late or out-of-order UI and network events never wedge the flow.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case InitStart:
		state.Status = StatusLoading
		state.Error = nil

	case InitSuccess:
		intent := a.Intent
		state.Status = StatusReady
		state.PaymentIntent = &intent
		if len(intent.AvailableMethods) == 1 {
			method := intent.AvailableMethods[0]
			state.SelectedMethod = &method
		}

	case InitError:
		err := a.Error
		state.Status = StatusFailed
		state.Error = &err

	case SelectMethod:
		method := a.Method
		state.Status = StatusMethodSelected
		state.SelectedMethod = &method

	case ProcessStart:
		state.Status = StatusProcessing
		state.Error = nil

	case ProcessSuccess:
		result := a.Result
		state.Status = StatusSuccess
		state.Result = &result

	case ProcessError:
		err := a.Error
		state.Status = StatusFailed
		state.Error = &err

	case Reset:
		// The intent survives so method selection can restart without a refetch.
		next := NewInitialState()
		next.Status = StatusReady
		next.PaymentIntent = state.PaymentIntent
		return next

	case Close:
		state.Status = StatusClosed
	}

	return state
}
