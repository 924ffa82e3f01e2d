package mycontext

import (
	"context"
	"net/http"
	"strings"
)

// CtxTraceContext is a context key for the trace context (used by mylog)
type CtxTraceContext struct{}

func WithTrace(c context.Context, trace string) context.Context {
	return context.WithValue(c, CtxTraceContext{}, trace)
}

func TraceFrom(c context.Context) string {
	if c == nil {
		return ""
	}
	trace, ok := c.Value(CtxTraceContext{}).(string)
	if !ok {
		return ""
	}
	return trace
}

// ContextFromHTTPRequest picks up the W3C traceparent (or the legacy
// X-Cloud-Trace-Context) header so the fake backend logs the client's trace.
func ContextFromHTTPRequest(r *http.Request) context.Context {
	var trace string

	traceParent := r.Header.Get("Traceparent")
	if traceParent != "" {
		parts := strings.Split(traceParent, "-")
		if len(parts) >= 2 {
			trace = parts[1]
		}
	} else {
		traceParts := strings.Split(r.Header.Get("X-Cloud-Trace-Context"), "/")
		if len(traceParts) > 0 && len(traceParts[0]) > 0 {
			trace = traceParts[0]
		}
	}

	return WithTrace(r.Context(), trace)
}
