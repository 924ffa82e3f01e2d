package mylog

import "context"

type Severity string

const (
	SeverityDebug Severity = "DEBUG"
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

var New func(name string) Logger

type Logger interface {
	Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...any)
}

// Discard returns a logger that drops everything. Useful as a default for SDK
// consumers that bring no logger of their own.
func Discard() Logger {
	return discardLogger{}
}

type discardLogger struct{}

func (discardLogger) Log(context.Context, string, Severity, string, ...any) {}
