package mylog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/reevit/reevit-go/lib/mycontext"
)

func init() {
	if os.Getenv("REEVIT_LOG_FORMAT") == "json" {
		New = newStructuredLogger
		// A timestamp prefix would break the JSON lines.
		log.SetFlags(0)
	}
}

type structuredLogger struct {
	componentName string
}

func newStructuredLogger(componentName string) Logger {
	return structuredLogger{
		componentName: componentName,
	}
}

func (l structuredLogger) Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...any) {
	log.Println(entry{
		Component: l.componentName,
		Labels:    map[string]string{"intent": traceLabel},
		Trace:     mycontext.TraceFrom(ctx),
		Severity:  string(severity),
		Message:   l.componentName + ":" + fmt.Sprintf(format, a...),
	}.String())
}

type entry struct {
	Component string            `json:"component,omitempty"`
	Labels    map[string]string `json:"labels,omitempty"`
	Trace     string            `json:"trace,omitempty"`
	Severity  string            `json:"severity,omitempty"`
	Message   string            `json:"message"`
}

func (e entry) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		log.Printf("error marshalling log record: %v", err)
	}

	return string(out)
}
