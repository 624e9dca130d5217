package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// WriterSink prints one line per notification, optionally colored by severity.
type WriterSink struct {
	mu       sync.Mutex
	w        io.Writer
	colorize bool
}

func NewWriterSink(w io.Writer, colorize bool) *WriterSink {
	return &WriterSink{w: w, colorize: colorize}
}

func (s *WriterSink) Notify(_ context.Context, n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.colorize {
		fmt.Fprintf(s.w, "[%s] %s\n", n.Severity, n.Message)
		return
	}
	fmt.Fprintf(s.w, "%s[%s]%s %s\n", severityColor(n.Severity), n.Severity, colorReset, n.Message)
}

func severityColor(s Severity) string {
	switch s {
	case SeveritySuccess:
		return colorGreen
	case SeverityWarning:
		return colorYellow
	case SeverityError:
		return colorRed
	default:
		return colorCyan
	}
}
