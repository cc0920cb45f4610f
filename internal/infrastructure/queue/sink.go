package queue

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/writerhub/marketplace/internal/session"
)

// WriterSink prints notifications as single console lines.
type WriterSink struct {
	mu  sync.Mutex
	out io.Writer
}

func NewWriterSink(out io.Writer) *WriterSink {
	return &WriterSink{out: out}
}

func (s *WriterSink) Deliver(_ context.Context, n session.Notification) error {
	marker := "*"
	if n.Variant == session.VariantDestructive {
		marker = "!"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.out, "%s %s: %s\n", marker, n.Title, n.Description)
	return err
}

// LogSink records notifications through zerolog.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) LogSink {
	return LogSink{log: log}
}

func (s LogSink) Deliver(_ context.Context, n session.Notification) error {
	ev := s.log.Info()
	if n.Variant == session.VariantDestructive {
		ev = s.log.Warn()
	}
	ev.Str("channel", n.Channel).
		Str("variant", string(n.Variant)).
		Str("description", n.Description).
		Time("at", n.At).
		Msg(n.Title)
	return nil
}

// MultiSink delivers to every sink in order and returns the first error.
type MultiSink []Sink

func (m MultiSink) Deliver(ctx context.Context, n session.Notification) error {
	var first error
	for _, s := range m {
		if err := s.Deliver(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}
