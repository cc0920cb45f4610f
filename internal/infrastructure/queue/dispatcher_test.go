package queue

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/writerhub/marketplace/internal/session"
)

type recordingSink struct {
	mu   sync.Mutex
	got  map[string][]string
	fail bool
}

func newRecordingSink() *recordingSink {
	return &recordingSink{got: map[string][]string{}}
}

func (s *recordingSink) Deliver(_ context.Context, n session.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("sink down")
	}
	s.got[n.Channel] = append(s.got[n.Channel], n.Title)
	return nil
}

func TestDispatcher_PerChannelOrderingAndDrain(t *testing.T) {
	sink := newRecordingSink()
	d := NewDispatcher(3, sink, zerolog.Nop())
	d.Start(context.Background())

	channels := []string{"auth", "tab-1", "tab-2", "tab-3"}
	const perChannel = 50
	for i := 0; i < perChannel; i++ {
		for _, ch := range channels {
			d.Notify(session.Notification{Channel: ch, Title: fmt.Sprintf("%d", i)})
		}
	}
	d.Close()

	for _, ch := range channels {
		titles := sink.got[ch]
		if len(titles) != perChannel {
			t.Fatalf("channel %s: expected %d notifications, got %d", ch, perChannel, len(titles))
		}
		for i, title := range titles {
			if title != fmt.Sprintf("%d", i) {
				t.Fatalf("channel %s: out of order at %d: %s", ch, i, title)
			}
		}
	}
}

func TestDispatcher_NotifyAfterCloseIsDropped(t *testing.T) {
	sink := newRecordingSink()
	d := NewDispatcher(1, sink, zerolog.Nop())
	d.Start(context.Background())
	d.Close()
	d.Close()

	d.Notify(session.Notification{Channel: "auth", Title: "late"})
	if len(sink.got["auth"]) != 0 {
		t.Fatalf("expected late notification to be dropped")
	}
}

func TestDispatcher_SinkFailureDoesNotStopWorker(t *testing.T) {
	sink := newRecordingSink()
	sink.fail = true
	d := NewDispatcher(1, sink, zerolog.Nop())
	d.Start(context.Background())

	d.Notify(session.Notification{Channel: "auth", Title: "a"})
	d.Notify(session.Notification{Channel: "auth", Title: "b"})
	d.Close()

	if len(sink.got["auth"]) != 0 {
		t.Fatalf("failing sink should record nothing")
	}
}

func TestWriterSink_Format(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)
	_ = s.Deliver(context.Background(), session.Notification{Title: "Welcome Back!", Description: "Hello Alice"})
	_ = s.Deliver(context.Background(), session.Notification{Variant: session.VariantDestructive, Title: "Sign In Error", Description: "invalid email or password"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if lines[0] != "* Welcome Back!: Hello Alice" {
		t.Fatalf("unexpected line: %q", lines[0])
	}
	if lines[1] != "! Sign In Error: invalid email or password" {
		t.Fatalf("unexpected line: %q", lines[1])
	}
}

func TestMultiSink_DeliversToAll(t *testing.T) {
	a, b := newRecordingSink(), newRecordingSink()
	a.fail = true
	err := MultiSink{a, b, NewLogSink(zerolog.Nop())}.Deliver(context.Background(), session.Notification{Channel: "auth", Title: "x"})
	if err == nil {
		t.Fatalf("expected first error to be returned")
	}
	if len(b.got["auth"]) != 1 {
		t.Fatalf("later sinks must still receive the notification")
	}
}

func TestDispatcher_FeedsManager(t *testing.T) {
	sink := newRecordingSink()
	d := NewDispatcher(2, sink, zerolog.Nop())
	d.Start(context.Background())

	var n session.Notifier = d
	n.Notify(session.Notification{Channel: session.DefaultChannel, Title: "Signed Out"})
	d.Close()

	if got := sink.got[session.DefaultChannel]; len(got) != 1 || got[0] != "Signed Out" {
		t.Fatalf("unexpected delivery: %v", got)
	}
}
