package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/raghavshulka/ai-draw/internal/store"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("expected no event, got %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

// fakeMessageStore records saves and can be told to fail.
type fakeMessageStore struct {
	mu    sync.Mutex
	saved []store.Message
	err   error
	saves chan store.Message
}

func newFakeMessageStore(err error) *fakeMessageStore {
	return &fakeMessageStore{
		err:   err,
		saves: make(chan store.Message, 16),
	}
}

func (f *fakeMessageStore) SaveMessage(_ context.Context, msg *store.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, *msg)
	f.saves <- *msg
	return nil
}

func (f *fakeMessageStore) ListMessages(context.Context, string, int) ([]*store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*store.Message, 0, len(f.saved))
	for i := range f.saved {
		out = append(out, &f.saved[i])
	}
	return out, nil
}

func mustAdmit(t *testing.T, r *Registry, userID int64, username string) *Conn {
	t.Helper()

	c, err := r.Admit(userID, username)
	if err != nil {
		t.Fatalf("admit %q: %v", username, err)
	}
	return c
}
