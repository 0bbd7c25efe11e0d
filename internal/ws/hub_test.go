package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)

	c := &Client{hub: h, send: make(chan []byte, 4)}
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	id := uuid.New()
	h.NotifySeminarChanged("seminar_entered", id)

	select {
	case msg := <-c.send:
		var evt SeminarEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if evt.Type != "seminar_entered" || evt.SeminarID != id || evt.Timestamp == "" {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no message delivered")
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Unregister(c)
	waitFor(t, func() bool { return h.ClientCount() == 0 })
	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel closed")
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)

	c := &Client{hub: h, send: make(chan []byte)}
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Broadcast([]byte(`{}`))
	waitFor(t, func() bool { return h.ClientCount() == 0 })
}

func TestHub_NilSafe(t *testing.T) {
	var h *Hub
	h.NotifySeminarChanged("seminar_updated", uuid.New())
	h.Broadcast([]byte("x"))
	if h.ClientCount() != 0 {
		t.Fatalf("expected zero clients")
	}
}

func TestHub_UnregisterAfterShutdownDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	h := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return")
	}
	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel closed on shutdown")
	}

	// More disconnects than the unregister buffer holds.
	finished := make(chan struct{})
	go func() {
		for i := 0; i < 300; i++ {
			h.Unregister(&Client{hub: h, send: make(chan []byte)})
		}
		h.Unregister(c)
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("Unregister blocked after Run returned")
	}
}

func TestHub_RegisterAfterShutdownClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.Register(c)
	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel closed")
	}
	if h.ClientCount() != 0 {
		t.Fatalf("expected no clients after shutdown")
	}
}
