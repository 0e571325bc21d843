package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func collect(ch <-chan []byte) []string {
	var out []string
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func count(msgs []string, event string) int {
	n := 0
	for _, m := range msgs {
		if strings.HasPrefix(m, "event: "+event+"\n") {
			n++
		}
	}
	return n
}

func TestSubscribeCancel(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	_, cancel := b.Subscribe()
	if n := b.ClientCount(); n != 1 {
		t.Fatalf("ClientCount = %d, want 1", n)
	}
	cancel()
	cancel()
	if n := b.ClientCount(); n != 0 {
		t.Fatalf("ClientCount after cancel = %d, want 0", n)
	}
}

func TestPublishChange_Frame(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.PublishChange("updated", "posts/index.html")

	msgs := collect(ch)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2: %q", len(msgs), msgs)
	}
	want := "event: site.changed\ndata: {\"kind\":\"updated\",\"path\":\"posts/index.html\"}\n\n"
	if msgs[0] != want {
		t.Errorf("changed frame = %q, want %q", msgs[0], want)
	}
	if msgs[1] != "event: site.reload\ndata: {}\n\n" {
		t.Errorf("reload frame = %q", msgs[1])
	}
}

func TestPublishChange_ReloadThrottle(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.PublishChange("updated", "index.html")
	b.PublishChange("created", "style.css")

	msgs := collect(ch)
	if n := count(msgs, EventChanged); n != 2 {
		t.Errorf("changed events = %d, want 2", n)
	}
	if n := count(msgs, EventReload); n != 1 {
		t.Errorf("reload events = %d, want 1", n)
	}
}

func TestPublishChange_ReloadAfterWindow(t *testing.T) {
	b := NewBroker(20 * time.Millisecond)
	defer b.Close()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.PublishChange("updated", "index.html")
	time.Sleep(40 * time.Millisecond)
	b.PublishChange("updated", "index.html")

	if n := count(collect(ch), EventReload); n != 2 {
		t.Errorf("reload events = %d, want 2", n)
	}
}

func TestPublishChange_UnknownKindIgnored(t *testing.T) {
	b := NewBroker(10 * time.Millisecond)
	defer b.Close()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.PublishChange("chmod", "index.html")

	if msgs := collect(ch); len(msgs) != 0 {
		t.Errorf("expected no messages, got %q", msgs)
	}
}

func TestPublishChange_FullBufferDoesNotBlock(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	ch, cancel := b.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < clientBuffer*2; i++ {
			b.PublishChange("updated", "index.html")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publishing blocked on a full stream")
	}
	if n := len(collect(ch)); n != clientBuffer {
		t.Errorf("buffered %d messages, want %d", n, clientBuffer)
	}
}

func TestServeHTTP(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/_preview/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for b.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("handler never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	b.PublishChange("deleted", "old.html")
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: site.changed") || !strings.Contains(body, "event: site.reload") {
		t.Errorf("stream missing events: %q", body)
	}
	if got := w.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q", got)
	}
	if n := b.ClientCount(); n != 0 {
		t.Errorf("ClientCount after disconnect = %d, want 0", n)
	}
}

func TestServeHTTP_EndsOnClose(t *testing.T) {
	b := NewBroker(0)
	req := httptest.NewRequest(http.MethodGet, "/_preview/events", nil)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for b.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("handler never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	b.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler kept streaming after Close")
	}
}

func TestClose(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch, cancel := b.Subscribe()

	b.Close()
	b.Close()

	if _, ok := <-ch; ok {
		t.Fatal("expected stream channel to be closed")
	}
	cancel()
	if n := b.ClientCount(); n != 0 {
		t.Fatalf("ClientCount after close = %d, want 0", n)
	}

	b.PublishChange("updated", "x")
	late, _ := b.Subscribe()
	if _, ok := <-late; ok {
		t.Fatal("subscribe after close should return a closed channel")
	}
}
