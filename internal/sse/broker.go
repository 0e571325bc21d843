// Package sse pushes site change notifications to preview browsers over
// Server-Sent Events.
package sse

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Event names written on the stream.
const (
	EventChanged = "site.changed"
	EventReload  = "site.reload"
)

const (
	defaultReloadThrottle = 500 * time.Millisecond
	clientBuffer          = 64
	keepAliveInterval     = 15 * time.Second
)

var changeKinds = map[string]bool{
	"created": true,
	"updated": true,
	"deleted": true,
}

// Change is the payload of a site.changed event.
type Change struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// Broker fans change notifications out to every connected stream. A slow
// stream loses messages rather than stalling the others.
type Broker struct {
	throttle time.Duration

	mu         sync.Mutex
	streams    map[chan []byte]struct{}
	lastReload time.Time
	closed     bool
}

// NewBroker creates a broker that sends at most one site.reload per
// reloadThrottle. A non-positive throttle uses 500ms.
func NewBroker(reloadThrottle time.Duration) *Broker {
	if reloadThrottle <= 0 {
		reloadThrottle = defaultReloadThrottle
	}
	return &Broker{
		throttle: reloadThrottle,
		streams:  make(map[chan []byte]struct{}),
	}
}

// Subscribe registers a stream. The returned cancel func removes it and is
// safe to call more than once. After Close the channel is already closed.
func (b *Broker) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, clientBuffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.streams[ch] = struct{}{}

	return ch, func() { b.drop(ch) }
}

func (b *Broker) drop(ch chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.streams[ch]; ok {
		delete(b.streams, ch)
		close(ch)
	}
}

// ClientCount returns the number of open streams.
func (b *Broker) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.streams)
}

// PublishChange sends a site.changed event for path and, unless one went out
// within the throttle window, a site.reload event. Kinds other than
// created, updated and deleted are ignored.
func (b *Broker) PublishChange(kind, path string) {
	if !changeKinds[kind] {
		return
	}
	changed := frame(EventChanged, Change{Kind: kind, Path: path})

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.broadcast(changed)

	if now := time.Now(); now.Sub(b.lastReload) >= b.throttle {
		b.lastReload = now
		b.broadcast(frame(EventReload, struct{}{}))
	}
}

// broadcast must be called with mu held.
func (b *Broker) broadcast(msg []byte) {
	for ch := range b.streams {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Close ends every stream. Later publishes are no-ops.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.streams {
		close(ch)
	}
	clear(b.streams)
}

func frame(event string, data any) []byte {
	payload, err := json.Marshal(data)
	if err != nil {
		payload = []byte("{}")
	}
	msg := make([]byte, 0, len(event)+len(payload)+16)
	msg = append(msg, "event: "...)
	msg = append(msg, event...)
	msg = append(msg, "\ndata: "...)
	msg = append(msg, payload...)
	return append(msg, "\n\n"...)
}

// ServeHTTP streams events until the client goes away or the broker closes.
// A comment line is sent periodically so idle proxies keep the connection.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	msgs, cancel := b.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
