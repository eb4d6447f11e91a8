package events

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/screenlink/engine-bridge/errors"
)

// Event is one record off the engine's wire stream. Name tags the event
// kind; everything else is kind-specific and opaque to the multiplexer.
// Consumers that want a typed view call Decode with their own struct.
type Event struct {
	Name   string
	Fields map[string]any
	Raw    []byte
}

// Decode unmarshals the raw wire record into a consumer-supplied shape.
// Decoding is lazy and per-consumer; the multiplexer itself only ever
// looks at Name.
func (e Event) Decode(into any) error {
	if err := json.Unmarshal(e.Raw, into); err != nil {
		return errors.ParseFailure(e.Raw, err)
	}
	return nil
}

// Handler consumes one event. Handlers for the same event name run
// sequentially in registration order; a handler that blocks delays every
// event behind it.
type Handler func(ctx context.Context, ev Event)

type namedHandler struct {
	name string
	fn   Handler
}

// Multiplexer owns the handler registry and the global fallback. It lives
// for the lifetime of the bridge.
type Multiplexer struct {
	mu       sync.Mutex
	handlers map[string][]namedHandler
	fallback Handler
	log      *zap.Logger
}

// NewMultiplexer creates an empty registry. log may be nil.
func NewMultiplexer(log *zap.Logger) *Multiplexer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Multiplexer{
		handlers: make(map[string][]namedHandler),
		log:      log,
	}
}

// Register installs h under (event, handler). Returns true if newly
// inserted, false if a handler with that name already exists under the
// event — the existing handler stays installed.
func (m *Multiplexer) Register(event, handler string, h Handler) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, nh := range m.handlers[event] {
		if nh.name == handler {
			return false
		}
	}
	m.handlers[event] = append(m.handlers[event], namedHandler{name: handler, fn: h})
	return true
}

// Unregister removes (event, handler). No-op if absent.
func (m *Multiplexer) Unregister(event, handler string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.handlers[event]
	for i, nh := range list {
		if nh.name == handler {
			m.handlers[event] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// SetGlobalCallback installs the fallback invoked for events no named
// handler claims. Last registration wins; nil clears it.
func (m *Multiplexer) SetGlobalCallback(h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = h
}

// Dispatch routes ev. An event without a name is unroutable and dropped.
// Named handlers run sequentially in registration order, each to
// completion before the next. The fallback sees the event only when zero
// named handlers ran. Reports whether any handler (named or fallback)
// was invoked.
func (m *Multiplexer) Dispatch(ctx context.Context, ev Event) bool {
	if ev.Name == "" {
		m.log.Debug("dropping unroutable event without name")
		return false
	}

	m.mu.Lock()
	list := m.handlers[ev.Name]
	handlers := make([]Handler, len(list))
	for i, nh := range list {
		handlers[i] = nh.fn
	}
	fallback := m.fallback
	m.mu.Unlock()

	if len(handlers) > 0 {
		for _, h := range handlers {
			h(ctx, ev)
		}
		return true
	}

	if fallback != nil {
		fallback(ctx, ev)
		return true
	}

	m.log.Debug("dropping unclaimed event", zap.String("name", ev.Name))
	return false
}

// ParseEvent decodes one wire record. A record that is valid JSON but has
// no "name" string yields an Event with empty Name, which Dispatch drops;
// only malformed JSON is an error.
func ParseEvent(raw []byte) (Event, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Event{}, errors.ParseFailure(raw, err)
	}

	ev := Event{Fields: fields, Raw: raw}
	if name, ok := fields["name"].(string); ok {
		ev.Name = name
	}
	return ev, nil
}
