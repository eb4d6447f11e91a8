package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Listener pulls the engine's wire stream through the multiplexer. Feed is
// called from the engine's callback thread and never blocks it; Run drains
// the queue on a single goroutine, finishing each event (parse plus every
// matching handler) before starting the next. That keeps per-event-name
// handler ordering at the cost of head-of-line blocking behind a slow
// handler.
type Listener struct {
	mux *Multiplexer
	log *zap.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  [][]byte
	closed bool
}

// NewListener creates a listener feeding mux. log may be nil.
func NewListener(mux *Multiplexer, log *zap.Logger) *Listener {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Listener{mux: mux, log: log}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Feed enqueues one wire record. The text is copied, so the engine may
// reuse its buffer the moment Feed returns. The queue is unbounded: the
// stream contract is ordered delivery of every record, so backpressure is
// not an option here.
func (l *Listener) Feed(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.queue = append(l.queue, []byte(text))
	l.cond.Signal()
}

// Run processes the stream until ctx is done or Close is called. A record
// that fails to parse is logged and skipped; the loop never dies on bad
// input.
func (l *Listener) Run(ctx context.Context) {
	stop := context.AfterFunc(ctx, l.Close)
	defer stop()

	for {
		raw, ok := l.next()
		if !ok {
			return
		}

		ev, err := ParseEvent(raw)
		if err != nil {
			l.log.Warn("skipping malformed event", zap.Error(err))
			continue
		}
		l.mux.Dispatch(ctx, ev)
	}
}

// Close wakes Run and lets it drain nothing further. Idempotent.
func (l *Listener) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.cond.Broadcast()
}

func (l *Listener) next() ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for len(l.queue) == 0 && !l.closed {
		l.cond.Wait()
	}
	if len(l.queue) == 0 {
		return nil, false
	}
	raw := l.queue[0]
	l.queue = l.queue[1:]
	return raw, true
}
