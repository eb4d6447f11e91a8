// Package events routes the engine's event stream to subscribers.
//
// Routing is two-tier. Named handlers are keyed by (event name, handler
// name); every handler registered under an event's name runs, in
// registration order, each to completion before the next. Only when no
// named handler ran does the single global fallback see the event. Feature
// code can therefore intercept the events it cares about while a catch-all
// keeps observing everything else.
//
// Handler names are a collision guard: Register returns false instead of
// overwriting, so two independent subscribers cannot silently clobber each
// other.
//
// The Listener consumes the engine's wire stream (one JSON text record per
// event, tagged with a "name" field) on a single goroutine. One bad record
// is logged and skipped; it never terminates the loop. An event without a
// "name" is unroutable and dropped with a debug diagnostic.
package events
