// Package engine is the typed call surface over the native engine's entry
// points.
//
// Every control-path entry point (init, identity setters, frame metadata,
// texture registration, translation, service starters) is bound through the
// generic marshaling path at construction; a missing symbol fails NewSurface,
// because an artifact with a malformed symbol table is not worth limping
// along with.
//
// The one exception is frame fetch. It is bound separately, from a raw
// symbol address with a hand-declared signature (see BindFrameFetch), so the
// per-frame hot loop pays for exactly one copy: engine memory into the
// returned slice. A bridge whose frame-fetch binding failed still works;
// GetFrame just reports no frames.
//
// Platform service starters are fire-and-forget. They run in the engine's
// own concurrency domain, must never block bridge startup, and report
// failures through a diagnostics channel instead of errors.
package engine
