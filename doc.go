// Package enginebridge connects a host application to the precompiled
// ScreenLink native engine. It loads the engine's shared library, exposes
// typed call sites into it, and multiplexes the asynchronous event stream
// the engine emits back out to a dynamic set of subscribers.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	enginebridge/        Root package with core platform and binding types
//	├── bridge/          Lifecycle controller: ordered startup and readiness
//	├── engine/          Typed call surface over the engine's entry points
//	├── events/          Event multiplexer: registry, dispatch, stream listener
//	├── ffi/             Shared-library loading and symbol binding
//	├── marshal/         Byte buffers crossing the native boundary
//	├── device/          Device identity queries
//	├── config/          Host-side options and the opaque engine config blob
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Load the engine and bring the bridge up:
//
//	opts := config.Default()
//	opts.AppName = "screenlink"
//
//	ctl := bridge.New(opts, bridge.WithLogger(log))
//	if err := ctl.Start(ctx); err != nil {
//	    log.Fatal("engine load failed", zap.Error(err))
//	}
//
//	ctl.Events().Register("input", "keyboard", handleInput)
//	frame := ctl.Surface().GetFrame(session, 0, size)
//
// # Memory Model
//
// Buffers crossing the native boundary are never retained past the call that
// produced them. Frame memory stays owned by the engine between GetFrame and
// AdvanceFrame; GetFrame copies it into host-owned bytes before returning.
// Host strings handed to the engine are NUL-terminated copies released by the
// caller (see package marshal).
//
// # Thread Safety
//
// The controller, multiplexer, and call surface may be probed from any
// goroutine, but event dispatch runs on a single listener goroutine: one
// event is parsed and delivered to every matching handler before the next
// event is started. A slow handler therefore delays everything behind it;
// ordering is favored over throughput.
package enginebridge
