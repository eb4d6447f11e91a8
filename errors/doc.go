// Package errors provides structured error types for the engine bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes the offending symbol or entry-point name
// and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLoad, errors.KindArtifactMissing).
//		Symbol("libscreenlink.so").
//		Detail("searched %s", dir).
//		Cause(dlerr).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.SymbolMissing("sl_session_get_frame", dlerr)
//	err := errors.NativeCall("sl_init", rc)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when Phase and Kind agree, so
// callers can classify failures without string matching.
package errors
