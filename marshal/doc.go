// Package marshal owns every byte buffer that crosses the native boundary.
//
// Two directions, two rules:
//
// Host to engine: strings become NUL-terminated CString buffers. The caller
// releases them, exactly once, on every exit path:
//
//	cs := marshal.NewCString(string(session))
//	defer cs.Free()
//	fetch(cs.Ptr(), display)
//
// Engine to host: frame memory stays owned by the engine. CopyFrame copies
// the bytes out synchronously, before control returns to the caller, because
// the engine may free or reuse the pointer the moment the fetch call is over.
// A null pointer is the engine's sentinel for "no frame available" and comes
// back as nil, never as an empty slice.
package marshal
