package marshal

import "unsafe"

// CString is a NUL-terminated byte buffer handed to native entry points.
// The buffer is host-owned; Free releases it and is safe to call more than
// once, so callers can defer it and still free early on a fast path.
type CString struct {
	buf []byte
}

// NewCString copies s into a fresh NUL-terminated buffer. Interior NUL
// bytes are passed through untouched; the engine sees a truncated string,
// which matches C semantics.
func NewCString(s string) *CString {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return &CString{buf: buf}
}

// Ptr returns the address of the first byte for a native call. The CString
// must be kept alive (and not freed) for the duration of that call.
func (c *CString) Ptr() uintptr {
	if c.buf == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(&c.buf[0]))
}

// Free releases the buffer. Idempotent.
func (c *CString) Free() {
	c.buf = nil
}

// CopyFrame copies n bytes from a native frame pointer into a host-owned
// slice. Returns nil when ptr is 0, the engine's sentinel for "no frame
// available" (session closed, display index invalid, or nothing produced
// yet). The copy happens before return; the engine may reuse ptr
// immediately afterwards.
func CopyFrame(ptr uintptr, n uint32) []byte {
	if ptr == 0 {
		return nil
	}
	out := make([]byte, n)
	if n > 0 {
		src := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n)
		copy(out, src)
	}
	return out
}

// GoString reads a NUL-terminated native string into a host-owned Go
// string. Returns "" on a null pointer.
func GoString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	var n int
	for {
		b := *(*byte)(unsafe.Pointer(ptr + uintptr(n)))
		if b == 0 {
			break
		}
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
}
