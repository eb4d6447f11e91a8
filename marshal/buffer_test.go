package marshal

import (
	"bytes"
	"testing"
	"unsafe"
)

func TestCString_NulTerminated(t *testing.T) {
	cs := NewCString("session-1")
	defer cs.Free()

	ptr := cs.Ptr()
	if ptr == 0 {
		t.Fatal("expected non-zero pointer")
	}

	got := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), len("session-1")+1)
	if !bytes.Equal(got, []byte("session-1\x00")) {
		t.Errorf("buffer = %q, want %q", got, "session-1\x00")
	}
}

func TestCString_EmptyString(t *testing.T) {
	cs := NewCString("")
	defer cs.Free()

	ptr := cs.Ptr()
	if ptr == 0 {
		t.Fatal("empty string still needs a terminator byte")
	}
	if b := *(*byte)(unsafe.Pointer(ptr)); b != 0 {
		t.Errorf("first byte = %d, want NUL", b)
	}
}

func TestCString_FreeIdempotent(t *testing.T) {
	cs := NewCString("x")
	cs.Free()
	cs.Free()

	if cs.Ptr() != 0 {
		t.Error("Ptr after Free should be 0")
	}
}

func TestCopyFrame_NullPointerIsAbsent(t *testing.T) {
	if got := CopyFrame(0, 16); got != nil {
		t.Errorf("CopyFrame(0, 16) = %v, want nil", got)
	}
	// Absent must be nil, never a zero-length slice.
	if got := CopyFrame(0, 0); got != nil {
		t.Errorf("CopyFrame(0, 0) = %v, want nil", got)
	}
}

func TestCopyFrame_CopiesOutOfNativeMemory(t *testing.T) {
	src := []byte{0xde, 0xad, 0xbe, 0xef}
	ptr := uintptr(unsafe.Pointer(&src[0]))

	got := CopyFrame(ptr, uint32(len(src)))
	if !bytes.Equal(got, src) {
		t.Fatalf("CopyFrame = %x, want %x", got, src)
	}

	// The engine may scribble over its buffer right after the call; the
	// returned bytes must be an independent copy.
	src[0] = 0x00
	if got[0] != 0xde {
		t.Error("returned slice aliases native memory")
	}
}

func TestGoString(t *testing.T) {
	buf := []byte("hello\x00trailing")
	ptr := uintptr(unsafe.Pointer(&buf[0]))

	if got := GoString(ptr); got != "hello" {
		t.Errorf("GoString = %q, want %q", got, "hello")
	}
	if got := GoString(0); got != "" {
		t.Errorf("GoString(0) = %q, want empty", got)
	}

	empty := []byte{0}
	if got := GoString(uintptr(unsafe.Pointer(&empty[0]))); got != "" {
		t.Errorf("GoString on immediate NUL = %q, want empty", got)
	}
}
