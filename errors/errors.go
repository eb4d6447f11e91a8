package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in bridge processing the error occurred
type Phase string

const (
	PhaseLoad   Phase = "load"   // artifact resolution and dlopen
	PhaseBind   Phase = "bind"   // symbol resolution and binding
	PhaseEvent  Phase = "event"  // event stream parsing and dispatch
	PhaseDevice Phase = "device" // platform identity queries
	PhaseCall   Phase = "call"   // awaited native entry-point calls
	PhaseInit   Phase = "init"   // lifecycle controller startup
)

// Kind categorizes the error
type Kind string

const (
	KindArtifactMissing Kind = "artifact_missing"
	KindSymbolMissing   Kind = "symbol_missing"
	KindParseFailure    Kind = "parse_failure"
	KindDeviceQuery     Kind = "device_query"
	KindNativeCall      Kind = "native_call"
	KindNotReady        Kind = "not_ready"
	KindInvalidInput    Kind = "invalid_input"
	KindAlreadyStarted  Kind = "already_started"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Symbol string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Symbol != "" {
		b.WriteString(": ")
		b.WriteString(e.Symbol)
	}

	if e.Detail != "" {
		if e.Symbol != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Symbol sets the native symbol or entry-point name
func (b *Builder) Symbol(name string) *Builder {
	b.err.Symbol = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ArtifactMissing creates a load error for an engine artifact that could not
// be resolved or opened
func ArtifactMissing(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindArtifactMissing,
		Symbol: path,
		Cause:  cause,
	}
}

// SymbolMissing creates a bind error for an entry point absent from the
// loaded artifact's symbol table
func SymbolMissing(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindSymbolMissing,
		Symbol: name,
		Cause:  cause,
	}
}

// ParseFailure creates an event error for wire text that failed to parse.
// Only a short preview of the offending text is kept.
func ParseFailure(raw []byte, cause error) *Error {
	preview := raw
	if len(preview) > 64 {
		preview = preview[:64]
	}
	return &Error{
		Phase:  PhaseEvent,
		Kind:   KindParseFailure,
		Detail: fmt.Sprintf("unparseable event text: %q", preview),
		Cause:  cause,
	}
}

// DeviceQuery creates a device identity lookup error
func DeviceQuery(cause error) *Error {
	return &Error{
		Phase: PhaseDevice,
		Kind:  KindDeviceQuery,
		Cause: cause,
	}
}

// NativeCall creates an error for an awaited entry point that reported a
// nonzero return code
func NativeCall(entry string, rc int32) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindNativeCall,
		Symbol: entry,
		Detail: fmt.Sprintf("returned %d", rc),
	}
}

// NotReady creates an error for a call-surface operation attempted before
// the bridge reached Ready
func NotReady(component string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindNotReady,
		Detail: fmt.Sprintf("%s is not ready", component),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// AlreadyStarted creates an error for a second Start on a single-start component
func AlreadyStarted(component string) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindAlreadyStarted,
		Detail: fmt.Sprintf("%s already started", component),
	}
}

// Load wraps a cause with load phase context
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindArtifactMissing,
		Detail: detail,
		Cause:  cause,
	}
}
