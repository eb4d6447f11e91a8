package enginebridge

import "runtime"

// Platform identifies which native engine artifact to load and which
// platform-conditional startup steps apply.
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformAndroid Platform = "android"

	// PlatformHost assumes the engine is already linked into the current
	// process image instead of living in a separate artifact.
	PlatformHost Platform = "host"
)

// CurrentPlatform maps the running OS onto a Platform kind.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return PlatformWindows
	case "linux":
		return PlatformLinux
	case "darwin":
		return PlatformDarwin
	case "android":
		return PlatformAndroid
	default:
		return PlatformHost
	}
}

// SessionID identifies one remote session. It is opaque to the bridge and
// never reused while the session is active.
type SessionID string

// Binder resolves native entry points. Two strategies live behind it:
// Bind wires a typed Go function pointer through the generic marshaling
// path, Raw hands back a bare symbol address for hand-declared hot-path
// calls that must not pay for generic marshaling.
type Binder interface {
	Bind(name string, fnptr any) error
	Raw(name string) (uintptr, error)
}
