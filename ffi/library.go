package ffi

import (
	"fmt"
	"path/filepath"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	enginebridge "github.com/screenlink/engine-bridge"
	"github.com/screenlink/engine-bridge/errors"
	"github.com/screenlink/engine-bridge/marshal"
)

// Library is a loaded engine artifact. It implements enginebridge.Binder.
type Library struct {
	handle uintptr
	path   string
}

// ArtifactName maps a platform kind onto the engine artifact filename.
// The second result is false for kinds that load no separate artifact.
func ArtifactName(kind enginebridge.Platform) (string, bool) {
	switch kind {
	case enginebridge.PlatformWindows:
		return "screenlink.dll", true
	case enginebridge.PlatformLinux, enginebridge.PlatformAndroid:
		return "libscreenlink.so", true
	case enginebridge.PlatformDarwin:
		return "libscreenlink.dylib", true
	default:
		return "", false
	}
}

// Open resolves and loads the engine artifact for kind. dir, when non-empty,
// is prepended to the artifact name; otherwise the platform loader's own
// search path applies. Kinds with no artifact (PlatformHost) bind against
// the current process image.
func Open(kind enginebridge.Platform, dir string) (*Library, error) {
	name, ok := ArtifactName(kind)
	if !ok {
		handle, err := currentProcess()
		if err != nil {
			return nil, errors.ArtifactMissing("<current process>", err)
		}
		debugf("engine assumed linked into current process")
		return &Library{handle: handle, path: "<current process>"}, nil
	}

	path := name
	if dir != "" {
		path = filepath.Join(dir, name)
	}
	handle, err := dlopen(path)
	if err != nil {
		return nil, errors.ArtifactMissing(path, err)
	}
	Logger().Debug("engine artifact loaded", zap.String("path", path))
	return &Library{handle: handle, path: path}, nil
}

// Path returns the artifact path this library was loaded from.
func (l *Library) Path() string {
	return l.path
}

// Bind resolves name and wires it into the typed function pointer fnptr
// through the generic marshaling path. purego reports a missing or
// ill-typed symbol by panicking, which Bind converts into an error.
func (l *Library) Bind(name string, fnptr any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.SymbolMissing(name, fmt.Errorf("%v", r))
		}
	}()
	purego.RegisterLibFunc(fnptr, l.handle, name)
	return nil
}

// Raw resolves name to a bare symbol address, bypassing generic marshaling.
func (l *Library) Raw(name string) (uintptr, error) {
	addr, err := dlsym(l.handle, name)
	if err != nil || addr == 0 {
		return 0, errors.SymbolMissing(name, err)
	}
	return addr, nil
}

// Close unloads the artifact. No bound function may be called afterwards.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	return dlclose(l.handle)
}

// TextCallback wraps fn as a native calling-convention callback taking one
// NUL-terminated string argument. The engine's event stream delivers each
// event through such a callback; the text is copied into Go memory before
// fn runs, so the engine may free its buffer as soon as the callback
// returns.
func TextCallback(fn func(text string)) uintptr {
	return purego.NewCallback(func(ptr uintptr) uintptr {
		fn(marshal.GoString(ptr))
		return 0
	})
}
