package engine

import (
	"fmt"

	"go.uber.org/zap"

	enginebridge "github.com/screenlink/engine-bridge"
)

// Diagnostic is one captured failure from a fire-and-forget service start.
type Diagnostic struct {
	Service string
	Err     error
}

type serviceStart struct {
	name string
	fn   func()
}

// StartPlatformServices launches the background services the engine runs
// for kind: the local URI/IPC server on every desktop platform, the desktop
// bus service on Linux, and the audio service everywhere. The starts are
// fire-and-forget: each runs on its own goroutine in the engine's
// concurrency domain, and a failure lands on diags (dropped if nobody is
// draining) instead of blocking or aborting startup.
func (s *Surface) StartPlatformServices(kind enginebridge.Platform, diags chan<- Diagnostic) {
	starts := []serviceStart{
		{"audio", s.startAudio},
	}

	switch kind {
	case enginebridge.PlatformLinux:
		starts = append(starts,
			serviceStart{"uri-server", s.startURIServer},
			serviceStart{"dbus", s.startDBus},
		)
	case enginebridge.PlatformWindows, enginebridge.PlatformDarwin:
		starts = append(starts, serviceStart{"uri-server", s.startURIServer})
	}

	for _, svc := range starts {
		go s.runService(svc.name, svc.fn, diags)
	}
}

func (s *Surface) runService(name string, fn func(), diags chan<- Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("platform service failed",
				zap.String("service", name), zap.Any("panic", r))
			if diags != nil {
				select {
				case diags <- Diagnostic{Service: name, Err: fmt.Errorf("service %s: %v", name, r)}:
				default:
				}
			}
		}
	}()
	fn()
}
