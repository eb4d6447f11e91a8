package bridge

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	enginebridge "github.com/screenlink/engine-bridge"
	"github.com/screenlink/engine-bridge/config"
	"github.com/screenlink/engine-bridge/device"
	"github.com/screenlink/engine-bridge/engine"
	"github.com/screenlink/engine-bridge/errors"
	"github.com/screenlink/engine-bridge/events"
	"github.com/screenlink/engine-bridge/ffi"
)

// State is the bridge readiness state. It only ever moves forward, and only
// the controller moves it.
type State int32

const (
	StateUnloaded State = iota
	StateLoaded
	StateInitializing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	default:
		return "invalid"
	}
}

// nativeLibrary is what Start needs from a loaded artifact. Tests substitute
// a fake; production always gets *ffi.Library.
type nativeLibrary interface {
	enginebridge.Binder
	Path() string
	Close() error
}

// Controller owns the bridge lifecycle. Construct with New, bring up with
// Start (once), and hand the same instance to every consumer.
type Controller struct {
	opts config.Options
	log  *zap.Logger

	// open is the artifact loader, swapped out in tests.
	open func(kind enginebridge.Platform, dir string) (nativeLibrary, error)

	lib      nativeLibrary
	surface  *engine.Surface
	mux      *events.Multiplexer
	listener *events.Listener
	diags    chan engine.Diagnostic

	identity device.Identity
	workDir  string
	homeDir  string

	mu      sync.Mutex
	state   State
	started bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger. Default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates an unstarted controller.
func New(opts config.Options, options ...Option) *Controller {
	c := &Controller{
		opts:  opts,
		log:   zap.NewNop(),
		diags: make(chan engine.Diagnostic, 16),
	}
	for _, o := range options {
		o(c)
	}
	c.open = func(kind enginebridge.Platform, dir string) (nativeLibrary, error) {
		return ffi.Open(kind, dir)
	}
	c.mux = events.NewMultiplexer(c.log)
	c.listener = events.NewListener(c.mux, c.log)
	return c
}

// Start runs the ordered startup sequence. It returns an error only for
// fatal steps (artifact load, call-surface binding, engine init); every
// other step recovers locally, logs, and the sequence continues. A fatal
// failure leaves the bridge permanently non-Ready.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.AlreadyStarted("bridge")
	}
	c.started = true
	c.mu.Unlock()

	kind := c.opts.Platform
	if kind == "" {
		kind = enginebridge.CurrentPlatform()
	}

	// 1. Load the artifact. Nothing else is meaningful without it.
	lib, err := c.open(kind, c.opts.ArtifactDir)
	if err != nil {
		c.log.Error("engine artifact load failed", zap.Error(err))
		return err
	}
	c.lib = lib
	c.setState(StateLoaded)
	c.log.Info("engine artifact loaded", zap.String("path", lib.Path()))

	// 2. Hand-bind the frame-fetch symbol. On failure frame fetching
	// degrades to "no frames"; the rest of the bridge proceeds.
	var fetchAddr uintptr
	c.step("bind frame fetch", func() error {
		addr, err := lib.Raw(engine.SymbolGetFrame)
		if err != nil {
			return err
		}
		fetchAddr = addr
		return nil
	})

	c.setState(StateInitializing)

	// 3. Resolve a writable working directory.
	c.step("resolve working directory", func() error {
		base, err := os.UserConfigDir()
		if err != nil {
			return err
		}
		dir := filepath.Join(base, c.opts.AppName)
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
		c.workDir = dir
		return nil
	})

	// 4. Bind the call surface. A malformed symbol table is fatal.
	surface, err := engine.NewSurface(lib, c.log)
	if err != nil {
		c.log.Error("call surface binding failed", zap.Error(err))
		return err
	}
	if fetchAddr != 0 {
		surface.BindFrameFetch(fetchAddr)
	}
	c.surface = surface

	// 5. Platform background services, main instance only. Fire-and-forget:
	// failures land on the diagnostics channel.
	if c.opts.MainInstance {
		surface.StartPlatformServices(kind, c.diags)
	}

	// 6. Event listener, before any identity or config push, so no engine
	// event emitted during the rest of startup is lost.
	go c.listener.Run(ctx)
	c.step("start event stream", func() error {
		return surface.StartEventStream(c.listener.Feed)
	})

	// 7. Home directory, for kinds whose engine expects one.
	if kind != enginebridge.PlatformWindows {
		c.step("resolve home directory", func() error {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			c.homeDir = home
			return nil
		})
	}

	// 8. Device identity, sentinels on failure.
	c.step("query device identity", func() error {
		c.identity = device.Query(c.log)
		return nil
	})

	// 9. Connection-manager role setup.
	if c.opts.ConnectionManager {
		c.step("init connection manager", func() error {
			return surface.InitConnectionManager()
		})
	}

	// 10. Ordered, awaited push of identity and config. The engine init is
	// part of the mandatory path: failure here is fatal.
	surface.SetDeviceID(c.identity.ID)
	surface.SetDeviceName(c.identity.Name)
	if c.homeDir != "" {
		surface.SetHomeDir(c.homeDir)
	}
	blob, err := c.opts.EngineBlob()
	if err != nil {
		c.log.Error("config serialization failed", zap.Error(err))
		return errors.InvalidInput(errors.PhaseInit, "config blob: "+err.Error())
	}
	if err := surface.Initialize(c.workDir, blob); err != nil {
		c.log.Error("engine init failed", zap.Error(err))
		return err
	}

	// 11. Ready.
	c.setState(StateReady)
	c.log.Info("bridge ready",
		zap.String("platform", string(kind)),
		zap.String("device", c.identity.Name))
	return nil
}

// step runs one non-fatal startup step inside its own recovery boundary.
func (c *Controller) step(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("startup step panicked",
				zap.String("step", name), zap.Any("panic", r))
		}
	}()
	if err := fn(); err != nil {
		c.log.Warn("startup step failed",
			zap.String("step", name), zap.Error(err))
	}
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// State returns the current readiness state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Ready reports whether the full startup sequence completed. Callers must
// not touch the call surface before this returns true.
func (c *Controller) Ready() bool {
	return c.State() == StateReady
}

// Events returns the multiplexer. Registration is valid at any time, also
// before Start, so subscribers set up during component construction never
// miss early events.
func (c *Controller) Events() *events.Multiplexer {
	return c.mux
}

// Surface returns the engine call surface, nil before it is bound.
func (c *Controller) Surface() *engine.Surface {
	return c.surface
}

// Identity returns the device identity pushed into the engine (sentinel
// values when the platform query failed).
func (c *Controller) Identity() device.Identity {
	return c.identity
}

// WorkDir returns the working directory handed to the engine, "" if
// resolution failed.
func (c *Controller) WorkDir() string {
	return c.workDir
}

// Diagnostics returns captured failures from fire-and-forget service
// starts. Drain it or lose them; the channel never blocks a producer.
func (c *Controller) Diagnostics() <-chan engine.Diagnostic {
	return c.diags
}

// Close stops the event listener and unloads the artifact. The controller
// cannot be restarted; a new process gets a new controller.
func (c *Controller) Close() error {
	c.listener.Close()
	if c.lib != nil {
		return c.lib.Close()
	}
	return nil
}
