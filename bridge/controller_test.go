package bridge

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	enginebridge "github.com/screenlink/engine-bridge"
	"github.com/screenlink/engine-bridge/config"
	"github.com/screenlink/engine-bridge/engine"
	"github.com/screenlink/engine-bridge/errors"
	"github.com/screenlink/engine-bridge/events"
)

// recorder collects the calls that reached the fake engine, in order.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) index(call string) int {
	for i, c := range r.all() {
		if c == call {
			return i
		}
	}
	return -1
}

// fakeLib satisfies nativeLibrary against a map of Go implementations.
type fakeLib struct {
	fns    map[string]any
	rawErr error
	closed bool
}

func (f *fakeLib) Bind(name string, fnptr any) error {
	impl, ok := f.fns[name]
	if !ok {
		return errors.SymbolMissing(name, nil)
	}
	reflect.ValueOf(fnptr).Elem().Set(reflect.ValueOf(impl))
	return nil
}

func (f *fakeLib) Raw(name string) (uintptr, error) {
	if f.rawErr != nil {
		return 0, f.rawErr
	}
	return 1, nil
}

func (f *fakeLib) Path() string { return "<fake>" }

func (f *fakeLib) Close() error {
	f.closed = true
	return nil
}

func engineStubs(rec *recorder) map[string]any {
	return map[string]any{
		"sl_init":                        func(appDir, cfg string) int32 { rec.add("init"); return 0 },
		"sl_set_device_id":               func(id string) { rec.add("device_id:" + id) },
		"sl_set_device_name":             func(name string) { rec.add("device_name") },
		"sl_set_home_dir":                func(dir string) { rec.add("home_dir") },
		"sl_session_frame_size":          func(session string, display int32) uint32 { return 0 },
		"sl_session_next_frame":          func(session string, display int32) {},
		"sl_session_register_pixelbuffer": func(session string, display int32, buffer uintptr) int32 { return 0 },
		"sl_session_register_gpu_texture": func(session string, display int32, handle uintptr) int32 { return 0 },
		"sl_translate":                   func(name, locale string) uintptr { return 0 },
		"sl_start_event_stream":          func(callback uintptr) int32 { rec.add("event_stream"); return 0 },
		"sl_init_connection_manager":     func() int32 { rec.add("cm"); return 0 },
		"sl_start_uri_server":            func() { rec.add("svc:uri") },
		"sl_start_dbus_service":          func() { rec.add("svc:dbus") },
		"sl_start_audio_service":         func() { rec.add("svc:audio") },
	}
}

func testOptions() config.Options {
	opts := config.Default()
	opts.AppName = "bridge-test"
	opts.Platform = enginebridge.PlatformLinux
	opts.MainInstance = false
	return opts
}

func newTestController(t *testing.T, opts config.Options, lib *fakeLib) *Controller {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := New(opts)
	c.open = func(kind enginebridge.Platform, dir string) (nativeLibrary, error) {
		return lib, nil
	}
	return c
}

func TestStart_ReachesReady(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, testOptions(), &fakeLib{fns: engineStubs(rec)})
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	if !c.Ready() || c.State() != StateReady {
		t.Errorf("state = %v, want ready", c.State())
	}
	if c.Identity().ID == "" || c.Identity().Name == "" {
		t.Errorf("identity not gathered: %+v", c.Identity())
	}

	// The event stream must be listening before identity and config are
	// pushed, so nothing the engine emits during startup is lost.
	if rec.index("event_stream") == -1 || rec.index("init") == -1 {
		t.Fatalf("calls = %v", rec.all())
	}
	if rec.index("event_stream") > rec.index("device_id:"+c.Identity().ID) {
		t.Error("event stream started after identity push")
	}
	if rec.index("init") < rec.index("device_name") {
		t.Error("engine init ran before identity push")
	}
}

func TestStart_FatalLoadNeverReady(t *testing.T) {
	c := New(testOptions())
	c.open = func(kind enginebridge.Platform, dir string) (nativeLibrary, error) {
		return nil, errors.ArtifactMissing("libscreenlink.so", fmt.Errorf("not found"))
	}

	// Must terminate, not hang, and must never reach Ready.
	err := c.Start(context.Background())
	if err == nil {
		t.Fatal("expected fatal load error")
	}
	if c.State() != StateUnloaded {
		t.Errorf("state = %v, want unloaded after fatal load", c.State())
	}
}

func TestStart_SecondStartRejected(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, testOptions(), &fakeLib{fns: engineStubs(rec)})
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	err := c.Start(ctx)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseInit, Kind: errors.KindAlreadyStarted}) {
		t.Errorf("error = %v, want init/already_started", err)
	}
}

func TestStart_MalformedSymbolTableIsFatal(t *testing.T) {
	rec := &recorder{}
	stubs := engineStubs(rec)
	delete(stubs, "sl_translate")
	c := newTestController(t, testOptions(), &fakeLib{fns: stubs})

	err := c.Start(context.Background())
	if err == nil {
		t.Fatal("expected surface binding failure")
	}
	if c.Ready() {
		t.Error("bridge must not be ready after fatal bind failure")
	}
	if c.State() != StateInitializing {
		t.Errorf("state = %v, want stuck in initializing", c.State())
	}
}

func TestStart_MissingFrameFetchDegrades(t *testing.T) {
	rec := &recorder{}
	lib := &fakeLib{fns: engineStubs(rec), rawErr: errors.SymbolMissing(engine.SymbolGetFrame, nil)}
	c := newTestController(t, testOptions(), lib)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("missing frame-fetch symbol must not be fatal: %v", err)
	}
	if !c.Ready() {
		t.Fatal("bridge should still reach ready")
	}
	if got := c.Surface().GetFrame("s1", 0, 64); got != nil {
		t.Errorf("degraded frame fetch = %v, want nil", got)
	}
}

func TestStart_ConnectionManagerRole(t *testing.T) {
	rec := &recorder{}
	opts := testOptions()
	opts.ConnectionManager = true
	c := newTestController(t, opts, &fakeLib{fns: engineStubs(rec)})
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if rec.index("cm") == -1 {
		t.Error("connection-manager init not invoked for that role")
	}

	rec2 := &recorder{}
	c2 := newTestController(t, testOptions(), &fakeLib{fns: engineStubs(rec2)})
	defer c2.Close()
	if err := c2.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if rec2.index("cm") != -1 {
		t.Error("connection-manager init invoked without the role")
	}
}

func TestClose_UnloadsArtifact(t *testing.T) {
	rec := &recorder{}
	lib := &fakeLib{fns: engineStubs(rec)}
	c := newTestController(t, testOptions(), lib)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !lib.closed {
		t.Error("artifact not unloaded on Close")
	}
}

func TestStart_EventsFlowThroughMultiplexer(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, testOptions(), &fakeLib{fns: engineStubs(rec)})
	defer c.Close()

	got := make(chan string, 1)
	c.Events().Register("peer-online", "watcher", func(ctx context.Context, ev events.Event) {
		got <- ev.Name
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	// The fake engine cannot invoke a native callback address, so feed the
	// listener the way the engine's callback would.
	c.listener.Feed(`{"name":"peer-online","peer":"desk-02"}`)

	select {
	case name := <-got:
		if name != "peer-online" {
			t.Errorf("dispatched %q", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event never reached the handler")
	}
}
