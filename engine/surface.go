package engine

import (
	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	enginebridge "github.com/screenlink/engine-bridge"
	"github.com/screenlink/engine-bridge/errors"
	"github.com/screenlink/engine-bridge/ffi"
	"github.com/screenlink/engine-bridge/marshal"
)

// Engine entry-point names. SymbolGetFrame is exported because the
// lifecycle controller resolves it by hand instead of through NewSurface.
const (
	SymbolGetFrame = "sl_session_get_frame"

	symInit                  = "sl_init"
	symSetDeviceID           = "sl_set_device_id"
	symSetDeviceName         = "sl_set_device_name"
	symSetHomeDir            = "sl_set_home_dir"
	symFrameSize             = "sl_session_frame_size"
	symNextFrame             = "sl_session_next_frame"
	symRegisterPixelbuffer   = "sl_session_register_pixelbuffer"
	symRegisterGPUTexture    = "sl_session_register_gpu_texture"
	symTranslate             = "sl_translate"
	symStartEventStream      = "sl_start_event_stream"
	symInitConnectionManager = "sl_init_connection_manager"
	symStartURIServer        = "sl_start_uri_server"
	symStartDBusService      = "sl_start_dbus_service"
	symStartAudioService     = "sl_start_audio_service"
)

// Surface exposes every engine entry point as a typed call. Construct with
// NewSurface; the zero value is unusable.
type Surface struct {
	initialize       func(appDir, config string) int32
	setDeviceID      func(id string)
	setDeviceName    func(name string)
	setHomeDir       func(dir string)
	frameSize        func(session string, display int32) uint32
	nextFrame        func(session string, display int32)
	registerPixbuf   func(session string, display int32, buffer uintptr) int32
	registerGPU      func(session string, display int32, handle uintptr) int32
	translate        func(name, locale string) uintptr
	startEventStream func(callback uintptr) int32
	initConnMgr      func() int32
	startURIServer   func()
	startDBus        func()
	startAudio       func()

	// fetch is the hand-declared hot-path binding, installed by
	// BindFrameFetch. nil means frame fetching is degraded to "no frames".
	fetch func(session uintptr, display int32) uintptr

	// newCallback turns a Go event sink into a native callback address.
	newCallback func(fn func(text string)) uintptr

	log *zap.Logger
}

// NewSurface binds every control-path entry point through b. Any missing
// symbol fails the whole surface. log may be nil.
func NewSurface(b enginebridge.Binder, log *zap.Logger) (*Surface, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Surface{log: log, newCallback: ffi.TextCallback}

	bindings := []struct {
		name  string
		fnptr any
	}{
		{symInit, &s.initialize},
		{symSetDeviceID, &s.setDeviceID},
		{symSetDeviceName, &s.setDeviceName},
		{symSetHomeDir, &s.setHomeDir},
		{symFrameSize, &s.frameSize},
		{symNextFrame, &s.nextFrame},
		{symRegisterPixelbuffer, &s.registerPixbuf},
		{symRegisterGPUTexture, &s.registerGPU},
		{symTranslate, &s.translate},
		{symStartEventStream, &s.startEventStream},
		{symInitConnectionManager, &s.initConnMgr},
		{symStartURIServer, &s.startURIServer},
		{symStartDBusService, &s.startDBus},
		{symStartAudioService, &s.startAudio},
	}
	for _, bd := range bindings {
		if err := b.Bind(bd.name, bd.fnptr); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// BindFrameFetch installs the frame-fetch entry point from a raw symbol
// address. Never calling it leaves GetFrame degraded to "no frames".
func (s *Surface) BindFrameFetch(addr uintptr) {
	s.fetch = func(session uintptr, display int32) uintptr {
		r, _, _ := purego.SyscallN(addr, session, uintptr(display))
		return r
	}
}

// Initialize pushes the app directory and the opaque serialized config blob
// into the engine. The blob is encoded by the host and decoded by the
// engine; the bridge never interprets it.
func (s *Surface) Initialize(appDir, config string) error {
	if rc := s.initialize(appDir, config); rc != 0 {
		return errors.NativeCall(symInit, rc)
	}
	return nil
}

func (s *Surface) SetDeviceID(id string)     { s.setDeviceID(id) }
func (s *Surface) SetDeviceName(name string) { s.setDeviceName(name) }
func (s *Surface) SetHomeDir(dir string)     { s.setHomeDir(dir) }

// FrameByteSize reports the engine's current byte size for one
// (session, display) frame, 0 when the pair is unknown.
func (s *Surface) FrameByteSize(session enginebridge.SessionID, display int32) uint32 {
	return s.frameSize(string(session), display)
}

// AdvanceFrame tells the engine the host is done with the current frame.
// Frame memory returned by GetFrame before this call must not be assumed
// valid afterwards (GetFrame already copied, so in practice this only
// releases the engine-side buffer).
func (s *Surface) AdvanceFrame(session enginebridge.SessionID, display int32) {
	s.nextFrame(string(session), display)
}

// GetFrame fetches one decoded frame through the raw hot-path binding and
// copies it into host-owned bytes. Returns nil when the engine has no frame
// for the pair or when the fetch binding is absent.
func (s *Surface) GetFrame(session enginebridge.SessionID, display int32, expectedByteSize uint32) []byte {
	if s.fetch == nil {
		return nil
	}
	cs := marshal.NewCString(string(session))
	defer cs.Free()
	return marshal.CopyFrame(s.fetch(cs.Ptr(), display), expectedByteSize)
}

// RegisterPixelbufferTexture hands the engine a pixel-buffer render target
// supplied by the rendering layer.
func (s *Surface) RegisterPixelbufferTexture(session enginebridge.SessionID, display int32, buffer uintptr) error {
	if rc := s.registerPixbuf(string(session), display, buffer); rc != 0 {
		return errors.NativeCall(symRegisterPixelbuffer, rc)
	}
	return nil
}

// RegisterGPUTexture hands the engine an opaque GPU texture handle supplied
// by the rendering layer.
func (s *Surface) RegisterGPUTexture(session enginebridge.SessionID, display int32, handle uintptr) error {
	if rc := s.registerGPU(string(session), display, handle); rc != 0 {
		return errors.NativeCall(symRegisterGPUTexture, rc)
	}
	return nil
}

// Translate looks name up in the engine's translation table for locale.
// Returns name unchanged when the engine has no translation.
func (s *Surface) Translate(name, locale string) string {
	if out := marshal.GoString(s.translate(name, locale)); out != "" {
		return out
	}
	return name
}

// StartEventStream subscribes fn to the engine's event stream. Each wire
// record arrives as one text callback; fn must not block the engine's
// callback thread (feed a queue, return).
func (s *Surface) StartEventStream(fn func(text string)) error {
	if rc := s.startEventStream(s.newCallback(fn)); rc != 0 {
		return errors.NativeCall(symStartEventStream, rc)
	}
	return nil
}

// InitConnectionManager runs the engine-side connection-manager setup for
// processes acting in that role.
func (s *Surface) InitConnectionManager() error {
	if rc := s.initConnMgr(); rc != 0 {
		return errors.NativeCall(symInitConnectionManager, rc)
	}
	return nil
}
