// Package ffi loads the native engine artifact and binds its entry points.
//
// Loading is platform-conditional: each Platform kind maps to a concrete
// artifact name (screenlink.dll, libscreenlink.so, libscreenlink.dylib),
// and PlatformHost falls back to the current process image for builds where
// the engine is statically linked in.
//
// Two binding strategies live behind the Binder interface:
//
//	lib.Bind("sl_translate", &fn)      // generic typed binding
//	addr, _ := lib.Raw("sl_session_get_frame") // bare symbol address
//
// Bind goes through purego's marshaling and suits control-path entry points.
// Raw hands back the symbol address for hand-declared hot-path calls (frame
// fetch) that must not pay for generic marshaling on every frame.
package ffi
