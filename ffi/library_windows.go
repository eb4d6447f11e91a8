//go:build windows

package ffi

import "golang.org/x/sys/windows"

func dlopen(path string) (uintptr, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, err
	}
	return uintptr(handle), nil
}

func dlsym(handle uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(handle), name)
}

func dlclose(handle uintptr) error {
	return windows.FreeLibrary(windows.Handle(handle))
}

func currentProcess() (uintptr, error) {
	handle, err := windows.GetModuleHandle(nil)
	if err != nil {
		return 0, err
	}
	return uintptr(handle), nil
}
