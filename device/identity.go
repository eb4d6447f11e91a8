// Package device queries the platform for this machine's identity.
package device

import (
	"github.com/shirou/gopsutil/v3/host"
	"go.uber.org/zap"

	"github.com/screenlink/engine-bridge/errors"
)

// Sentinel values pushed into the engine when the platform query fails.
// The engine treats them as "identity unknown" and keeps working.
const (
	FallbackID   = "NA"
	FallbackName = "unknown"
)

// Identity is the device identity pushed into the engine during startup.
type Identity struct {
	ID   string
	Name string
}

// hostInfo is swapped out in tests to force query failures.
var hostInfo = host.Info

// Query returns the platform's device id and display name. A failed or
// partial lookup never propagates: missing pieces come back as sentinels
// and the failure is logged. log may be nil.
func Query(log *zap.Logger) Identity {
	if log == nil {
		log = zap.NewNop()
	}

	info, err := hostInfo()
	if err != nil {
		log.Warn("device identity lookup failed, using sentinels",
			zap.Error(errors.DeviceQuery(err)))
		return Identity{ID: FallbackID, Name: FallbackName}
	}

	ident := Identity{ID: info.HostID, Name: info.Hostname}
	if ident.ID == "" {
		ident.ID = FallbackID
	}
	if ident.Name == "" {
		ident.Name = FallbackName
	}
	return ident
}
