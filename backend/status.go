package backend

import (
	"errors"
	"fmt"
)

// Status is a driver result code. Values follow the DXGI HRESULT encoding.
// A Status satisfies error so drivers can return it directly or wrap it.
type Status uint32

// Known status codes.
const (
	StatusOK                  Status = 0x00000000
	StatusFail                Status = 0x80004005
	StatusInvalidCall         Status = 0x887A0001
	StatusUnsupported         Status = 0x887A0004
	StatusDeviceRemoved       Status = 0x887A0005
	StatusDeviceHung          Status = 0x887A0006
	StatusDeviceReset         Status = 0x887A0007
	StatusDriverInternalError Status = 0x887A0020
)

var statusNames = map[Status]string{
	StatusOK:                  "ok",
	StatusFail:                "failed",
	StatusInvalidCall:         "invalid call",
	StatusUnsupported:         "unsupported",
	StatusDeviceRemoved:       "device removed",
	StatusDeviceHung:          "device hung",
	StatusDeviceReset:         "device reset",
	StatusDriverInternalError: "driver internal error",
}

// Error implements error.
func (s Status) Error() string {
	if name, ok := statusNames[s]; ok {
		return fmt.Sprintf("backend: %s (0x%08X)", name, uint32(s))
	}
	return fmt.Sprintf("backend: status 0x%08X", uint32(s))
}

// DeviceLost reports whether the status means the device must be recreated.
func (s Status) DeviceLost() bool {
	return s == StatusDeviceRemoved || s == StatusDeviceReset
}

// StatusOf extracts the Status carried by err. It returns StatusOK for a nil
// error and StatusFail for an error that carries no Status.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return StatusFail
}

// IsDeviceLost reports whether err carries StatusDeviceRemoved or
// StatusDeviceReset.
func IsDeviceLost(err error) bool {
	var s Status
	return errors.As(err, &s) && s.DeviceLost()
}
