package gpuselect

import (
	"fmt"
	"strings"
)

// Rejection records why one candidate was discarded.
type Rejection struct {
	Index    int
	Device   string
	Problems []string
}

// NoSuitableDeviceError means no candidate met the hard requirements.
// Graphics initialization cannot continue.
type NoSuitableDeviceError struct {
	Candidates int
	Rejections []Rejection
}

func (e *NoSuitableDeviceError) Error() string {
	if e.Candidates == 0 {
		return "no suitable device: no candidate devices found"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "no suitable device among %d candidates", e.Candidates)
	for _, r := range e.Rejections {
		fmt.Fprintf(&b, "; #%d %s: %s", r.Index, r.Device, strings.Join(r.Problems, ", "))
	}
	return b.String()
}

// DeviceCreationError means the driver rejected the device creation call,
// or the queue plan handed to the provisioner was unusable.
type DeviceCreationError struct {
	Device string
	Cause  error
}

func (e *DeviceCreationError) Error() string {
	return fmt.Sprintf("could not create logical device for %s: %v", e.Device, e.Cause)
}

func (e *DeviceCreationError) Unwrap() error {
	return e.Cause
}
