package host

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrResponseTooLong is returned when a response does not fit
// protocol.MaxResponseSize.
var ErrResponseTooLong = errors.New("invalid response length")

// ErrNotInBootloader is returned by Upload if the device runs its firmware.
var ErrNotInBootloader = errors.New("device is not in bootloader mode")

// TimeoutError indicates that the device did not answer a request in time.
type TimeoutError struct {
	// Request is the tag of the request
	Request string

	// Timeout is the time waited
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request %s timed out after %s", e.Request, e.Timeout)
}

// Unwrap makes errors.Is(err, context.DeadlineExceeded) hold.
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

// DeviceMismatchError indicates that the connected board is not the one
// the image was built for.
type DeviceMismatchError struct {
	// Field is "board name" or "hardware version"
	Field    string
	Expected string
	Actual   string
}

func (e *DeviceMismatchError) Error() string {
	return fmt.Sprintf("device mismatch: image expects %s %q, device has %q",
		e.Field, e.Expected, e.Actual)
}
