package protocol

import (
	"errors"
	"fmt"
)

// ErrOverflow is returned by LineReader when a line does not fit its buffer.
var ErrOverflow = errors.New("line exceeds buffer")

// DeviceError is an <ERROR> response received from the device.
type DeviceError struct {
	// Code is the error code sent by the device, e.g. "INVALID_SECTOR"
	Code string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device error %s: %s", e.Code, e.Message())
}

// Message returns a human-readable description of the code.
func (e *DeviceError) Message() string {
	switch e.Code {
	case CodeDataOverflow:
		return "Data overflow."
	case CodeUnknownCommand:
		return "Unknown command."
	case CodeMissingParameter:
		return "Missing parameter."
	case CodeFirmwareLocked:
		return "Firmware locked."
	case CodeInvalidRecord:
		return "Invalid record."
	case CodeInvalidLength:
		return "Invalid length."
	case CodeInvalidType:
		return "Invalid type."
	case CodeInvalidChecksum:
		return "Invalid checksum."
	case CodeInvalidSector:
		return "Invalid sector."
	case CodeEraseFailed:
		return "Erase failed."
	case CodeInvalidAddress:
		return "Invalid address."
	case CodeWriteFailed:
		return "Write failed."
	case CodeDataMismatch:
		return "Data mismatch."
	default:
		return "Unknown error code received: " + e.Code
	}
}

// IsDeviceError returns true if the error is a DeviceError.
func IsDeviceError(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr)
}

// InvalidResponseError means a response line did not have the expected
// form.
type InvalidResponseError struct {
	// Response is the offending line without terminator
	Response string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response received from device: %q", e.Response)
}
