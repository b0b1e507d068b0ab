package bootloader

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-hexboot/hal"
)

// EraseErrorKind classifies erase failures.
type EraseErrorKind int

const (
	// InvalidSector means the sector index is outside the firmware region
	InvalidSector EraseErrorKind = iota

	// EraseFailed means the flash controller reported an error
	EraseFailed
)

// String returns the wire code of the kind.
func (k EraseErrorKind) String() string {
	switch k {
	case InvalidSector:
		return "INVALID_SECTOR"
	case EraseFailed:
		return "ERASE_FAILED"
	default:
		return "UNKNOWN_ERASE_ERROR"
	}
}

// EraseError is returned by EraseSector.
type EraseError struct {
	Kind EraseErrorKind

	// Sector is the logical sector index that was requested
	Sector uint32

	// Status is the controller's error code (EraseFailed only)
	Status uint32

	// Err is the underlying hardware error (EraseFailed only)
	Err error
}

func (e *EraseError) Error() string {
	if e.Kind == EraseFailed {
		return fmt.Sprintf("erase sector %d failed: status 0x%08X", e.Sector, e.Status)
	}
	return fmt.Sprintf("erase sector %d: invalid sector", e.Sector)
}

// Code returns the stable wire code.
func (e *EraseError) Code() string {
	return e.Kind.String()
}

func (e *EraseError) Unwrap() error {
	return e.Err
}

// ProgramErrorKind classifies programming failures.
type ProgramErrorKind int

const (
	// InvalidAddress means the target is unaligned or outside the firmware region
	InvalidAddress ProgramErrorKind = iota

	// WriteFailed means the flash controller reported an error
	WriteFailed

	// DataMismatch means the word read back differs from the word written
	DataMismatch
)

// String returns the wire code of the kind.
func (k ProgramErrorKind) String() string {
	switch k {
	case InvalidAddress:
		return "INVALID_ADDRESS"
	case WriteFailed:
		return "WRITE_FAILED"
	case DataMismatch:
		return "DATA_MISMATCH"
	default:
		return "UNKNOWN_PROGRAM_ERROR"
	}
}

// ProgramError is returned while processing a record.
type ProgramError struct {
	Kind ProgramErrorKind

	// Address is the target address of the failing word or record
	Address uint32

	// Status is the controller's error code (WriteFailed only)
	Status uint32

	// Wrote and Read are the mismatching words (DataMismatch only)
	Wrote, Read uint32

	// Err is the underlying hardware error (WriteFailed only)
	Err error
}

func (e *ProgramError) Error() string {
	switch e.Kind {
	case InvalidAddress:
		return fmt.Sprintf("program 0x%08X: invalid address", e.Address)
	case WriteFailed:
		return fmt.Sprintf("program 0x%08X failed: status 0x%08X", e.Address, e.Status)
	case DataMismatch:
		return fmt.Sprintf("program 0x%08X: data mismatch: wrote 0x%08X, read 0x%08X",
			e.Address, e.Wrote, e.Read)
	default:
		return fmt.Sprintf("program 0x%08X: %s", e.Address, e.Kind)
	}
}

// Code returns the stable wire code.
func (e *ProgramError) Code() string {
	return e.Kind.String()
}

func (e *ProgramError) Unwrap() error {
	return e.Err
}

// LockedError is returned when erase or program is requested while the
// firmware is locked.
type LockedError struct{}

func (*LockedError) Error() string {
	return "firmware locked"
}

// Code returns the stable wire code.
func (*LockedError) Code() string {
	return "FIRMWARE_LOCKED"
}

// ErrFirmwareLocked is the error returned for any erase or program request
// made while locked.
var ErrFirmwareLocked error = &LockedError{}

// statusCode extracts the controller status from a hardware error.
func statusCode(err error) uint32 {
	var sc hal.StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}
