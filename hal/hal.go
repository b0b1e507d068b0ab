// Package hal defines the hardware the bootloader depends on.
//
// The bootloader core never touches registers. Everything it needs from the
// microcontroller is expressed by three small interfaces: Flash for the
// non-volatile memory controller, System for reset and control transfer,
// and Retained for the one memory word that survives a warm reset.
//
// Package sim provides an in-memory implementation for tests and for the
// simulated board served by cmd/hexboot.
package hal

import "fmt"

// WordSize is the minimum programmable unit in bytes.
const WordSize = 4

// Flash is the non-volatile memory controller.
//
// All operations block until the hardware has finished. Erase and program
// are only permitted between Unlock and Lock.
type Flash interface {
	// Unlock enables erase and program operations.
	Unlock() error

	// Lock disables erase and program operations.
	Lock() error

	// EraseSector erases one physical sector.
	EraseSector(sector uint32) error

	// ProgramWord writes one little-endian word at a WordSize aligned address.
	ProgramWord(address, word uint32) error

	// ReadWord reads the word at address directly from the memory map.
	ReadWord(address uint32) uint32
}

// System provides the control operations that leave the running program.
type System interface {
	// SystemReset performs a warm reset. On hardware it does not return.
	SystemReset()

	// Jump loads the stack pointer and transfers control to entry. On
	// hardware it does not return.
	Jump(stackPointer, entry uint32)
}

// Retained is a memory word excluded from startup zero-initialisation.
// It survives a warm reset and is undefined after power loss.
type Retained interface {
	LoadBootFlag() uint32
	StoreBootFlag(value uint32)
}

// StatusCoder is implemented by hardware errors that carry the controller's
// own status code.
type StatusCoder interface {
	StatusCode() uint32
}

// StatusError is a failed hardware operation.
type StatusError struct {
	// Operation is the failing operation, e.g. "erase" or "program"
	Operation string

	// Code is the controller's error code
	Code uint32
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("flash %s failed: status 0x%08X", e.Operation, e.Code)
}

// StatusCode returns the controller's error code.
func (e *StatusError) StatusCode() uint32 {
	return e.Code
}

// Flash controller status codes, mirroring the STM32 FLASH_SR error bits.
const (
	StatusWriteProtect     = 0x00000010
	StatusProgramAlignment = 0x00000020
	StatusProgramParallel  = 0x00000040
	StatusProgramSequence  = 0x00000080
	StatusOperation        = 0x00000002
	StatusLocked           = 0x00000100
	StatusInvalidSector    = 0xFFFFFFFF
)
