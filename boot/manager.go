// Package boot decides at reset whether to run the application or stay in
// the bootloader.
//
// Init runs once per reset, before anything else, and evaluates in order:
//
//  1. The retained boot flag holds Magic: the application asked to enter
//     the bootloader. Stay.
//  2. The firmware is not valid (implausible stack pointer or checksum
//     mismatch). Stay.
//  3. Otherwise load the stack pointer and entry point from the first two
//     words of the firmware region and jump.
//
// Every doubtful case stays resident. A device stuck in the bootloader can
// be recovered over the line protocol; a corrupt image that was started
// cannot.
package boot

import (
	"github.com/moffa90/go-hexboot/board"
	"github.com/moffa90/go-hexboot/checksum"
	"github.com/moffa90/go-hexboot/hal"
)

// Magic in the retained boot flag keeps the next boot in the bootloader.
const Magic uint32 = 0xDEADBEEF

// Mode selects what the next reset boots into.
type Mode int

const (
	// Firmware lets the next reset start the application if it is valid
	Firmware Mode = iota

	// Bootloader keeps the next reset in the bootloader
	Bootloader
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case Bootloader:
		return "BOOTLOADER"
	case Firmware:
		return "FIRMWARE"
	default:
		return "UNKNOWN"
	}
}

// Decision is the outcome of Init.
type Decision int

const (
	// StayRequested means the boot flag asked for the bootloader
	StayRequested Decision = iota

	// StayInvalid means the stored firmware failed validation
	StayInvalid

	// Launched means control was transferred to the application
	Launched
)

func (d Decision) String() string {
	switch d {
	case StayRequested:
		return "bootloader requested"
	case StayInvalid:
		return "firmware invalid"
	case Launched:
		return "firmware launched"
	default:
		return "unknown"
	}
}

// Manager implements the reset-time decision and the reboot primitive.
type Manager struct {
	mem       checksum.WordReader
	retained  hal.Retained
	system    hal.System
	cfg       board.Config
	validator *checksum.Validator
}

// New returns a boot manager for the given hardware and board layout.
func New(mem checksum.WordReader, retained hal.Retained, system hal.System, cfg board.Config) *Manager {
	if mem == nil || retained == nil || system == nil {
		panic("hardware cannot be nil")
	}

	return &Manager{
		mem:       mem,
		retained:  retained,
		system:    system,
		cfg:       cfg,
		validator: checksum.New(mem, cfg),
	}
}

// Init evaluates the boot decision and, if the firmware may run, jumps to
// it. On hardware a successful jump does not return; in simulation Init
// returns Launched after hal.System.Jump.
func (m *Manager) Init() Decision {
	if m.retained.LoadBootFlag() == Magic {
		return StayRequested
	}

	if !m.FirmwareValid() {
		return StayInvalid
	}

	sp := m.mem.ReadWord(m.cfg.Firmware.Start)
	entry := m.mem.ReadWord(m.cfg.Firmware.Start + hal.WordSize)

	m.system.Jump(sp, entry)
	return Launched
}

// FirmwareValid reports whether the stored image may be executed: its
// initial stack pointer lies in RAM and its checksum matches.
func (m *Manager) FirmwareValid() bool {
	sp := m.mem.ReadWord(m.cfg.Firmware.Start)
	if sp < m.cfg.RAM.Start || sp > m.cfg.RAM.End {
		return false
	}

	return m.validator.Verify()
}

// Validator returns the checksum validator over this board's image.
func (m *Manager) Validator() *checksum.Validator {
	return m.validator
}

// Reboot stores the boot flag for mode and resets the system. On hardware
// it does not return.
func (m *Manager) Reboot(mode Mode) {
	flag := uint32(0)
	if mode == Bootloader {
		flag = Magic
	}

	m.retained.StoreBootFlag(flag)
	m.system.SystemReset()
}
