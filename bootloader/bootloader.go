package bootloader

import (
	"fmt"

	"github.com/moffa90/go-hexboot/board"
	"github.com/moffa90/go-hexboot/boot"
	"github.com/moffa90/go-hexboot/hal"
	"github.com/moffa90/go-hexboot/hexrecord"
)

// Info is the static identity reported over the line protocol.
type Info struct {
	BoardName         string
	HardwareVersion   string
	BootloaderVersion string
	SectorCount       uint32
}

// Bootloader is the command surface of the resident bootloader.
//
// It starts locked. UnlockFirmware creates the Programmer and LockFirmware
// destroys it; EraseSector and WriteHexRecord are only forwarded while a
// Programmer exists and fail with ErrFirmwareLocked otherwise.
type Bootloader struct {
	flash      hal.Flash
	boot       *boot.Manager
	board      board.Config
	config     Config
	programmer *Programmer
}

// New creates a locked bootloader.
//
// Example:
//
//	b := sim.NewBoard()
//	cfg := board.Default()
//	manager := boot.New(b.Flash, b, b, cfg)
//	bl := bootloader.New(b.Flash, manager, cfg)
func New(flash hal.Flash, manager *boot.Manager, cfg board.Config, opts ...Option) *Bootloader {
	if flash == nil {
		panic("flash cannot be nil")
	}
	if manager == nil {
		panic("boot manager cannot be nil")
	}

	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = NopLogger{}
	}

	return &Bootloader{
		flash:  flash,
		boot:   manager,
		board:  cfg,
		config: config,
	}
}

// Info returns the board identity and sector count.
func (b *Bootloader) Info() Info {
	return Info{
		BoardName:         b.board.BoardName,
		HardwareVersion:   b.board.HardwareVersion,
		BootloaderVersion: b.board.BootloaderVersion,
		SectorCount:       b.board.Firmware.SectorCount,
	}
}

// FirmwareValid reports whether the stored image would be started at the
// next reset.
func (b *Bootloader) FirmwareValid() bool {
	return b.boot.FirmwareValid()
}

// Unlocked reports whether erase and program requests are accepted.
func (b *Bootloader) Unlocked() bool {
	return b.programmer != nil
}

// UnlockFirmware enables erase and program requests. Unlocking an unlocked
// bootloader keeps the current programmer and its base address.
func (b *Bootloader) UnlockFirmware() error {
	if b.programmer != nil {
		return nil
	}

	p, err := Unlock(b.flash, b.board, b.config.Logger)
	if err != nil {
		return err
	}

	b.programmer = p
	b.config.Logger.Info("firmware unlocked")
	return nil
}

// LockFirmware disables erase and program requests. Locking a locked
// bootloader does nothing.
func (b *Bootloader) LockFirmware() error {
	if b.programmer == nil {
		return nil
	}

	p := b.programmer
	b.programmer = nil

	if err := p.Close(); err != nil {
		return err
	}

	b.config.Logger.Info("firmware locked")
	return nil
}

// EraseSector erases one logical firmware sector.
func (b *Bootloader) EraseSector(index uint32) error {
	if b.programmer == nil {
		return ErrFirmwareLocked
	}
	return b.programmer.EraseSector(index)
}

// WriteHexRecord parses one Intel HEX line and applies it. The lock is
// checked before the line is parsed, so a locked bootloader reports
// ErrFirmwareLocked even for malformed input.
func (b *Bootloader) WriteHexRecord(line string) error {
	if b.programmer == nil {
		return ErrFirmwareLocked
	}

	record, err := hexrecord.Parse(line)
	if err != nil {
		return err
	}

	return b.programmer.ProcessRecord(record)
}

// LaunchFirmware locks the flash and reboots into the application. On
// hardware it does not return. If the image is invalid the next boot stays
// in the bootloader.
func (b *Bootloader) LaunchFirmware() error {
	if err := b.LockFirmware(); err != nil {
		return fmt.Errorf("launch firmware: %w", err)
	}

	b.config.Logger.Info("launching firmware")
	b.boot.Reboot(boot.Firmware)
	return nil
}
