// Package sim simulates the hardware behind package hal.
//
// Flash behaves like NOR flash: erased cells read 0xFF and programming can
// only clear bits, so writing a word twice without an erase in between
// leaves the AND of both values in memory. Faults can be injected to
// exercise the bootloader's error paths.
package sim

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/moffa90/go-hexboot/hal"
)

// Erased is the value of an erased flash byte.
const Erased = 0xFF

// Sector is one erase unit of the simulated flash.
type Sector struct {
	Address uint32
	Size    uint32
}

// STM32F446 returns the sector map of the 512 KiB STM32F446RE flash.
func STM32F446() []Sector {
	sizes := []uint32{
		16 << 10, 16 << 10, 16 << 10, 16 << 10,
		64 << 10,
		128 << 10, 128 << 10, 128 << 10,
	}

	sectors := make([]Sector, len(sizes))
	addr := uint32(0x08000000)
	for i, size := range sizes {
		sectors[i] = Sector{Address: addr, Size: size}
		addr += size
	}
	return sectors
}

// Flash is a simulated flash controller. It is safe for concurrent use.
type Flash struct {
	mu       sync.Mutex
	sectors  []Sector
	base     uint32
	mem      []byte
	unlocked bool

	// FailErase maps a physical sector to the status code its erase fails with
	FailErase map[uint32]uint32

	// FailProgram maps an address to the status code programming it fails with
	FailProgram map[uint32]uint32

	// FailLock is the status code Lock fails with, zero for none
	FailLock uint32

	// StuckBits maps an address to bits that never clear when programmed
	StuckBits map[uint32]uint32

	// Erases counts EraseSector calls that reached the controller
	Erases int

	// Programs counts ProgramWord calls that reached the controller
	Programs int
}

// NewFlash returns an erased flash with the given contiguous sector map.
func NewFlash(sectors []Sector) *Flash {
	if len(sectors) == 0 {
		panic("sector map cannot be empty")
	}

	last := sectors[len(sectors)-1]
	base := sectors[0].Address
	mem := make([]byte, last.Address+last.Size-base)
	for i := range mem {
		mem[i] = Erased
	}

	return &Flash{
		sectors:     sectors,
		base:        base,
		mem:         mem,
		FailErase:   make(map[uint32]uint32),
		FailProgram: make(map[uint32]uint32),
		StuckBits:   make(map[uint32]uint32),
	}
}

// Unlocked reports whether erase and program are currently enabled.
func (f *Flash) Unlocked() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unlocked
}

// Unlock implements hal.Flash.
func (f *Flash) Unlock() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unlocked = true
	return nil
}

// Lock implements hal.Flash.
func (f *Flash) Lock() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailLock != 0 {
		return &hal.StatusError{Operation: "lock", Code: f.FailLock}
	}
	f.unlocked = false
	return nil
}

// EraseSector implements hal.Flash.
func (f *Flash) EraseSector(sector uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Erases++

	if !f.unlocked {
		return &hal.StatusError{Operation: "erase", Code: hal.StatusLocked}
	}
	if int(sector) >= len(f.sectors) {
		return &hal.StatusError{Operation: "erase", Code: hal.StatusInvalidSector}
	}
	if code, ok := f.FailErase[sector]; ok {
		return &hal.StatusError{Operation: "erase", Code: code}
	}

	s := f.sectors[sector]
	off := s.Address - f.base
	for i := off; i < off+s.Size; i++ {
		f.mem[i] = Erased
	}

	return nil
}

// ProgramWord implements hal.Flash.
func (f *Flash) ProgramWord(address, word uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Programs++

	if !f.unlocked {
		return &hal.StatusError{Operation: "program", Code: hal.StatusLocked}
	}
	if address%hal.WordSize != 0 {
		return &hal.StatusError{Operation: "program", Code: hal.StatusProgramAlignment}
	}
	if !f.contains(address) {
		return &hal.StatusError{Operation: "program", Code: hal.StatusWriteProtect}
	}
	if code, ok := f.FailProgram[address]; ok {
		return &hal.StatusError{Operation: "program", Code: code}
	}

	off := address - f.base
	current := binary.LittleEndian.Uint32(f.mem[off:])
	binary.LittleEndian.PutUint32(f.mem[off:], current&(word|f.StuckBits[address]))

	return nil
}

// ReadWord implements hal.Flash. Addresses outside the flash read as erased.
func (f *Flash) ReadWord(address uint32) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.contains(address) {
		return 0xFFFFFFFF
	}
	return binary.LittleEndian.Uint32(f.mem[address-f.base:])
}

// ReadAt copies flash contents starting at address into p.
func (f *Flash) ReadAt(p []byte, address uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if address < f.base || uint64(address-f.base)+uint64(len(p)) > uint64(len(f.mem)) {
		return fmt.Errorf("read 0x%08X+%d outside flash", address, len(p))
	}
	copy(p, f.mem[address-f.base:])
	return nil
}

// Poke overwrites flash contents directly, bypassing the controller. It
// simulates corruption, e.g. a bit flipped after a successful upload.
func (f *Flash) Poke(address uint32, p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if address < f.base || uint64(address-f.base)+uint64(len(p)) > uint64(len(f.mem)) {
		return fmt.Errorf("poke 0x%08X+%d outside flash", address, len(p))
	}
	copy(f.mem[address-f.base:], p)
	return nil
}

func (f *Flash) contains(address uint32) bool {
	return address >= f.base && uint64(address-f.base)+hal.WordSize <= uint64(len(f.mem))
}
