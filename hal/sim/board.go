package sim

import (
	"sync"

	"github.com/moffa90/go-hexboot/hal"
)

// Board is a simulated microcontroller: flash, the retained boot flag word,
// and the reset and jump primitives.
//
// SystemReset and Jump return in the simulation; they record what happened
// so the caller can run the next boot.
type Board struct {
	Flash *Flash

	mu       sync.Mutex
	bootFlag uint32
	resets   int
	jumped   bool
	sp       uint32
	entry    uint32
}

// NewBoard returns a board with an erased STM32F446 flash, freshly powered.
func NewBoard() *Board {
	return &Board{Flash: NewFlash(STM32F446())}
}

var (
	_ hal.Flash    = (*Flash)(nil)
	_ hal.System   = (*Board)(nil)
	_ hal.Retained = (*Board)(nil)
)

// LoadBootFlag implements hal.Retained.
func (b *Board) LoadBootFlag() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bootFlag
}

// StoreBootFlag implements hal.Retained.
func (b *Board) StoreBootFlag(value uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bootFlag = value
}

// SystemReset implements hal.System. The retained word keeps its value and
// the flash controller is locked again, as after a real reset.
func (b *Board) SystemReset() {
	b.mu.Lock()
	b.resets++
	b.jumped = false
	b.mu.Unlock()

	_ = b.Flash.Lock()
}

// Jump implements hal.System.
func (b *Board) Jump(stackPointer, entry uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jumped = true
	b.sp = stackPointer
	b.entry = entry
}

// PowerCycle simulates power loss: the retained word is lost.
func (b *Board) PowerCycle() {
	b.mu.Lock()
	b.bootFlag = 0
	b.jumped = false
	b.mu.Unlock()

	_ = b.Flash.Lock()
}

// Resets returns the number of SystemReset calls.
func (b *Board) Resets() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resets
}

// Launched reports whether control was transferred to the application since
// the last reset, and with which stack pointer and entry point.
func (b *Board) Launched() (ok bool, stackPointer, entry uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.jumped, b.sp, b.entry
}
