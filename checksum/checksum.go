// Package checksum computes and verifies the firmware image checksum.
//
// The algorithm is part of the image format and must never change: the
// bootloader writes the checksum when an upload ends and verifies it on
// every reset, possibly years and several bootloader builds later.
//
// Algorithm: CRC-32/ISO-HDLC (the IEEE 802.3 polynomial as used by zlib and
// hash/crc32.ChecksumIEEE) over every byte in [Firmware.Start,
// ChecksumAddress) in ascending address order. The result is stored as a
// little-endian word at ChecksumAddress.
package checksum

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/moffa90/go-hexboot/board"
	"github.com/moffa90/go-hexboot/hal"
)

// Algorithm names the image checksum for logs and tooling.
const Algorithm = "CRC-32/ISO-HDLC"

// WordReader reads words from the memory map.
type WordReader interface {
	ReadWord(address uint32) uint32
}

// Validator computes the image checksum from flash.
type Validator struct {
	mem    WordReader
	layout board.Firmware
}

// New returns a validator for the firmware region of cfg.
func New(mem WordReader, cfg board.Config) *Validator {
	if mem == nil {
		panic("memory reader cannot be nil")
	}
	return &Validator{mem: mem, layout: cfg.Firmware}
}

// Compute returns the checksum of the image currently in flash.
func (v *Validator) Compute() uint32 {
	var crc uint32
	var word [hal.WordSize]byte

	for addr := v.layout.Start; addr < v.address(); addr += hal.WordSize {
		binary.LittleEndian.PutUint32(word[:], v.mem.ReadWord(addr))
		crc = crc32.Update(crc, crc32.IEEETable, word[:])
	}

	return crc
}

// Stored returns the checksum word as it is stored in flash.
func (v *Validator) Stored() uint32 {
	return v.mem.ReadWord(v.address())
}

// Verify reports whether the stored checksum matches the image.
func (v *Validator) Verify() bool {
	return v.Stored() == v.Compute()
}

func (v *Validator) address() uint32 {
	return v.layout.End - hal.WordSize
}

// Image returns the checksum of a flattened image covering exactly
// [Firmware.Start, ChecksumAddress). Host tools use it to predict the value
// the bootloader will store.
func Image(image []byte) uint32 {
	return crc32.ChecksumIEEE(image)
}
