// Package board describes the memory layout and identity of a target board.
//
// A Config fixes everything the bootloader decides at build time: where the
// firmware lives, which sectors it occupies, the RAM range a valid stack
// pointer must fall in, and the strings reported over the line protocol.
//
// Profiles are stored as YAML. Fields missing from a profile keep the value
// from Default:
//
//	board_name: NucleoF446RE
//	hardware_version: "1.0"
//	firmware:
//	  start_sector: 2
//	  sector_count: 3
//	  start: 0x08008000
//	  end: 0x08020000
package board

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/moffa90/go-hexboot/hal"
)

// Config is a board profile.
type Config struct {
	BoardName         string `yaml:"board_name"`
	HardwareVersion   string `yaml:"hardware_version"`
	BootloaderVersion string `yaml:"bootloader_version"`
	FirmwareVersion   string `yaml:"firmware_version"`

	RAM      RAM      `yaml:"ram"`
	Firmware Firmware `yaml:"firmware"`
}

// RAM is the range a plausible initial stack pointer must lie in. Both
// bounds are inclusive.
type RAM struct {
	Start uint32 `yaml:"start"`
	End   uint32 `yaml:"end"`
}

// Firmware is the application region of flash.
type Firmware struct {
	// StartSector is the physical sector holding Start
	StartSector uint32 `yaml:"start_sector"`

	// SectorCount is the number of sectors the region spans
	SectorCount uint32 `yaml:"sector_count"`

	// Start is the first address of the region
	Start uint32 `yaml:"start"`

	// End is one past the last address; the final word holds the checksum
	End uint32 `yaml:"end"`
}

// Default returns the Nucleo-F446RE layout: two 16 KiB sectors of
// bootloader, firmware in sectors 2 to 4.
func Default() Config {
	return Config{
		BoardName:         "NucleoF446RE",
		HardwareVersion:   "1.0",
		BootloaderVersion: "1.0",
		FirmwareVersion:   "1.0",
		RAM: RAM{
			Start: 0x20000004, // first word holds the boot flag
			End:   0x20020000,
		},
		Firmware: Firmware{
			StartSector: 2,
			SectorCount: 3,
			Start:       0x08008000,
			End:         0x08020000,
		},
	}
}

// ChecksumAddress is the address of the image checksum word.
func (c Config) ChecksumAddress() uint32 {
	return c.Firmware.End - hal.WordSize
}

// Validate checks the profile for values the bootloader cannot work with.
func (c Config) Validate() error {
	names := []struct {
		field, value string
	}{
		{"board_name", c.BoardName},
		{"hardware_version", c.HardwareVersion},
		{"bootloader_version", c.BootloaderVersion},
		{"firmware_version", c.FirmwareVersion},
	}
	for _, n := range names {
		if n.value == "" {
			return fmt.Errorf("%s cannot be empty", n.field)
		}
		if strings.ContainsAny(n.value, " \r\n") {
			return fmt.Errorf("%s %q cannot contain whitespace", n.field, n.value)
		}
	}

	fw := c.Firmware
	if fw.SectorCount == 0 {
		return fmt.Errorf("firmware sector_count must be at least 1")
	}
	if fw.Start%hal.WordSize != 0 || fw.End%hal.WordSize != 0 {
		return fmt.Errorf("firmware region 0x%08X-0x%08X is not %d-byte aligned",
			fw.Start, fw.End, hal.WordSize)
	}
	// Room for the vector pair and the checksum word.
	if fw.End <= fw.Start || fw.End-fw.Start < 3*hal.WordSize {
		return fmt.Errorf("firmware region 0x%08X-0x%08X is too small", fw.Start, fw.End)
	}
	if c.RAM.End < c.RAM.Start {
		return fmt.Errorf("ram region 0x%08X-0x%08X is inverted", c.RAM.Start, c.RAM.End)
	}

	return nil
}

// Parse reads a YAML profile on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse board profile: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid board profile: %w", err)
	}
	return cfg, nil
}

// Load reads a YAML profile from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open board profile: %w", err)
	}
	return Parse(data)
}
