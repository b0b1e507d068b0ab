package protocol

// BootloaderInfo is the identity reported by the bootloader build.
// Returned by the GET_* requests of a device in bootloader mode.
type BootloaderInfo struct {
	// BoardName identifies the board, e.g. "NucleoF446RE"
	BoardName string

	// HardwareVersion is the board hardware revision
	HardwareVersion string

	// BootloaderVersion is the resident bootloader version
	BootloaderVersion string

	// SectorCount is the number of erasable firmware sectors
	SectorCount uint32

	// FirmwareValid reports whether the stored firmware may be started
	FirmwareValid bool
}

// FirmwareInfo is the identity reported by the firmware build.
type FirmwareInfo struct {
	// BoardName identifies the board
	BoardName string

	// HardwareVersion is the board hardware revision
	HardwareVersion string

	// FirmwareVersion is the running application version
	FirmwareVersion string
}
