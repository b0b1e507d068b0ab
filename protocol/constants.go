package protocol

// Terminator ends every request and response line.
const Terminator = "\r\n"

// Separator separates the tag from its argument.
const Separator = " "

// Buffer sizes of the reference implementation.
const (
	// DefaultBufferSize is the device receive buffer, terminator included.
	// A WRITE_HEX_RECORD request with a 32-byte record needs 96 bytes.
	DefaultBufferSize = 128

	// MaxResponseSize is the longest response the host accepts, terminator
	// included
	MaxResponseSize = 64
)

// Request tags.
const (
	// CmdGetBootMode asks which program is running
	CmdGetBootMode = "<GET_BOOT_MODE>"

	// CmdGetBoardName asks for the board name
	CmdGetBoardName = "<GET_BOARD_NAME>"

	// CmdGetHardwareVersion asks for the hardware version
	CmdGetHardwareVersion = "<GET_HARDWARE_VERSION>"

	// CmdGetBootloaderVersion asks for the bootloader version (bootloader only)
	CmdGetBootloaderVersion = "<GET_BOOTLOADER_VERSION>"

	// CmdGetFirmwareVersion asks for the firmware version (firmware only)
	CmdGetFirmwareVersion = "<GET_FIRMWARE_VERSION>"

	// CmdGetSectorCount asks for the number of firmware sectors
	CmdGetSectorCount = "<GET_SECTOR_COUNT>"

	// CmdGetFirmwareValid asks whether the stored firmware may be started
	CmdGetFirmwareValid = "<GET_FIRMWARE_VALID>"

	// CmdUnlockFirmware enables erase and write requests
	CmdUnlockFirmware = "<UNLOCK_FIRMWARE>"

	// CmdLockFirmware disables erase and write requests
	CmdLockFirmware = "<LOCK_FIRMWARE>"

	// CmdEraseSector erases one firmware sector, argument is the sector index
	CmdEraseSector = "<ERASE_SECTOR>"

	// CmdWriteHexRecord programs one Intel HEX record, argument is the line
	CmdWriteHexRecord = "<WRITE_HEX_RECORD>"

	// CmdLaunchFirmware reboots into the firmware (bootloader only)
	CmdLaunchFirmware = "<LAUNCH_FIRMWARE>"

	// CmdLaunchBootloader reboots into the bootloader (firmware only)
	CmdLaunchBootloader = "<LAUNCH_BOOTLOADER>"
)

// Response tags.
const (
	TagOK                = "<OK>"
	TagError             = "<ERROR>"
	TagBootMode          = "<BOOT_MODE>"
	TagBoardName         = "<BOARD_NAME>"
	TagHardwareVersion   = "<HARDWARE_VERSION>"
	TagBootloaderVersion = "<BOOTLOADER_VERSION>"
	TagFirmwareVersion   = "<FIRMWARE_VERSION>"
	TagSectorCount       = "<SECTOR_COUNT>"
	TagFirmwareValid     = "<FIRMWARE_VALID>"
)

// Boot mode values of the <BOOT_MODE> response.
const (
	BootModeBootloader = "BOOTLOADER"
	BootModeFirmware   = "FIRMWARE"
)

// Error codes carried by <ERROR> responses.
const (
	// Protocol errors
	CodeUnknownCommand   = "UNKNOWN_COMMAND"
	CodeMissingParameter = "MISSING_PARAMETER"
	CodeDataOverflow     = "DATA_OVERFLOW"

	// Bootloader state
	CodeFirmwareLocked = "FIRMWARE_LOCKED"

	// Record parse errors
	CodeInvalidRecord   = "INVALID_RECORD"
	CodeInvalidLength   = "INVALID_LENGTH"
	CodeInvalidType     = "INVALID_TYPE"
	CodeInvalidChecksum = "INVALID_CHECKSUM"

	// Flash errors
	CodeInvalidSector  = "INVALID_SECTOR"
	CodeEraseFailed    = "ERASE_FAILED"
	CodeInvalidAddress = "INVALID_ADDRESS"
	CodeWriteFailed    = "WRITE_FAILED"
	CodeDataMismatch   = "DATA_MISMATCH"
)
