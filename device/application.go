package device

import (
	"errors"
	"strconv"

	"github.com/moffa90/go-hexboot/board"
	"github.com/moffa90/go-hexboot/boot"
	"github.com/moffa90/go-hexboot/bootloader"
	"github.com/moffa90/go-hexboot/protocol"
)

// Handler answers one request line.
//
// Handle returns the response line, terminator included, or an empty
// string if the request gets no response. A non-nil reboot function is
// called by the Server after the response has been sent; it returns an
// error if no reset was issued.
type Handler interface {
	Handle(line string) (response string, reboot func() error)
}

// Application is the request handler of the bootloader build.
type Application struct {
	bl *bootloader.Bootloader
}

// NewApplication returns the bootloader request handler.
func NewApplication(bl *bootloader.Bootloader) *Application {
	if bl == nil {
		panic("bootloader cannot be nil")
	}
	return &Application{bl: bl}
}

// Handle implements Handler.
func (a *Application) Handle(line string) (string, func() error) {
	tag, args := protocol.Split(line)

	switch tag {
	case "":
		return "", nil
	case protocol.CmdGetBootMode:
		return protocol.Response(protocol.TagBootMode, protocol.BootModeBootloader), nil
	case protocol.CmdGetBoardName:
		return protocol.Response(protocol.TagBoardName, a.bl.Info().BoardName), nil
	case protocol.CmdGetHardwareVersion:
		return protocol.Response(protocol.TagHardwareVersion, a.bl.Info().HardwareVersion), nil
	case protocol.CmdGetBootloaderVersion:
		return protocol.Response(protocol.TagBootloaderVersion, a.bl.Info().BootloaderVersion), nil
	case protocol.CmdGetSectorCount:
		count := strconv.FormatUint(uint64(a.bl.Info().SectorCount), 10)
		return protocol.Response(protocol.TagSectorCount, count), nil
	case protocol.CmdGetFirmwareValid:
		return protocol.Response(protocol.TagFirmwareValid, protocol.FormatBool(a.bl.FirmwareValid())), nil
	case protocol.CmdLaunchFirmware:
		// An invalid image keeps the next boot in the bootloader.
		return protocol.Response(protocol.TagOK, ""), a.bl.LaunchFirmware
	case protocol.CmdUnlockFirmware:
		return result(a.bl.UnlockFirmware()), nil
	case protocol.CmdLockFirmware:
		return result(a.bl.LockFirmware()), nil
	case protocol.CmdEraseSector:
		if len(args) == 0 {
			return protocol.ErrorResponse(protocol.CodeMissingParameter), nil
		}
		sector, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return protocol.ErrorResponse(protocol.CodeInvalidSector), nil
		}
		return result(a.bl.EraseSector(uint32(sector))), nil
	case protocol.CmdWriteHexRecord:
		if len(args) == 0 {
			return protocol.ErrorResponse(protocol.CodeMissingParameter), nil
		}
		return result(a.bl.WriteHexRecord(args[0])), nil
	default:
		return protocol.ErrorResponse(protocol.CodeUnknownCommand), nil
	}
}

// FirmwareApplication is the request handler of the firmware build.
type FirmwareApplication struct {
	cfg  board.Config
	boot *boot.Manager
}

// NewFirmwareApplication returns the firmware request handler.
func NewFirmwareApplication(cfg board.Config, manager *boot.Manager) *FirmwareApplication {
	if manager == nil {
		panic("boot manager cannot be nil")
	}
	return &FirmwareApplication{cfg: cfg, boot: manager}
}

// Handle implements Handler.
func (a *FirmwareApplication) Handle(line string) (string, func() error) {
	tag, _ := protocol.Split(line)

	switch tag {
	case "":
		return "", nil
	case protocol.CmdGetBootMode:
		return protocol.Response(protocol.TagBootMode, protocol.BootModeFirmware), nil
	case protocol.CmdGetBoardName:
		return protocol.Response(protocol.TagBoardName, a.cfg.BoardName), nil
	case protocol.CmdGetHardwareVersion:
		return protocol.Response(protocol.TagHardwareVersion, a.cfg.HardwareVersion), nil
	case protocol.CmdGetFirmwareVersion:
		return protocol.Response(protocol.TagFirmwareVersion, a.cfg.FirmwareVersion), nil
	case protocol.CmdLaunchBootloader:
		return protocol.Response(protocol.TagOK, ""), func() error {
			a.boot.Reboot(boot.Bootloader)
			return nil
		}
	default:
		return protocol.ErrorResponse(protocol.CodeUnknownCommand), nil
	}
}

// coder is implemented by every error the bootloader reports.
type coder interface {
	Code() string
}

func result(err error) string {
	if err == nil {
		return protocol.Response(protocol.TagOK, "")
	}
	return protocol.ErrorResponse(errorCode(err))
}

// errorCode returns the wire code of err. Errors without a code come from
// the flash controller while locking and are reported as WRITE_FAILED.
func errorCode(err error) string {
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return protocol.CodeWriteFailed
}
