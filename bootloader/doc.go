// Package bootloader implements the resident side of a serial firmware
// update: it receives an Intel HEX image one record at a time and programs
// it into the firmware region of flash.
//
// # Overview
//
// An upload is a fixed sequence of calls, each driven by one line protocol
// request:
//   - UnlockFirmware
//   - EraseSector for every firmware sector
//   - WriteHexRecord for every record of the image, ending with the
//     end-of-file record, which stores the image checksum
//   - LockFirmware
//   - LaunchFirmware, which reboots into the new image
//
// # Basic Usage
//
//	b := sim.NewBoard()
//	cfg := board.Default()
//	manager := boot.New(b.Flash, b, b, cfg)
//
//	bl := bootloader.New(b.Flash, manager, cfg)
//	if err := bl.UnlockFirmware(); err != nil {
//	    log.Fatal(err)
//	}
//	for i := uint32(0); i < cfg.Firmware.SectorCount; i++ {
//	    if err := bl.EraseSector(i); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	for _, line := range lines {
//	    if err := bl.WriteHexRecord(line); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	_ = bl.LockFirmware()
//
// # Safety
//
// Data records are only accepted if they are word aligned and fall entirely
// inside [Firmware.Start, ChecksumAddress). Every programmed word is read
// back and compared. Nothing is retried: each failure is returned to the
// caller, and the device stays in the bootloader until a complete, valid
// image has been written.
//
// # Error Handling
//
// The package provides structured error types:
//   - EraseError: InvalidSector or EraseFailed (with controller status)
//   - ProgramError: InvalidAddress, WriteFailed (with controller status) or
//     DataMismatch
//   - ErrFirmwareLocked: erase or program while locked
//   - hexrecord.ParserError: malformed record
//
// Every error type has a Code method returning the wire code sent to the
// host, e.g. "INVALID_SECTOR".
package bootloader
