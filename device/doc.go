// Package device runs the resident side of the line protocol.
//
// A Server owns the transport and runs the control loop: it reads one
// request line, hands it to a Handler, writes the single response line and
// only then reads the next request. Two handlers exist, one per build of
// the device program:
//
//   - Application, the bootloader build, which forwards erase and write
//     requests to a bootloader.Bootloader
//   - FirmwareApplication, the firmware build, which reports its identity
//     and can reboot into the bootloader
//
// Requests that reboot the device answer <OK> first. The server waits for
// the settle delay so the host can receive the response, then performs the
// reboot and returns ErrReset from Serve.
package device
