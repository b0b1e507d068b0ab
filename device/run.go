package device

import (
	"context"
	"errors"

	"github.com/moffa90/go-hexboot/board"
	"github.com/moffa90/go-hexboot/boot"
	"github.com/moffa90/go-hexboot/bootloader"
)

// Run boots the device and serves requests until the transport closes or
// ctx is done.
//
// Every boot, including the ones after a requested reboot, starts with the
// boot manager's decision: a launched image is served by a
// FirmwareApplication, otherwise the bootloader's Application answers.
// This is what a board does across resets, so Run drives the simulated
// board of the hexboot simulate command.
func Run(ctx context.Context, srv *Server, manager *boot.Manager, bl *bootloader.Bootloader, cfg board.Config) error {
	firmware := NewFirmwareApplication(cfg, manager)
	app := NewApplication(bl)

	for {
		decision := manager.Init()
		srv.config.Logger.Info("boot", "decision", decision.String())

		var h Handler = app
		if decision == boot.Launched {
			h = firmware
		}

		err := srv.Serve(ctx, h)
		if errors.Is(err, ErrReset) {
			continue
		}
		return err
	}
}
