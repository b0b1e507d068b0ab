package main

import (
	"errors"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-hexboot/boot"
	"github.com/moffa90/go-hexboot/bootloader"
	"github.com/moffa90/go-hexboot/device"
	"github.com/moffa90/go-hexboot/hal/sim"
	"github.com/moffa90/go-hexboot/internal/logging"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Serve a simulated board on a serial port",
	Long: `Serve a simulated board on a serial port.

The board starts with erased flash, so it boots into the bootloader. Connect
the uploader to the other end of a null-modem pair (e.g. socat pty pair) to
test uploads without hardware.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		firmwareVersion, _ := cmd.Flags().GetString("firmware-version")

		cfg, err := loadBoard()
		if err != nil {
			return err
		}
		if firmwareVersion != "" {
			cfg.FirmwareVersion = firmwareVersion
		}

		port, err := openPort()
		if err != nil {
			return err
		}
		defer port.Close()

		logger := logging.New(log.StandardLogger()).With("board", cfg.BoardName)

		b := sim.NewBoard()
		manager := boot.New(b.Flash, b, b, cfg)
		bl := bootloader.New(b.Flash, manager, cfg, bootloader.WithLogger(logger))
		srv := device.NewServer(port, device.WithLogger(logger))

		log.WithField("port", portName).Info("simulated board running")

		err = device.Run(cmd.Context(), srv, manager, bl, cfg)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	},
}

func init() {
	simulateCmd.Flags().String("firmware-version", "", "Version reported by the simulated firmware")
	rootCmd.AddCommand(simulateCmd)
}
