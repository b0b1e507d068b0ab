package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Leave the bootloader and start the firmware",
	Long: `Leave the bootloader and start the firmware.

The device stays in the bootloader if the stored firmware is not valid.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, client, err := connect()
		if err != nil {
			return err
		}
		defer port.Close()

		if err := client.LaunchFirmware(cmd.Context()); err != nil {
			return err
		}
		log.Info("firmware launched")
		return nil
	},
}

var enterBootloaderCmd = &cobra.Command{
	Use:   "enter-bootloader",
	Short: "Ask the running firmware to reboot into the bootloader",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, client, err := connect()
		if err != nil {
			return err
		}
		defer port.Close()

		if err := client.LaunchBootloader(cmd.Context()); err != nil {
			return err
		}
		log.Info("bootloader requested")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(enterBootloaderCmd)
}
