package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-hexboot/boot"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the identity of the connected device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, client, err := connect()
		if err != nil {
			return err
		}
		defer port.Close()

		ctx := cmd.Context()
		mode, err := client.BootMode(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Boot mode:          %s\n", mode)

		if mode == boot.Bootloader {
			info, err := client.BootloaderInfo(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Board name:         %s\n", info.BoardName)
			fmt.Fprintf(out, "Hardware version:   %s\n", info.HardwareVersion)
			fmt.Fprintf(out, "Bootloader version: %s\n", info.BootloaderVersion)
			fmt.Fprintf(out, "Sector count:       %d\n", info.SectorCount)
			fmt.Fprintf(out, "Firmware valid:     %t\n", info.FirmwareValid)
			return nil
		}

		info, err := client.FirmwareInfo(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Board name:         %s\n", info.BoardName)
		fmt.Fprintf(out, "Hardware version:   %s\n", info.HardwareVersion)
		fmt.Fprintf(out, "Firmware version:   %s\n", info.FirmwareVersion)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
