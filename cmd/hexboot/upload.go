package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-hexboot/host"
	"github.com/moffa90/go-hexboot/internal/logging"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <image.hex>",
	Short: "Upload a firmware image",
	Long: `Upload a firmware image to a device in bootloader mode.

All firmware sectors are erased, then every record of the image is written.
With --board the device's board name and hardware version must match the
profile.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		launch, _ := cmd.Flags().GetBool("launch")
		eraseTimeout, _ := cmd.Flags().GetDuration("erase-timeout")
		writeTimeout, _ := cmd.Flags().GetDuration("write-timeout")

		lines, err := readImage(args[0])
		if err != nil {
			return err
		}
		log.WithField("records", len(lines)).Info("hex file loaded")

		port, client, err := connect(
			host.WithEraseTimeout(eraseTimeout),
			host.WithWriteTimeout(writeTimeout),
		)
		if err != nil {
			return err
		}
		defer port.Close()

		bar := progressbar.NewOptions(100,
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Connecting"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
		)

		opts := []host.Option{
			host.WithLaunch(launch),
			host.WithLogger(logging.New(log.StandardLogger())),
			host.WithProgressCallback(func(p host.Progress) {
				bar.Describe(p.Phase)
				_ = bar.Set(int(p.Percentage))
			}),
		}
		if profilePath != "" {
			cfg, err := loadBoard()
			if err != nil {
				return err
			}
			opts = append(opts, host.WithTarget(cfg.BoardName, cfg.HardwareVersion))
		}

		if err := host.NewUploader(client, opts...).Upload(cmd.Context(), lines); err != nil {
			return fmt.Errorf("upload: %w", err)
		}
		_ = bar.Finish()

		log.Info("firmware upload complete")
		return nil
	},
}

func init() {
	uploadCmd.Flags().BoolP("launch", "l", false, "Start the firmware after the upload")
	uploadCmd.Flags().Duration("erase-timeout", host.DefaultEraseTimeout, "Timeout of each sector erase")
	uploadCmd.Flags().Duration("write-timeout", host.DefaultWriteTimeout, "Timeout of each record write")
	rootCmd.AddCommand(uploadCmd)
}
