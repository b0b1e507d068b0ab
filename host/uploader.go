package host

import (
	"context"
	"fmt"
	"time"

	"github.com/moffa90/go-hexboot/boot"
	"github.com/moffa90/go-hexboot/bootloader"
)

// Uploader runs the complete firmware upload sequence over a Client.
type Uploader struct {
	client *Client
	config Config
}

// NewUploader creates an uploader. Options given here only affect the
// upload sequence; request timeouts are configured on the client.
//
// Example:
//
//	up := host.NewUploader(client,
//	    host.WithTarget("NucleoF446RE", "1.0"),
//	    host.WithProgressCallback(progressFunc),
//	)
func NewUploader(client *Client, opts ...Option) *Uploader {
	if client == nil {
		panic("client cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = bootloader.NopLogger{}
	}

	return &Uploader{
		client: client,
		config: cfg,
	}
}

// Upload writes an image to a device in bootloader mode:
//  1. Check the boot mode and read the bootloader information
//  2. Check the board identity against the target, if one is configured
//  3. Unlock the firmware and erase every sector
//  4. Write every record in order; the end-of-file record stores the
//     image checksum on the device
//  5. Lock the firmware and optionally launch it
//
// Records are the lines of an Intel HEX file as returned by
// hexrecord.ReadLines. The first failure aborts the upload; nothing is
// retried.
//
// Example:
//
//	lines, _ := hexrecord.ReadLines(file)
//	err := up.Upload(ctx, lines)
func (u *Uploader) Upload(ctx context.Context, records []string) error {
	if len(records) == 0 {
		return fmt.Errorf("image has no records")
	}

	startTime := time.Now()

	// Phase 1: Identify the device
	u.reportProgress(Progress{
		Phase:        PhaseConnecting,
		TotalRecords: len(records),
		Message:      "Reading bootloader information.",
	})

	mode, err := u.client.BootMode(ctx)
	if err != nil {
		return fmt.Errorf("get boot mode: %w", err)
	}
	if mode != boot.Bootloader {
		return ErrNotInBootloader
	}

	info, err := u.client.BootloaderInfo(ctx)
	if err != nil {
		return fmt.Errorf("get bootloader info: %w", err)
	}

	u.config.Logger.Debug("bootloader info",
		"board", info.BoardName,
		"hardware", info.HardwareVersion,
		"bootloader", info.BootloaderVersion,
		"sectors", info.SectorCount,
		"firmware_valid", info.FirmwareValid,
	)

	// Phase 2: Validate board identity
	if t := u.config.Target; t != nil {
		if t.BoardName != info.BoardName {
			return &DeviceMismatchError{Field: "board name", Expected: t.BoardName, Actual: info.BoardName}
		}
		if t.HardwareVersion != info.HardwareVersion {
			return &DeviceMismatchError{Field: "hardware version", Expected: t.HardwareVersion, Actual: info.HardwareVersion}
		}
	}

	// Phase 3: Erase
	if err := u.client.UnlockFirmware(ctx); err != nil {
		return fmt.Errorf("unlock firmware: %w", err)
	}

	sectors := int(info.SectorCount)
	u.reportProgress(Progress{
		Phase:        PhaseErasing,
		TotalSectors: sectors,
		TotalRecords: len(records),
		Message:      "Firmware unlocked, erasing now.",
		ElapsedTime:  time.Since(startTime),
	})

	for i := 0; i < sectors; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		if err := u.client.EraseSector(ctx, uint32(i)); err != nil {
			return fmt.Errorf("erase sector %d: %w", i, err)
		}

		u.reportProgress(Progress{
			Phase:         PhaseErasing,
			CurrentSector: i + 1,
			TotalSectors:  sectors,
			TotalRecords:  len(records),
			Percentage:    float64(i+1) / float64(sectors) * 50,
			Message:       fmt.Sprintf("Sector %d of %d erased.", i+1, sectors),
			ElapsedTime:   time.Since(startTime),
		})
	}

	// Phase 4: Write
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		if err := u.client.WriteHexRecord(ctx, record); err != nil {
			return fmt.Errorf("write record %d (%s): %w", i+1, record, err)
		}

		u.reportProgress(Progress{
			Phase:         PhaseWriting,
			CurrentSector: sectors,
			TotalSectors:  sectors,
			CurrentRecord: i + 1,
			TotalRecords:  len(records),
			Percentage:    50 + float64(i+1)/float64(len(records))*50,
			Message:       fmt.Sprintf("Record %d of %d written.", i+1, len(records)),
			ElapsedTime:   time.Since(startTime),
		})
	}

	// Phase 5: Lock and launch
	if err := u.client.LockFirmware(ctx); err != nil {
		return fmt.Errorf("lock firmware: %w", err)
	}

	if u.config.Launch {
		u.reportProgress(Progress{
			Phase:         PhaseLaunching,
			CurrentSector: sectors,
			TotalSectors:  sectors,
			CurrentRecord: len(records),
			TotalRecords:  len(records),
			Percentage:    100,
			Message:       "Launching firmware.",
			ElapsedTime:   time.Since(startTime),
		})

		if err := u.client.LaunchFirmware(ctx); err != nil {
			return fmt.Errorf("launch firmware: %w", err)
		}
	}

	u.reportProgress(Progress{
		Phase:         PhaseComplete,
		CurrentSector: sectors,
		TotalSectors:  sectors,
		CurrentRecord: len(records),
		TotalRecords:  len(records),
		Percentage:    100,
		Message:       "Firmware upload complete.",
		ElapsedTime:   time.Since(startTime),
	})

	u.config.Logger.Info("upload complete",
		"sectors", sectors,
		"records", len(records),
		"elapsed", time.Since(startTime).String(),
	)

	return nil
}

// reportProgress calls the progress callback if configured.
func (u *Uploader) reportProgress(progress Progress) {
	if u.config.ProgressCallback != nil {
		u.config.ProgressCallback(progress)
	}
}
