package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-hexboot/board"
	"github.com/moffa90/go-hexboot/checksum"
	"github.com/moffa90/go-hexboot/hal"
	"github.com/moffa90/go-hexboot/hexrecord"
)

// readImage reads and validates the record lines of a HEX file.
func readImage(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines, err := hexrecord.ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}

// imageReport is the offline analysis of an image against a board.
type imageReport struct {
	Records      int
	Segments     []hexrecord.Segment
	Bytes        int
	StackPointer uint32
	Entry        uint32
	Checksum     uint32
}

// analyze checks that the image fits the firmware region of cfg and
// predicts the checksum the bootloader will store.
func analyze(path string, cfg board.Config) (*imageReport, error) {
	lines, err := readImage(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	segments, err := hexrecord.LoadImage(f)
	if err != nil {
		return nil, err
	}

	r := &imageReport{Records: len(lines), Segments: segments}
	for _, s := range segments {
		r.Bytes += len(s.Data)
		if s.Address%hal.WordSize != 0 {
			return nil, fmt.Errorf("segment at 0x%08X is not word aligned", s.Address)
		}
	}

	size := cfg.ChecksumAddress() - cfg.Firmware.Start
	flat, err := hexrecord.Flatten(segments, cfg.Firmware.Start, size, 0xFF)
	if err != nil {
		return nil, fmt.Errorf("image does not fit the firmware region: %w", err)
	}

	r.StackPointer = binary.LittleEndian.Uint32(flat[0:])
	r.Entry = binary.LittleEndian.Uint32(flat[4:])
	r.Checksum = checksum.Image(flat)

	if r.StackPointer < cfg.RAM.Start || r.StackPointer > cfg.RAM.End {
		return r, fmt.Errorf("initial stack pointer 0x%08X outside RAM 0x%08X-0x%08X",
			r.StackPointer, cfg.RAM.Start, cfg.RAM.End)
	}
	return r, nil
}

var checkCmd = &cobra.Command{
	Use:   "check <image.hex>",
	Short: "Check an image offline",
	Long: `Check an image offline: parse every record, check that the data fits the
firmware region of the board and print the checksum the bootloader will store.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadBoard()
		if err != nil {
			return err
		}

		r, err := analyze(args[0], cfg)
		if r == nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Records:       %d\n", r.Records)
		for _, s := range r.Segments {
			fmt.Fprintf(out, "Segment:       0x%08X-0x%08X (%d bytes)\n", s.Address, s.End(), len(s.Data))
		}
		fmt.Fprintf(out, "Stack pointer: 0x%08X\n", r.StackPointer)
		fmt.Fprintf(out, "Entry point:   0x%08X\n", r.Entry)
		fmt.Fprintf(out, "Checksum:      0x%08X (%s)\n", r.Checksum, checksum.Algorithm)
		return err
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
