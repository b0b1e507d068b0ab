package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moffa90/go-hexboot/board"
	"github.com/moffa90/go-hexboot/boot"
	"github.com/moffa90/go-hexboot/bootloader"
	"github.com/moffa90/go-hexboot/hal/sim"
	"github.com/moffa90/go-hexboot/hexrecord"
)

func writeHex(t *testing.T, segments []hexrecord.Segment) string {
	t.Helper()

	var buf bytes.Buffer
	if err := hexrecord.EncodeImage(&buf, segments); err != nil {
		t.Fatalf("EncodeImage() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "image.hex")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func vectors(sp, entry uint32) []byte {
	data := make([]byte, 64)
	binary.LittleEndian.PutUint32(data[0:], sp)
	binary.LittleEndian.PutUint32(data[4:], entry)
	return data
}

func TestAnalyze(t *testing.T) {
	cfg := board.Default()

	tests := []struct {
		name     string
		segments []hexrecord.Segment
		wantErr  string
	}{
		{
			name:     "valid image",
			segments: []hexrecord.Segment{{Address: cfg.Firmware.Start, Data: vectors(0x20010000, 0x08008101)}},
		},
		{
			name:     "stack pointer outside RAM",
			segments: []hexrecord.Segment{{Address: cfg.Firmware.Start, Data: vectors(0x10000000, 0x08008101)}},
			wantErr:  "stack pointer",
		},
		{
			name:     "below firmware region",
			segments: []hexrecord.Segment{{Address: 0x08000000, Data: vectors(0x20010000, 0x08008101)}},
			wantErr:  "does not fit",
		},
		{
			name:     "overlaps checksum word",
			segments: []hexrecord.Segment{{Address: cfg.ChecksumAddress(), Data: []byte{1, 2, 3, 4}}},
			wantErr:  "does not fit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := analyze(writeHex(t, tt.segments), cfg)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("analyze() error: %v", err)
				}
				if r.StackPointer != 0x20010000 || r.Entry != 0x08008101 {
					t.Errorf("vectors = 0x%08X, 0x%08X", r.StackPointer, r.Entry)
				}
				if r.Bytes != 64 {
					t.Errorf("Bytes = %d, want 64", r.Bytes)
				}
				return
			}

			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("analyze() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	if _, err := analyze(filepath.Join(t.TempDir(), "missing.hex"), board.Default()); err == nil {
		t.Error("analyze() should fail for a missing file")
	}
}

func TestAnalyzeChecksumMatchesDevice(t *testing.T) {
	cfg := board.Default()
	path := writeHex(t, []hexrecord.Segment{{Address: cfg.Firmware.Start, Data: vectors(0x20010000, 0x08008101)}})

	r, err := analyze(path, cfg)
	if err != nil {
		t.Fatalf("analyze() error: %v", err)
	}

	lines, err := readImage(path)
	if err != nil {
		t.Fatal(err)
	}

	b := sim.NewBoard()
	bl := bootloader.New(b.Flash, boot.New(b.Flash, b, b, cfg), cfg)
	if err := bl.UnlockFirmware(); err != nil {
		t.Fatal(err)
	}
	for i := uint32(0); i < cfg.Firmware.SectorCount; i++ {
		if err := bl.EraseSector(i); err != nil {
			t.Fatal(err)
		}
	}
	for _, line := range lines {
		if err := bl.WriteHexRecord(line); err != nil {
			t.Fatalf("WriteHexRecord(%q) error: %v", line, err)
		}
	}

	if stored := b.Flash.ReadWord(cfg.ChecksumAddress()); stored != r.Checksum {
		t.Errorf("device stored 0x%08X, check predicted 0x%08X", stored, r.Checksum)
	}
}
