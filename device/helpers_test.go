package device

import (
	"encoding/binary"
	"testing"

	"github.com/moffa90/go-hexboot/hexrecord"
)

// installFirmware uploads a small valid image through the bootloader.
func installFirmware(t *testing.T, d *testDevice) {
	t.Helper()

	image := make([]byte, 64)
	binary.LittleEndian.PutUint32(image[0:], d.cfg.RAM.End)
	binary.LittleEndian.PutUint32(image[4:], d.cfg.Firmware.Start+0x101)

	lines := []string{":020000040800F2"}
	for off := 0; off < len(image); off += 16 {
		rec, err := hexrecord.NewRecord(hexrecord.Data, uint16(d.cfg.Firmware.Start)+uint16(off), image[off:off+16])
		if err != nil {
			t.Fatal(err)
		}
		lines = append(lines, rec.String())
	}
	lines = append(lines, ":00000001FF")

	if err := d.bl.UnlockFirmware(); err != nil {
		t.Fatal(err)
	}
	for i := uint32(0); i < d.cfg.Firmware.SectorCount; i++ {
		if err := d.bl.EraseSector(i); err != nil {
			t.Fatal(err)
		}
	}
	for _, line := range lines {
		if err := d.bl.WriteHexRecord(line); err != nil {
			t.Fatalf("WriteHexRecord(%q) error: %v", line, err)
		}
	}
	if err := d.bl.LockFirmware(); err != nil {
		t.Fatal(err)
	}
	if !d.bl.FirmwareValid() {
		t.Fatal("installed firmware is not valid")
	}
}
