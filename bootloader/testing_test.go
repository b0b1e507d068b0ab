package bootloader

import (
	"encoding/binary"
	"testing"

	"github.com/moffa90/go-hexboot/board"
	"github.com/moffa90/go-hexboot/boot"
	"github.com/moffa90/go-hexboot/hal/sim"
	"github.com/moffa90/go-hexboot/hexrecord"
)

// Mock logger for testing
type MockLogger struct {
	debugMsgs []string
	infoMsgs  []string
	errorMsgs []string
}

func (l *MockLogger) Debug(msg string, kv ...interface{}) {
	l.debugMsgs = append(l.debugMsgs, msg)
}

func (l *MockLogger) Info(msg string, kv ...interface{}) {
	l.infoMsgs = append(l.infoMsgs, msg)
}

func (l *MockLogger) Error(msg string, kv ...interface{}) {
	l.errorMsgs = append(l.errorMsgs, msg)
}

type fixture struct {
	board   *sim.Board
	cfg     board.Config
	manager *boot.Manager
	bl      *Bootloader
	logger  *MockLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	b := sim.NewBoard()
	cfg := board.Default()
	manager := boot.New(b.Flash, b, b, cfg)
	logger := &MockLogger{}

	return &fixture{
		board:   b,
		cfg:     cfg,
		manager: manager,
		bl:      New(b.Flash, manager, cfg, WithLogger(logger)),
		logger:  logger,
	}
}

// testImage returns a firmware image starting at the firmware base: a
// vector table followed by a recognisable pattern.
func testImage(sp, entry uint32, size int) []byte {
	image := make([]byte, size)
	for i := range image {
		image[i] = byte(i*31 + 7)
	}
	binary.LittleEndian.PutUint32(image[0:], sp)
	binary.LittleEndian.PutUint32(image[4:], entry)
	return image
}

// hexLines encodes image at address as extended linear address, 16-byte
// data and end-of-file records.
func hexLines(t *testing.T, address uint32, image []byte) []string {
	t.Helper()

	var lines []string
	upper := uint32(0xFFFFFFFF)

	for off := 0; off < len(image); off += 16 {
		addr := address + uint32(off)
		if addr>>16 != upper {
			upper = addr >> 16
			rec, err := hexrecord.NewRecord(hexrecord.ExtendedLinearAddress, 0,
				[]byte{byte(upper >> 8), byte(upper)})
			if err != nil {
				t.Fatal(err)
			}
			lines = append(lines, rec.String())
		}

		end := off + 16
		if end > len(image) {
			end = len(image)
		}
		rec, err := hexrecord.NewRecord(hexrecord.Data, uint16(addr), image[off:end])
		if err != nil {
			t.Fatal(err)
		}
		lines = append(lines, rec.String())
	}

	eof, err := hexrecord.NewRecord(hexrecord.EndOfFile, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	return append(lines, eof.String())
}

func mustRecord(t *testing.T, typ hexrecord.Type, address uint16, payload []byte) string {
	t.Helper()
	rec, err := hexrecord.NewRecord(typ, address, payload)
	if err != nil {
		t.Fatal(err)
	}
	return rec.String()
}

// upload runs the complete upload sequence and fails the test on any error.
func (f *fixture) upload(t *testing.T, lines []string) {
	t.Helper()

	if err := f.bl.UnlockFirmware(); err != nil {
		t.Fatalf("UnlockFirmware() error: %v", err)
	}
	for i := uint32(0); i < f.cfg.Firmware.SectorCount; i++ {
		if err := f.bl.EraseSector(i); err != nil {
			t.Fatalf("EraseSector(%d) error: %v", i, err)
		}
	}
	for _, line := range lines {
		if err := f.bl.WriteHexRecord(line); err != nil {
			t.Fatalf("WriteHexRecord(%q) error: %v", line, err)
		}
	}
	if err := f.bl.LockFirmware(); err != nil {
		t.Fatalf("LockFirmware() error: %v", err)
	}
}
