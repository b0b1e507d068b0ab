package host

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/moffa90/go-hexboot/board"
	"github.com/moffa90/go-hexboot/boot"
	"github.com/moffa90/go-hexboot/bootloader"
	"github.com/moffa90/go-hexboot/device"
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

type duplex struct {
	io.Reader
	io.Writer
}

// simDevice is a simulated board running the device program on the far end
// of an in-memory serial link.
type simDevice struct {
	board   *sim.Board
	cfg     board.Config
	manager *boot.Manager
	bl      *bootloader.Bootloader
	port    io.ReadWriter
	done    chan error
}

func startDevice(t *testing.T) *simDevice {
	t.Helper()

	b := sim.NewBoard()
	cfg := board.Default()
	manager := boot.New(b.Flash, b, b, cfg)
	bl := bootloader.New(b.Flash, manager, cfg)

	hostR, devW := io.Pipe()
	devR, hostW := io.Pipe()

	d := &simDevice{
		board:   b,
		cfg:     cfg,
		manager: manager,
		bl:      bl,
		port:    duplex{Reader: hostR, Writer: hostW},
		done:    make(chan error, 1),
	}

	srv := device.NewServer(duplex{Reader: devR, Writer: devW}, device.WithSettleDelay(time.Millisecond))
	go func() {
		d.done <- device.Run(context.Background(), srv, manager, bl, cfg)
		devW.Close()
	}()

	t.Cleanup(func() {
		hostW.Close()
		select {
		case err := <-d.done:
			if err != nil && !errors.Is(err, io.ErrClosedPipe) {
				t.Errorf("device stopped with error: %v", err)
			}
		case <-time.After(time.Second):
			t.Error("device did not stop")
		}
	})

	return d
}

// testImage returns the hex lines of a valid image for the default board.
func testImage(t *testing.T, size int) []string {
	t.Helper()

	cfg := board.Default()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i ^ 0x5A)
	}
	binary.LittleEndian.PutUint32(data[0:], cfg.RAM.End)
	binary.LittleEndian.PutUint32(data[4:], cfg.Firmware.Start+0x1C1)

	var buf bytes.Buffer
	segments := []hexrecord.Segment{{Address: cfg.Firmware.Start, Data: data}}
	if err := hexrecord.EncodeImage(&buf, segments); err != nil {
		t.Fatalf("EncodeImage() error: %v", err)
	}

	lines, err := hexrecord.ReadLines(&buf)
	if err != nil {
		t.Fatalf("ReadLines() error: %v", err)
	}
	return lines
}
