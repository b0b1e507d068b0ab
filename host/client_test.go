package host

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/moffa90/go-hexboot/boot"
	"github.com/moffa90/go-hexboot/protocol"
)

func TestNewClientPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewClient(nil) should panic")
		}
	}()
	NewClient(nil)
}

func TestClientBootloaderInfo(t *testing.T) {
	d := startDevice(t)
	client := NewClient(d.port)
	ctx := context.Background()

	mode, err := client.BootMode(ctx)
	if err != nil {
		t.Fatalf("BootMode() error: %v", err)
	}
	if mode != boot.Bootloader {
		t.Errorf("BootMode() = %v, want %v", mode, boot.Bootloader)
	}

	info, err := client.BootloaderInfo(ctx)
	if err != nil {
		t.Fatalf("BootloaderInfo() error: %v", err)
	}

	want := protocol.BootloaderInfo{
		BoardName:         "NucleoF446RE",
		HardwareVersion:   "1.0",
		BootloaderVersion: "1.0",
		SectorCount:       3,
		FirmwareValid:     false,
	}
	if info != want {
		t.Errorf("BootloaderInfo() = %+v, want %+v", info, want)
	}
}

func TestClientDeviceErrors(t *testing.T) {
	d := startDevice(t)
	client := NewClient(d.port)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		code string
	}{
		{
			name: "write while locked",
			call: func() error { return client.WriteHexRecord(ctx, ":020000040800F2") },
			code: protocol.CodeFirmwareLocked,
		},
		{
			name: "firmware request in bootloader",
			call: func() error { return client.LaunchBootloader(ctx) },
			code: protocol.CodeUnknownCommand,
		},
		{
			name: "invalid sector",
			call: func() error {
				if err := client.UnlockFirmware(ctx); err != nil {
					return err
				}
				return client.EraseSector(ctx, 5)
			},
			code: protocol.CodeInvalidSector,
		},
		{
			name: "invalid record",
			call: func() error { return client.WriteHexRecord(ctx, ":0000") },
			code: protocol.CodeInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()

			var devErr *protocol.DeviceError
			if !errors.As(err, &devErr) {
				t.Fatalf("error = %v, want *protocol.DeviceError", err)
			}
			if devErr.Code != tt.code {
				t.Errorf("Code = %q, want %q", devErr.Code, tt.code)
			}
		})
	}
}

func TestClientFirmwareInfo(t *testing.T) {
	d := startDevice(t)
	client := NewClient(d.port)
	ctx := context.Background()

	up := NewUploader(client, WithLaunch(true))
	if err := up.Upload(ctx, testImage(t, 256)); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	// The board was reset by the launch and now runs the firmware

	mode, err := client.BootMode(ctx)
	if err != nil {
		t.Fatalf("BootMode() error: %v", err)
	}
	if mode != boot.Firmware {
		t.Fatalf("BootMode() = %v, want %v", mode, boot.Firmware)
	}

	info, err := client.FirmwareInfo(ctx)
	if err != nil {
		t.Fatalf("FirmwareInfo() error: %v", err)
	}
	if info.BoardName != "NucleoF446RE" || info.HardwareVersion != "1.0" {
		t.Errorf("FirmwareInfo() = %+v", info)
	}

	if err := client.LaunchBootloader(ctx); err != nil {
		t.Fatalf("LaunchBootloader() error: %v", err)
	}
	if mode, err := client.BootMode(ctx); err != nil || mode != boot.Bootloader {
		t.Errorf("BootMode() after LaunchBootloader = %v, %v", mode, err)
	}
}

// silentDevice accepts requests and never answers.
type silentDevice struct {
	r *io.PipeReader
}

func (s silentDevice) Read(p []byte) (int, error)  { return s.r.Read(p) }
func (s silentDevice) Write(p []byte) (int, error) { return len(p), nil }

func TestClientTimeout(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	client := NewClient(silentDevice{r: pr}, WithTimeout(10*time.Millisecond), WithEraseTimeout(20*time.Millisecond))

	_, err := client.BootMode(context.Background())
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("BootMode() error = %v, want *TimeoutError", err)
	}
	if timeoutErr.Request != protocol.CmdGetBootMode || timeoutErr.Timeout != 10*time.Millisecond {
		t.Errorf("TimeoutError = %+v", timeoutErr)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("TimeoutError should match context.DeadlineExceeded")
	}

	err = client.EraseSector(context.Background(), 0)
	if !errors.As(err, &timeoutErr) || timeoutErr.Timeout != 20*time.Millisecond {
		t.Errorf("EraseSector() error = %v, want erase timeout", err)
	}
}

func TestClientContextCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	client := NewClient(silentDevice{r: pr}, WithTimeout(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := client.UnlockFirmware(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("UnlockFirmware() error = %v, want Canceled", err)
	}
}

// cannedDevice answers every request with the same line.
type cannedDevice struct {
	pr       *io.PipeReader
	pw       *io.PipeWriter
	response string
}

func newCanned(response string) *cannedDevice {
	pr, pw := io.Pipe()
	return &cannedDevice{pr: pr, pw: pw, response: response}
}

func (c *cannedDevice) Read(p []byte) (int, error) { return c.pr.Read(p) }

func (c *cannedDevice) Write(p []byte) (int, error) {
	go io.WriteString(c.pw, c.response)
	return len(p), nil
}

func TestClientInvalidResponses(t *testing.T) {
	tests := []struct {
		name     string
		response string
		check    func(error) bool
	}{
		{
			name:     "too long",
			response: "<BOOT_MODE> " + strings.Repeat("X", 80) + "\r\n",
			check:    func(err error) bool { return errors.Is(err, ErrResponseTooLong) },
		},
		{
			name:     "unknown mode",
			response: "<BOOT_MODE> SLEEPING\r\n",
			check: func(err error) bool {
				var respErr *protocol.InvalidResponseError
				return errors.As(err, &respErr)
			},
		},
		{
			name:     "wrong tag",
			response: "<OK>\r\n",
			check: func(err error) bool {
				var respErr *protocol.InvalidResponseError
				return errors.As(err, &respErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newCanned(tt.response)
			defer dev.pw.Close()

			client := NewClient(dev, WithTimeout(time.Second))
			_, err := client.BootMode(context.Background())
			if err == nil || !tt.check(err) {
				t.Errorf("BootMode() error = %v", err)
			}
		})
	}
}

func TestClientTransportClosed(t *testing.T) {
	pr, pw := io.Pipe()
	pw.Close()

	client := NewClient(silentDevice{r: pr}, WithTimeout(time.Second))
	_, err := client.BootMode(context.Background())
	if !errors.Is(err, io.EOF) {
		t.Errorf("BootMode() error = %v, want EOF", err)
	}
}
