package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/moffa90/go-hexboot/boot"
	"github.com/moffa90/go-hexboot/bootloader"
	"github.com/moffa90/go-hexboot/protocol"
)

type readResult struct {
	line string
	err  error
}

// Client sends line protocol requests to a device and waits for the
// responses.
//
// A background goroutine reads the transport for the lifetime of the
// client; it stops when the transport's Read fails, e.g. after the port is
// closed. Client is safe for concurrent use; requests are serialised.
type Client struct {
	w      io.Writer
	config Config

	mu    sync.Mutex
	lines chan readResult
	done  chan struct{}
	err   error
}

// NewClient creates a client on the given transport.
//
// Example:
//
//	port, _ := serial.Open("/dev/ttyACM0", &serial.Mode{BaudRate: 115200})
//	client := host.NewClient(port, host.WithTimeout(time.Second))
func NewClient(device io.ReadWriter, opts ...Option) *Client {
	if device == nil {
		panic("device cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = bootloader.NopLogger{}
	}

	c := &Client{
		w:      device,
		config: cfg,
		lines:  make(chan readResult),
		done:   make(chan struct{}),
	}
	go c.readLoop(device)
	return c
}

func (c *Client) readLoop(r io.Reader) {
	defer close(c.done)

	lr := protocol.NewLineReader(r, protocol.MaxResponseSize)
	for {
		line, err := lr.ReadLine()
		if err != nil && !errors.Is(err, protocol.ErrOverflow) {
			c.err = err
			return
		}
		c.lines <- readResult{line: line, err: err}
	}
}

// BootMode returns which program the device is running.
func (c *Client) BootMode(ctx context.Context) (boot.Mode, error) {
	response, err := c.request(ctx, c.config.Timeout, protocol.CmdGetBootMode)
	if err != nil {
		return 0, err
	}

	mode, err := protocol.ParseResponse(response, protocol.TagBootMode)
	if err != nil {
		return 0, err
	}

	switch mode {
	case protocol.BootModeBootloader:
		return boot.Bootloader, nil
	case protocol.BootModeFirmware:
		return boot.Firmware, nil
	default:
		return 0, &protocol.InvalidResponseError{Response: response}
	}
}

// BootloaderInfo reads the identity of a device in bootloader mode.
func (c *Client) BootloaderInfo(ctx context.Context) (protocol.BootloaderInfo, error) {
	var info protocol.BootloaderInfo
	var err error

	if info.BoardName, err = c.value(ctx, protocol.CmdGetBoardName, protocol.TagBoardName); err != nil {
		return info, err
	}
	if info.HardwareVersion, err = c.value(ctx, protocol.CmdGetHardwareVersion, protocol.TagHardwareVersion); err != nil {
		return info, err
	}
	if info.BootloaderVersion, err = c.value(ctx, protocol.CmdGetBootloaderVersion, protocol.TagBootloaderVersion); err != nil {
		return info, err
	}

	response, err := c.request(ctx, c.config.Timeout, protocol.CmdGetSectorCount)
	if err != nil {
		return info, err
	}
	count, err := protocol.ParseUint(response, protocol.TagSectorCount)
	if err != nil {
		return info, err
	}
	info.SectorCount = uint32(count)

	response, err = c.request(ctx, c.config.Timeout, protocol.CmdGetFirmwareValid)
	if err != nil {
		return info, err
	}
	if info.FirmwareValid, err = protocol.ParseBool(response, protocol.TagFirmwareValid); err != nil {
		return info, err
	}

	return info, nil
}

// FirmwareInfo reads the identity of a device running its firmware.
func (c *Client) FirmwareInfo(ctx context.Context) (protocol.FirmwareInfo, error) {
	var info protocol.FirmwareInfo
	var err error

	if info.BoardName, err = c.value(ctx, protocol.CmdGetBoardName, protocol.TagBoardName); err != nil {
		return info, err
	}
	if info.HardwareVersion, err = c.value(ctx, protocol.CmdGetHardwareVersion, protocol.TagHardwareVersion); err != nil {
		return info, err
	}
	if info.FirmwareVersion, err = c.value(ctx, protocol.CmdGetFirmwareVersion, protocol.TagFirmwareVersion); err != nil {
		return info, err
	}

	return info, nil
}

// LaunchBootloader asks the running firmware to reboot into the bootloader.
func (c *Client) LaunchBootloader(ctx context.Context) error {
	return c.ok(ctx, c.config.Timeout, protocol.CmdLaunchBootloader)
}

// LaunchFirmware asks the bootloader to reboot into the firmware. The
// bootloader stays resident if the firmware is invalid.
func (c *Client) LaunchFirmware(ctx context.Context) error {
	return c.ok(ctx, c.config.Timeout, protocol.CmdLaunchFirmware)
}

// UnlockFirmware enables erase and write requests.
func (c *Client) UnlockFirmware(ctx context.Context) error {
	return c.ok(ctx, c.config.Timeout, protocol.CmdUnlockFirmware)
}

// LockFirmware disables erase and write requests.
func (c *Client) LockFirmware(ctx context.Context) error {
	return c.ok(ctx, c.config.Timeout, protocol.CmdLockFirmware)
}

// EraseSector erases one firmware sector.
func (c *Client) EraseSector(ctx context.Context, sector uint32) error {
	return c.ok(ctx, c.config.EraseTimeout, protocol.CmdEraseSector, strconv.FormatUint(uint64(sector), 10))
}

// WriteHexRecord programs one Intel HEX record line.
func (c *Client) WriteHexRecord(ctx context.Context, record string) error {
	return c.ok(ctx, c.config.WriteTimeout, protocol.CmdWriteHexRecord, record)
}

func (c *Client) value(ctx context.Context, tag, responseTag string) (string, error) {
	response, err := c.request(ctx, c.config.Timeout, tag)
	if err != nil {
		return "", err
	}
	return protocol.ParseResponse(response, responseTag)
}

func (c *Client) ok(ctx context.Context, timeout time.Duration, tag string, args ...string) error {
	response, err := c.request(ctx, timeout, tag, args...)
	if err != nil {
		return err
	}
	return protocol.ParseOK(response)
}

// request sends one request and returns the response line without
// terminator. <ERROR> responses are returned as *protocol.DeviceError.
func (c *Client) request(ctx context.Context, timeout time.Duration, tag string, args ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.drain()

	if _, err := io.WriteString(c.w, protocol.Request(tag, args...)); err != nil {
		return "", fmt.Errorf("write request %s: %w", tag, err)
	}
	c.config.Logger.Debug("request sent", "tag", tag)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", &TimeoutError{Request: tag, Timeout: timeout}
	case <-c.done:
		return "", fmt.Errorf("read response to %s: %w", tag, c.err)
	case r := <-c.lines:
		if r.err != nil {
			return "", fmt.Errorf("response to %s: %w", tag, ErrResponseTooLong)
		}
		c.config.Logger.Debug("response received", "tag", tag, "line", r.line)
		if err := protocol.CheckError(r.line); err != nil {
			return "", err
		}
		return r.line, nil
	}
}

// drain discards a late response to an earlier, timed out request.
func (c *Client) drain() {
	for {
		select {
		case r := <-c.lines:
			c.config.Logger.Debug("discarding stale response", "line", r.line)
		default:
			return
		}
	}
}
