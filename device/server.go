package device

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/moffa90/go-hexboot/bootloader"
	"github.com/moffa90/go-hexboot/protocol"
)

// ErrReset is returned by Serve after the handler rebooted the device.
var ErrReset = errors.New("device reset")

// Server runs the request/response loop over one transport.
type Server struct {
	rw     io.ReadWriter
	lines  *protocol.LineReader
	config Config
}

// NewServer creates a server on the given transport. The receive buffer
// lives as long as the server, so Serve may be called again after a reset
// without losing buffered input.
func NewServer(rw io.ReadWriter, opts ...Option) *Server {
	if rw == nil {
		panic("transport cannot be nil")
	}

	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = bootloader.NopLogger{}
	}

	return &Server{
		rw:     rw,
		lines:  protocol.NewLineReader(rw, config.BufferSize),
		config: config,
	}
}

// Serve answers requests with h until the transport fails, ctx is done or
// h reboots the device.
//
// It returns nil when the transport reaches EOF and ErrReset after a
// reboot. A reboot that fails is logged and serving continues. Cancellation is checked between requests; a read already in
// progress is not interrupted.
func (s *Server) Serve(ctx context.Context, h Handler) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := s.lines.ReadLine()
		if errors.Is(err, protocol.ErrOverflow) {
			s.config.Logger.Error("request too long", "buffer", s.lines.Size())
			if err := s.write(protocol.ErrorResponse(protocol.CodeDataOverflow)); err != nil {
				return err
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		s.config.Logger.Debug("request", "line", line)

		response, reboot := h.Handle(line)
		if response != "" {
			s.config.Logger.Debug("response", "line", strings.TrimSuffix(response, protocol.Terminator))
			if err := s.write(response); err != nil {
				return err
			}
		}

		if reboot != nil {
			if err := sleep(ctx, s.config.SettleDelay); err != nil {
				return err
			}
			s.config.Logger.Info("rebooting")
			if err := reboot(); err != nil {
				s.config.Logger.Error("reboot failed", "error", err)
				continue
			}
			return ErrReset
		}
	}
}

func (s *Server) write(response string) error {
	_, err := io.WriteString(s.rw, response)
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
