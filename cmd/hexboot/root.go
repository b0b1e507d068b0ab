package main

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"github.com/moffa90/go-hexboot/board"
	"github.com/moffa90/go-hexboot/host"
	"github.com/moffa90/go-hexboot/internal/logging"
)

var (
	portName    string
	baudRate    int
	verbose     bool
	profilePath string
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "hexboot",
	Short:         "Serial bootloader uploader",
	Long:          `Upload Intel HEX firmware images over the hexboot line protocol.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port, e.g. /dev/ttyACM0")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&profilePath, "board", "", "Board profile YAML file (default: Nucleo-F446RE)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", host.DefaultTimeout, "Timeout of query requests")
}

// loadBoard returns the board profile selected by --board.
func loadBoard() (board.Config, error) {
	if profilePath == "" {
		return board.Default(), nil
	}

	cfg, err := board.Load(profilePath)
	if err != nil {
		return board.Config{}, fmt.Errorf("load board profile: %w", err)
	}
	return cfg, nil
}

// openPort opens the serial port selected by --port.
func openPort() (serial.Port, error) {
	if portName == "" {
		ports, err := serial.GetPortsList()
		if err != nil || len(ports) == 0 {
			return nil, fmt.Errorf("must specify --port")
		}
		return nil, fmt.Errorf("must specify --port, available: %s", strings.Join(ports, ", "))
	}

	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", portName, err)
	}

	log.WithFields(log.Fields{"port": portName, "baud": baudRate}).Debug("port opened")
	return port, nil
}

// connect opens the port and returns a client on it. The caller closes
// the port.
func connect(opts ...host.Option) (serial.Port, *host.Client, error) {
	port, err := openPort()
	if err != nil {
		return nil, nil, err
	}

	opts = append([]host.Option{
		host.WithLogger(logging.New(log.StandardLogger()).With("port", portName)),
		host.WithTimeout(timeout),
	}, opts...)

	return port, host.NewClient(port, opts...), nil
}
