// Package cmd implements the benchusb command tree.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/awenger/benchusb/config"
	"github.com/awenger/benchusb/host"
	"github.com/awenger/benchusb/host/hal"
	"github.com/awenger/benchusb/host/hal/libusb"
	"github.com/awenger/benchusb/pkg"
)

// Instrument is the session surface the commands drive.
type Instrument interface {
	Write(command string) error
	Query(command string) (string, error)
	Close() error
}

// Connector opens a session to the instrument with the given IDs.
type Connector func(vendor, product uint16, opts ...host.Option) (Instrument, error)

// Lister enumerates attached devices.
type Lister func() ([]hal.Descriptor, error)

var (
	// Global flags
	cfgFile    string
	timeoutMS  int
	logLevel   string
	logJSON    bool
	vendorStr  string
	productStr string
	instName   string

	// Shared state set during PersistentPreRunE
	cfg config.Config

	// Injectable collaborators
	connect     Connector = libusbConnect
	listDevices Lister    = libusbList
)

// rootCmd is the base command for benchusb.
var rootCmd = &cobra.Command{
	Use:   "benchusb",
	Short: "Send commands to a USB bench instrument over raw bulk transfers",
	Long: `benchusb talks to a USB-attached bench instrument (power supply,
scope, anything speaking line-terminated ASCII commands) identified by
vendor and product ID, using bulk endpoints and the instrument's
sequence-numbered framing instead of a standard USB device class.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := slog.LevelWarn
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn", "":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			return fmt.Errorf("unknown log level %q", logLevel)
		}
		pkg.SetLogLevel(level)
		if logJSON {
			pkg.SetLogFormat(pkg.LogFormatJSON)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// SetConnector allows tests to inject a mock session factory.
func SetConnector(c Connector) {
	connect = c
}

// SetLister allows tests to inject a mock device lister.
func SetLister(l Lister) {
	listDevices = l
}

// RootCmd returns the root cobra.Command for testing purposes.
func RootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().IntVar(&timeoutMS, "timeout", 0, "per-transfer timeout in milliseconds (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log in JSON format")
}

// addTargetFlags registers the device-selection flags shared by send and
// query.
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&vendorStr, "vendor", "", "vendor ID, hex (0x2a8d) or decimal")
	cmd.Flags().StringVar(&productStr, "product", "", "product ID, hex (0x1102) or decimal")
	cmd.Flags().StringVarP(&instName, "instrument", "i", "", "instrument alias from the config file")
}

// parseID parses a vendor or product ID in hex (with 0x prefix) or decimal.
func parseID(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q: %w", s, err)
	}
	return uint16(v), nil
}

// target resolves the device selection flags into a vendor/product pair.
func target() (uint16, uint16, error) {
	if instName != "" {
		inst, ok := cfg.Lookup(instName)
		if !ok {
			return 0, 0, fmt.Errorf("instrument %q not in config", instName)
		}
		return inst.Vendor, inst.Product, nil
	}
	if vendorStr == "" || productStr == "" {
		return 0, 0, fmt.Errorf("either --instrument or both --vendor and --product are required")
	}
	vendor, err := parseID(vendorStr)
	if err != nil {
		return 0, 0, err
	}
	product, err := parseID(productStr)
	if err != nil {
		return 0, 0, err
	}
	return vendor, product, nil
}

// sessionOptions builds the connect options from config and flags.
func sessionOptions() []host.Option {
	ms := cfg.TimeoutMS
	if timeoutMS > 0 {
		ms = timeoutMS
	}
	return []host.Option{
		host.WithTimeout(time.Duration(ms) * time.Millisecond),
		host.WithReadBuffer(cfg.ReadBuffer),
	}
}

// busSession ties a resolved session to the bus it was enumerated on, so
// closing the session also releases the libusb context.
type busSession struct {
	*host.Session
	bus *libusb.Bus
}

func (s *busSession) Close() error {
	err := s.Session.Close()
	if cerr := s.bus.Close(); err == nil {
		err = cerr
	}
	return err
}

func libusbConnect(vendor, product uint16, opts ...host.Option) (Instrument, error) {
	bus := libusb.NewBus()
	s, err := host.Resolve(bus, vendor, product, opts...)
	if err != nil {
		bus.Close()
		return nil, err
	}
	return &busSession{Session: s, bus: bus}, nil
}

func libusbList() ([]hal.Descriptor, error) {
	bus := libusb.NewBus()
	defer bus.Close()
	return host.List(bus)
}
