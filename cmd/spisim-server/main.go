// Spisim-server is a TCP socket server simulating an Infineon TLE92104
// 4-channel high-side switch behind the SPI HAL socket protocol.
//
// It lets a hardware-abstraction-layer client exercise SPI register
// read/write semantics, the read-only device-identity register, and
// watchdog servicing without physical hardware, which makes it suitable
// for HIL test rigs and CI.
//
// Usage:
//
//	spisim-server serve [flags]
//
// See 'spisim-server serve --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eswpla/spisim/internal/config"
	"github.com/eswpla/spisim/internal/server"
	"github.com/eswpla/spisim/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "spisim-server",
	Short: "TLE92104 SPI HAL Socket Simulator",
	Long: `A TCP socket server simulating the Infineon TLE92104 4-channel
high-side switch.

The simulator speaks the SPI HAL socket protocol: 8-byte framed messages
carrying 16-bit SPI command frames with even parity and the part's real
one-transaction response pipeline. Point a HAL's socket SPI backend at it
instead of real hardware.

For interacting with a running simulator, use the separate 'spisim-cli'
utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	configPath string
	host       string
	port       int
	logLevel   string
	announce   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulator server",
	Long: `Start the SPI HAL socket server with the TLE92104 simulation.

Connections are served one at a time: the simulated part is a single
instance, exactly like the physical device the protocol was written for.
Register state survives across connections until a client sends INIT.

Settings come from the configuration file (if present) and can be
overridden per-flag.`,
	Example: `  # Start on the default loopback address, port 9000
  spisim-server serve

  # Custom port with verbose frame-level logging
  spisim-server serve --port 9100 --log-level debug

  # Announce the simulator on the local network via mDNS
  spisim-server serve --announce

  # Load settings from a config file
  spisim-server serve --config ./spisim.yaml`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML configuration file (optional)")
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (default 127.0.0.1)")
	serveCmd.Flags().IntVar(&port, "port", 0, "Listen port (default 9000)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&announce, "announce", false, "Advertise the simulator via mDNS")
}

func runServe(cmd *cobra.Command, args []string) error {
	fileCfg := config.Default()
	if configPath != "" {
		var err error
		fileCfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}

	// Flags win over file values
	if cmd.Flags().Changed("host") {
		fileCfg.Host = host
	}
	if cmd.Flags().Changed("port") {
		fileCfg.Port = port
	}
	if cmd.Flags().Changed("log-level") || fileCfg.LogLevel == "" {
		fileCfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("announce") {
		fileCfg.Announce = announce
	}

	srv, err := server.New(&server.Config{
		Host:     fileCfg.Host,
		Port:     fileCfg.Port,
		LogLevel: fileCfg.LogLevel,
		Announce: fileCfg.Announce,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("spisim-server %s\n", version.Full())
	},
}
