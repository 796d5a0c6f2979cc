// Spisim-cli is a command-line client for a running spisim-server.
//
// It speaks the same SPI HAL socket protocol a firmware's socket SPI
// backend uses, and offers register-level commands on top: reading and
// writing registers (handling the part's one-transaction response
// pipeline), dumping the register map, and servicing the watchdog.
//
// Usage:
//
//	spisim-cli [command] [flags]
//
// See 'spisim-cli --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eswpla/spisim/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "spisim-cli",
	Short: "TLE92104 Simulator Client",
	Long: `A command-line client for the TLE92104 SPI HAL socket simulator.

Connects to a running spisim-server and exercises the device protocol:
register reads and writes, register map dumps, watchdog servicing and
status queries. The pipeline flushing needed to observe a register read
is handled automatically.`,
	Version: version.Version,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("spisim-cli %s\n", version.Full())
	},
}
