package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/eswpla/spisim/internal/client"
	"github.com/eswpla/spisim/internal/device"
	"github.com/eswpla/spisim/internal/discovery"
)

// Common flags
var (
	serverAddr  string
	deviceID    uint8
	scanTimeout int
)

// Watchdog command flags
var watchdogCount int

// Output styles
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#43BF6D"))
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", "127.0.0.1:9000", "Simulator address")
	rootCmd.PersistentFlags().Uint8Var(&deviceID, "device", 0, "Logical SPI device ID")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(watchdogCmd)
	rootCmd.AddCommand(versionCmd)
}

// connect dials the simulator and initializes the device handle with a
// nominal SPI configuration.
func connect() (*client.Client, error) {
	c, err := client.Dial(serverAddr, deviceID)
	if err != nil {
		return nil, err
	}
	if err := c.Init(1000000, 0, 0, 16); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("INIT failed: %w", err)
	}
	return c, nil
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover simulators on the local network",
	Long: `Discover running simulators via mDNS.

Only finds servers started with --announce.`,
	Example: `  # Scan with the default 5 second timeout
  spisim-cli discover

  # Quick 2-second scan
  spisim-cli discover --timeout 2`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for simulators (timeout: %ds)...\n\n", scanTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second

	sims, err := scanner.Scan(context.Background())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(sims) == 0 {
		fmt.Println("No simulators found.")
		fmt.Println("\nStart one with 'spisim-server serve --announce', or use --addr directly.")
		return nil
	}

	fmt.Println(headerStyle.Render("DISCOVERED SIMULATORS"))
	for _, sim := range sims {
		fmt.Printf("  %s %s\n",
			labelStyle.Render(sim.Instance),
			valueStyle.Render(sim.Addr()),
		)
	}
	return nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query the simulator status",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect()
		if err != nil {
			return err
		}
		defer c.Close()

		status, err := c.Status()
		if err != nil {
			return fmt.Errorf("GET_STATUS failed: %w", err)
		}

		fmt.Printf("%s %s\n",
			labelStyle.Render("Status:"),
			okStyle.Render(fmt.Sprintf("% 02X", status)),
		)
		return nil
	},
}

var readCmd = &cobra.Command{
	Use:   "read <addr>",
	Short: "Read a register",
	Long: `Read a single register by address (0x00-0x0F).

Two SPI frames are transferred: the read command and a flush frame that
shifts the result out of the part's response pipeline.`,
	Example: `  # Read the device identification register
  spisim-cli read 0x08`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseRegisterAddr(args[0])
		if err != nil {
			return err
		}

		c, err := connect()
		if err != nil {
			return err
		}
		defer c.Close()

		value, err := c.ReadRegister(addr)
		if err != nil {
			return fmt.Errorf("register read failed: %w", err)
		}

		printRegister(addr, value)
		return nil
	},
}

var writeCmd = &cobra.Command{
	Use:   "write <addr> <value>",
	Short: "Write a register",
	Long: `Write a single register and read it back.

DEVID (0x08) is read-only on the part; the readback will show the
unchanged identity byte.`,
	Example: `  # Switch on channels 1 and 2
  spisim-cli write 0x00 0x03

  # Service the watchdog once
  spisim-cli write 0x05 0x01`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseRegisterAddr(args[0])
		if err != nil {
			return err
		}
		value, err := parseByte(args[1])
		if err != nil {
			return err
		}

		c, err := connect()
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.WriteRegister(addr, value); err != nil {
			return fmt.Errorf("register write failed: %w", err)
		}
		readback, err := c.ReadRegister(addr)
		if err != nil {
			return fmt.Errorf("readback failed: %w", err)
		}

		printRegister(addr, readback)
		return nil
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the full register map",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect()
		if err != nil {
			return err
		}
		defer c.Close()

		fmt.Println(headerStyle.Render("TLE92104 REGISTER MAP"))
		for addr := device.RegCtrl1; addr <= device.RegDevID; addr++ {
			value, err := c.ReadRegister(addr)
			if err != nil {
				return fmt.Errorf("failed to read register 0x%02X: %w", addr, err)
			}
			printRegister(addr, value)
		}
		return nil
	},
}

var watchdogCmd = &cobra.Command{
	Use:   "watchdog",
	Short: "Service the watchdog register",
	Long: `Write the watchdog register repeatedly.

Useful for driving the simulator's watchdog service counter, which logs
a diagnostic on the server every 10th service.`,
	Example: `  # Service the watchdog 10 times
  spisim-cli watchdog --count 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect()
		if err != nil {
			return err
		}
		defer c.Close()

		for i := 0; i < watchdogCount; i++ {
			if err := c.WriteRegister(device.RegWdg, 0x01); err != nil {
				return fmt.Errorf("watchdog service %d failed: %w", i+1, err)
			}
		}

		fmt.Printf("%s\n", okStyle.Render(fmt.Sprintf("Watchdog serviced %d time(s)", watchdogCount)))
		return nil
	},
}

func init() {
	watchdogCmd.Flags().IntVar(&watchdogCount, "count", 1, "Number of watchdog services")
}

func printRegister(addr, value uint8) {
	fmt.Printf("  %s %s %s\n",
		labelStyle.Render(fmt.Sprintf("[0x%02X]", addr)),
		valueStyle.Render(fmt.Sprintf("%-8s", device.RegisterName(addr))),
		okStyle.Render(fmt.Sprintf("0x%02X", value)),
	)
}

func parseRegisterAddr(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil || v > 0x0F {
		return 0, fmt.Errorf("invalid register address %q (expected 0x00-0x0F)", s)
	}
	return uint8(v), nil
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte value %q", s)
	}
	return uint8(v), nil
}
