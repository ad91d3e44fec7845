package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nixmo/go-vuams/internal/tui"
)

var monitorInterval time.Duration

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Interactively monitor and control the device",
	Long: `Open an interactive view that polls the device status on an interval.

Recording can be started ('r') and stopped ('s'), markers 1-8 sent with
the number keys, and the device clock synced with 't'. Press q to quit.

Examples:
  vuams monitor
  vuams monitor --port /dev/ttyUSB0 --interval 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		client, err := connectClient(logger)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		program := tea.NewProgram(
			tui.NewMonitor(client, monitorInterval),
			tea.WithAltScreen(),
		)
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("running monitor: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 2*time.Second, "status poll interval")
}
