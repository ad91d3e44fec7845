package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"

	vuams "github.com/nixmo/go-vuams"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List all serial ports visible to the operating system and flag the one
carrying the VU-AMS USB bridge signature (FTDI 0403:6001).

Examples:
  vuams list
  vuams list --table`,
	Run: func(cmd *cobra.Command, args []string) {
		ports, err := vuams.ListPorts()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
			os.Exit(1)
		}

		if len(ports) == 0 {
			fmt.Println("No serial ports found")
			return
		}

		tableFormat, _ := cmd.Flags().GetBool("table")
		if tableFormat {
			renderPortTable(ports)
		} else {
			renderPortList(ports)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

const (
	columnPort   = "port"
	columnUSB    = "usb"
	columnVID    = "vid"
	columnPID    = "pid"
	columnSerial = "serial"
	columnDevice = "device"
)

// renderPortTable renders the port list as a styled table
func renderPortTable(ports []vuams.PortDetails) {
	columns := []table.Column{
		table.NewColumn(columnPort, "Port", 18),
		table.NewColumn(columnUSB, "USB", 5),
		table.NewColumn(columnVID, "VID", 6),
		table.NewColumn(columnPID, "PID", 6),
		table.NewColumn(columnSerial, "Serial", 14),
		table.NewColumn(columnDevice, "VU-AMS", 8),
	}

	rows := make([]table.Row, 0, len(ports))
	for _, p := range ports {
		usb := ""
		if p.IsUSB {
			usb = "yes"
		}
		match := ""
		if p.Matches(vuams.FTDISignature) {
			match = "✓"
		}
		rows = append(rows, table.NewRow(table.RowData{
			columnPort:   p.Name,
			columnUSB:    usb,
			columnVID:    p.VID,
			columnPID:    p.PID,
			columnSerial: p.SerialNumber,
			columnDevice: match,
		}))
	}

	t := table.New(columns).
		WithRows(rows).
		BorderRounded().
		WithBaseStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")))

	fmt.Println(t.View())
}

// renderPortList renders the port list in simple text format
func renderPortList(ports []vuams.PortDetails) {
	for _, p := range ports {
		line := p.Name
		if p.IsUSB {
			line = fmt.Sprintf("%s (%s:%s)", p.Name, p.VID, p.PID)
		}
		if p.Matches(vuams.FTDISignature) {
			line += "  [VU-AMS]"
		}
		fmt.Println(line)
	}
}
