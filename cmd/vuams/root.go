package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	vuams "github.com/nixmo/go-vuams"
	"github.com/nixmo/go-vuams/internal/logging"
)

var (
	cfgFile  string
	portFlag string

	devicePresentFlag  bool
	labelFlag          bool
	statusFlag         bool
	statusIntegerFlag  bool
	syncTimeFlag       bool
	startRecordingFlag bool
	stopRecordingFlag  bool
	sendMarkerFlag     int
)

var errorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#f38ba8"))

// rootCmd carries the mutually-exclusive operation flags; one invocation
// runs exactly one device operation.
var rootCmd = &cobra.Command{
	Use:   "vuams",
	Short: "Interact with a VU-AMS device connected via the AMS USB infrared bridge",
	Long: `Interact with a VU-AMS biosignal recorder connected to the computer via
the AMS USB infrared bridge.

Exactly one operation flag is required per invocation. The device port is
discovered automatically by its USB bridge signature; use --port to select
one explicitly (required when several bridges are attached).

Query operations print "port,result" to stdout. Control operations print
nothing on success. Any failure is reported on stderr with a non-zero
exit code.

Examples:
  vuams --status
  vuams --port /dev/ttyUSB0 --label
  vuams --send-marker 3
  vuams --sync-time`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runOperation,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vuams.yaml)")
	rootCmd.PersistentFlags().StringVar(&portFlag, "port", "", "serial port (e.g. COM5 or /dev/ttyUSB0); skips auto-discovery")

	rootCmd.Flags().BoolVar(&devicePresentFlag, "device-present", false, "check if a device is present")
	rootCmd.Flags().BoolVar(&labelFlag, "label", false, "get device label (serial number)")
	rootCmd.Flags().BoolVar(&statusFlag, "status", false, "get device status")
	rootCmd.Flags().BoolVar(&statusIntegerFlag, "status-integer", false, "get device status as an integer")
	rootCmd.Flags().BoolVar(&syncTimeFlag, "sync-time", false, "set device time to system time")
	rootCmd.Flags().BoolVar(&startRecordingFlag, "start-recording", false, "start recording")
	rootCmd.Flags().BoolVar(&stopRecordingFlag, "stop-recording", false, "stop recording")
	rootCmd.Flags().IntVar(&sendMarkerFlag, "send-marker", 0, "send marker MARKER (1-8)")

	rootCmd.MarkFlagsMutuallyExclusive(
		"device-present", "label", "status", "status-integer",
		"sync-time", "start-recording", "stop-recording", "send-marker",
	)
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vuams")
	}

	viper.SetDefault("serial.baud_rate", 38400)
	viper.SetDefault("serial.reply_timeout", "3s")
	viper.SetDefault("logging.level", "warn")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("logging.output", "stderr")

	viper.SetEnvPrefix("VUAMS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file is optional
	_ = viper.ReadInConfig()
}

// newLogger builds the CLI logger from configuration
func newLogger() (*zap.Logger, error) {
	cfg := logging.DefaultConfig()
	cfg.Level = viper.GetString("logging.level")
	cfg.Format = viper.GetString("logging.format")
	cfg.Output = viper.GetString("logging.output")
	return logging.NewLogger(cfg)
}

// resolvePort applies --port, then the config file, then auto-discovery
func resolvePort() (string, error) {
	hint := portFlag
	if hint == "" {
		hint = viper.GetString("port")
	}
	return vuams.FindDevicePort(hint, vuams.FTDISignature)
}

// connectClient discovers the port, builds a client and opens it. The
// caller owns the returned client and must Disconnect on every path.
func connectClient(logger *zap.Logger) (*vuams.Client, error) {
	port, err := resolvePort()
	if err != nil {
		return nil, err
	}

	client, err := vuams.NewClient(port,
		vuams.WithBaudRate(viper.GetInt("serial.baud_rate")),
		vuams.WithReplyTimeout(viper.GetDuration("serial.reply_timeout")),
		vuams.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	if err := client.Connect(); err != nil {
		return nil, err
	}
	return client, nil
}

func runOperation(cmd *cobra.Command, args []string) error {
	markerSet := cmd.Flags().Changed("send-marker")
	if !devicePresentFlag && !labelFlag && !statusFlag && !statusIntegerFlag &&
		!syncTimeFlag && !startRecordingFlag && !stopRecordingFlag && !markerSet {
		return fmt.Errorf("one operation flag is required (see --help)")
	}

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

	port := client.PortName()

	switch {
	case devicePresentFlag:
		present, err := client.IsDevicePresent()
		if err != nil {
			return err
		}
		fmt.Printf("%s,%t\n", port, present)

	case labelFlag:
		label, err := client.Label()
		if err != nil {
			return err
		}
		fmt.Printf("%s,%s\n", port, label)

	case statusFlag:
		status, err := client.Status()
		if err != nil {
			return err
		}
		fmt.Printf("%s,%s\n", port, status)

	case statusIntegerFlag:
		status, err := client.Status()
		if err != nil {
			return err
		}
		fmt.Printf("%s,%d\n", port, int(status))

	case syncTimeFlag:
		return client.SyncTime()

	case startRecordingFlag:
		return client.StartRecording()

	case stopRecordingFlag:
		return client.StopRecording()

	case markerSet:
		return client.SendMarker(sendMarkerFlag)
	}

	return nil
}
