package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/itohio/gotherm/pkg/config"
	"github.com/itohio/gotherm/pkg/device"
	"github.com/itohio/gotherm/pkg/logger"
	"github.com/itohio/gotherm/pkg/monitor"
)

var (
	configFile string
	portFlag   string
	useMock    bool
)

var rootCmd = &cobra.Command{
	Use:          "thermctl",
	Short:        "Command line tools for the serial temperature probe",
	SilenceUsage: true,
}

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Take a single reading and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dev, name := openDevice(cfg)
		if err := dev.Connect(); err != nil {
			return fmt.Errorf("failed to connect to %s: %w", name, err)
		}
		defer dev.Close()

		temp, err := dev.ReadTemperature()
		if err != nil {
			return fmt.Errorf("failed to read temperature: %w", err)
		}

		out := envelope{
			TemperatureCheck: reading{
				Hardware:    name,
				Temperature: temp,
				Unit:        "C",
			},
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Periodically sweep the configured probes and act on overheating",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		level, err := logrus.ParseLevel(cfg.Log.Level)
		if err != nil {
			level = logrus.InfoLevel
		}
		log := logger.GetWithConfig(logger.Config{
			File:    cfg.Log.File,
			Level:   level,
			Console: cfg.Log.Console,
		})

		mon, err := monitor.New(monitor.Config{
			Monitor: cfg.Monitor,
			Log:     log,
			Dial: func(port string) (device.Device, error) {
				if useMock {
					return device.NewMock(&cfg.Mock, cfg.Probe.Probe()), nil
				}
				serialCfg := cfg.Serial
				serialCfg.Port = port
				return device.New(serialCfg, cfg.Probe.Probe().Trigger), nil
			},
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return mon.Run(ctx)
	},
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available serial ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := device.Ports()
		if err != nil {
			return fmt.Errorf("failed to list serial ports: %w", err)
		}
		if len(ports) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No serial ports found")
			return nil
		}
		for _, port := range ports {
			if port.Description != "" && port.Description != port.Name {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", port.Name, port.Description)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), port.Name)
			}
		}
		return nil
	},
}

// reading mirrors the JSON shape older tooling around this probe expects.
type reading struct {
	Hardware    string  `json:"hardware"`
	Temperature float64 `json:"Temperature"`
	Unit        string  `json:"Unit"`
}

type envelope struct {
	TemperatureCheck reading `json:"temperature_check"`
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if portFlag != "" {
		cfg.Serial.Port = portFlag
	}
	return cfg, nil
}

// openDevice creates the probe selected by the flags along with a display
// name for it.
func openDevice(cfg *config.Config) (device.Device, string) {
	if useMock {
		return device.NewMock(&cfg.Mock, cfg.Probe.Probe()), "mock"
	}
	return device.New(cfg.Serial, cfg.Probe.Probe().Trigger), cfg.Serial.Port
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config.yaml", "configuration file path")
	rootCmd.PersistentFlags().StringVarP(&portFlag, "port", "p", "", "serial port override")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "use a mocked probe instead of a serial port")

	rootCmd.AddCommand(readCmd, monitorCmd, portsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
