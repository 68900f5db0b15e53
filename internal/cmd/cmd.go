package cmd

import (
	"fmt"
	"github.com/spf13/cobra"
	"github.td.teradata.com/sandbox/led-ctl/internal/config"
	"github.td.teradata.com/sandbox/led-ctl/internal/driver"
	"github.td.teradata.com/sandbox/led-ctl/internal/log"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/adc"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/patterns"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/serial"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/speed"
	"io"
)

var cfgFile string
var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:               "led-ctl",
	Short:             "led-ctl drives an 8 LED bar through a menu of sequences",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = closeLog()
	},
	RunE: runMenu,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive menu on the keyboard or the serial link",
	RunE:  runMenu,
}

var runCmd = &cobra.Command{
	Use:   "run <pattern>",
	Short: "Run one pattern until q is pressed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := patterns.Parse(args[0])
		if err != nil {
			return err
		}
		remote, _ := cmd.Flags().GetBool("remote")
		delay, _ := cmd.Flags().GetInt("delay")

		mode := driver.ModeLocal
		if remote {
			mode = driver.ModeRemote
		}
		a, err := newApp(config.CLIConfig, mode)
		if err != nil {
			return err
		}
		defer a.Close()

		s := a.Session(mode)
		if delay <= 0 {
			delay = s.InitialDelay()
		}
		return s.RunPattern(id, delay)
	},
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the available patterns",
	Run: func(cmd *cobra.Command, args []string) {
		printPatterns(cmd.OutOrStdout())
	},
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefixes, _ := cmd.Flags().GetStringSlice("prefix")
		ports, err := serial.ListPorts(prefixes...)
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No serial ports found")
			return nil
		}
		for _, port := range ports {
			fmt.Fprintf(cmd.OutOrStdout(), "Found port: %s\n", port)
		}
		return nil
	},
}

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Print one ADC reading and the delay it maps to",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := adc.Open(config.CLIConfig.Adc)
		if err != nil {
			return err
		}
		defer p.Close()

		raw, delay, err := p.ReadDelay()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ADC: %d  Delay: %d ms - %.2f Hz\n", raw, delay, speed.Hz(delay))
		return nil
	},
}

func runMenu(cmd *cobra.Command, args []string) error {
	mode, err := driver.ParseMode(config.CLIConfig.Engine.Mode)
	if err != nil {
		return err
	}
	a, err := newApp(config.CLIConfig, mode)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Session(mode).Menu()
}

func printPatterns(w io.Writer) {
	for _, id := range patterns.IDs() {
		fmt.Fprintf(w, "%2d  %-20s %s\n", int(id), id.String(), id.Title())
	}
}

// Execute bootstraps the viper
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "configuration file for led-ctl")
	rootCmd.PersistentFlags().Bool("dry-run", false, "drive an in-memory bank instead of the GPIO lines")
	rootCmd.PersistentFlags().String("log-level", "", "DEBUG, INFO, WARN, ERROR or FATAL")

	rootCmd.Flags().String("mode", "local", "menu mode: local or remote")
	menuCmd.Flags().String("mode", "local", "menu mode: local or remote")
	runCmd.Flags().Int("delay", 0, "starting delay in ms, defaults to the initial delay")
	runCmd.Flags().Bool("remote", false, "take control keys from the serial link")
	portsCmd.Flags().StringSlice("prefix", nil, "only list ports starting with these prefixes")

	rootCmd.AddCommand(menuCmd, runCmd, patternsCmd, portsCmd, calibrateCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	if err := config.NewConfig(cfgFile, cmd.Flags()); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logConfig, closer, err := log.NewOutputConfigurator(config.CLIConfig.Log.Level, config.CLIConfig.Log.Output)
	if err != nil {
		return err
	}
	log.Setup(logConfig)
	closeLog = closer
	log.Debugf("Configuration loaded from %q", cfgFile)
	return nil
}
