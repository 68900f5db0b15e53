package config

import (
	"github.com/spf13/pflag"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Serial.PortName != defSerialPortName || cfg.Serial.BaudRate != defSerialBaudRate {
		t.Errorf("serial defaults = %+v", cfg.Serial)
	}
	if !reflect.DeepEqual(cfg.Gpio.Lines, DefaultLines) {
		t.Errorf("gpio lines = %v, want %v", cfg.Gpio.Lines, DefaultLines)
	}
	if cfg.Adc.Address != defAdcAddress {
		t.Errorf("adc address = %#x", cfg.Adc.Address)
	}
	if cfg.Engine.InitialDelayMs != defInitialDelay || cfg.Engine.Mode != "local" {
		t.Errorf("engine defaults = %+v", cfg.Engine)
	}
	if cfg.Log.Level != defLogLevel || cfg.Log.Output != defLogOutput {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
	if cfg.DryRun {
		t.Errorf("dry run enabled by default")
	}
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "led-ctl.yaml")
	content := []byte(`
serial:
  port_name: /dev/ttyUSB0
  baud_rate: 115200
gpio:
  lines: [2, 3, 4, 17, 27, 22, 10, 9]
engine:
  initial_delay_ms: 250
  mode: remote
`)
	if err := os.WriteFile(file, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(file, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Serial.PortName != "/dev/ttyUSB0" || cfg.Serial.BaudRate != 115200 {
		t.Errorf("serial = %+v", cfg.Serial)
	}
	if cfg.Serial.DataBits != defSerialDataBits {
		t.Errorf("unset key lost its default: data_bits = %d", cfg.Serial.DataBits)
	}
	if !reflect.DeepEqual(cfg.Gpio.Lines, []int{2, 3, 4, 17, 27, 22, 10, 9}) {
		t.Errorf("gpio lines = %v", cfg.Gpio.Lines)
	}
	if cfg.Engine.InitialDelayMs != 250 || cfg.Engine.Mode != "remote" {
		t.Errorf("engine = %+v", cfg.Engine)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("Load() with missing file error = nil")
	}
	if _, err := Load(t.TempDir(), nil); err == nil {
		t.Error("Load() with directory error = nil")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LEDCTL_ENGINE_INITIAL_DELAY_MS", "800")
	t.Setenv("LEDCTL_LOG_LEVEL", "DEBUG")
	t.Setenv("LEDCTL_METRICS_LISTEN", ":9100")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Engine.InitialDelayMs != 800 {
		t.Errorf("initial delay = %d, want 800", cfg.Engine.InitialDelayMs)
	}
	if cfg.Log.Level != "DEBUG" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.Metrics.Listen != ":9100" {
		t.Errorf("metrics listen = %q", cfg.Metrics.Listen)
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	flags.Bool("dry-run", false, "")
	flags.String("mode", "local", "")
	if err := flags.Parse([]string{"--log-level", "INFO", "--dry-run", "--mode", "remote"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "INFO" || !cfg.DryRun || cfg.Engine.Mode != "remote" {
		t.Errorf("flags not applied: log=%q dry=%v mode=%q", cfg.Log.Level, cfg.DryRun, cfg.Engine.Mode)
	}
}

func TestNewConfigSetsGlobal(t *testing.T) {
	CLIConfig = nil
	if err := NewConfig("", nil); err != nil {
		t.Fatal(err)
	}
	if CLIConfig == nil || CLIConfig.Serial == nil {
		t.Fatal("CLIConfig not populated")
	}
}
