package config

import (
	"bytes"
	"fmt"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
	"os"
	"reflect"
	"strings"
)

const (
	defSerialPortName  = "/dev/ttyAMA0"
	defSerialBaudRate  = 38400
	defSerialDataBits  = 8
	defSerialStopBits  = 1
	defMinimumReadSize = 0
	defSerialParity    = 0
	defInterCharTimout = 100

	defTerminalWidth = 80

	defGpioChip     = "gpiochip0"
	defAdcAddress   = 0x48
	defInitialDelay = 500
	defMode         = "local"
	defLogLevel     = "WARN"
	defLogOutput    = "stderr"

	EnvVarPrefix = "LEDCTL"
)

// DefaultLines are the BCM offsets of the 8 indicators, in cell order.
var DefaultLines = []int{23, 24, 25, 12, 16, 20, 21, 26}

var CLIConfig *Config
var replacer = strings.NewReplacer(".", "_")

type Config struct {
	Terminal *Terminal `mapstructure:"terminal" yaml:"terminal"`
	Serial   *Serial   `mapstructure:"serial" yaml:"serial"`
	Gpio     *Gpio     `mapstructure:"gpio" yaml:"gpio"`
	Adc      *Adc      `mapstructure:"adc" yaml:"adc"`
	Engine   *Engine   `mapstructure:"engine" yaml:"engine"`
	Log      *Log      `mapstructure:"log" yaml:"log"`
	Metrics  *Metrics  `mapstructure:"metrics" yaml:"metrics"`
	DryRun   bool      `mapstructure:"dry_run" yaml:"dry_run"`
}

type Serial struct {
	PortName           string `mapstructure:"port_name" yaml:"port_name"`
	BaudRate           int    `mapstructure:"baud_rate" yaml:"baud_rate"`
	DataBits           int    `mapstructure:"data_bits" yaml:"data_bits"`
	StopBits           int    `mapstructure:"stop_bits" yaml:"stop_bits"`
	Parity             int    `mapstructure:"parity" yaml:"parity"`
	MinimumReadSize    int    `mapstructure:"minimum_read_size" yaml:"minimum_read_size"`
	InterCharTimeoutMs int    `mapstructure:"inter_char_timeout_ms" yaml:"inter_char_timeout_ms"`
}

type Terminal struct {
	Width int `mapstructure:"width" yaml:"width"`
}

type Gpio struct {
	Chip  string `mapstructure:"chip" yaml:"chip"`
	Lines []int  `mapstructure:"lines" yaml:"lines"`
}

type Adc struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Bus     string `mapstructure:"bus" yaml:"bus"`
	Address int    `mapstructure:"address" yaml:"address"`
	Channel int    `mapstructure:"channel" yaml:"channel"`
}

type Engine struct {
	InitialDelayMs int    `mapstructure:"initial_delay_ms" yaml:"initial_delay_ms"`
	Mode           string `mapstructure:"mode" yaml:"mode"`
}

type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Output string `mapstructure:"output" yaml:"output"`
}

type Metrics struct {
	Listen string `mapstructure:"listen" yaml:"listen"`
}

func DefaultConfig() *Config {
	return &Config{
		Serial: &Serial{
			PortName:           defSerialPortName,
			BaudRate:           defSerialBaudRate,
			DataBits:           defSerialDataBits,
			StopBits:           defSerialStopBits,
			Parity:             defSerialParity,
			MinimumReadSize:    defMinimumReadSize,
			InterCharTimeoutMs: defInterCharTimout,
		},
		Terminal: &Terminal{
			Width: defTerminalWidth,
		},
		Gpio: &Gpio{
			Chip:  defGpioChip,
			Lines: append([]int(nil), DefaultLines...),
		},
		Adc: &Adc{
			Enabled: false,
			Address: defAdcAddress,
		},
		Engine: &Engine{
			InitialDelayMs: defInitialDelay,
			Mode:           defMode,
		},
		Log: &Log{
			Level:  defLogLevel,
			Output: defLogOutput,
		},
		Metrics: &Metrics{},
	}
}

// NewConfig layers the defaults, the optional yaml file, bound flags and
// LEDCTL_* environment variables into CLIConfig.
func NewConfig(cfgFile string, flags *pflag.FlagSet) error {
	cfg, err := Load(cfgFile, flags)
	if err != nil {
		return err
	}
	CLIConfig = cfg
	return nil
}

func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	cfg := DefaultConfig()

	// set default values in viper.
	// Viper needs to know if a key exists in order to override it.
	// https://github.com/spf13/viper/issues/188
	if b, err := yaml.Marshal(DefaultConfig()); err != nil {
		return nil, err
	} else {
		v.SetConfigType("yaml")
		if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
			return nil, err
		}
	}

	if cfgFile != "" {
		fi, err := os.Stat(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("config file %s: %w", cfgFile, err)
		}
		if fi.IsDir() {
			return nil, fmt.Errorf("config file %s points to a directory, not a file", cfgFile)
		}
		// overwrite values from config
		v.SetConfigFile(cfgFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("unable to parse config file %s: %w", cfgFile, err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	// Use environment variables as final override
	v.SetEnvPrefix(EnvVarPrefix)
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	// Preload environment bindings so they are processed on load
	if err := bindVars(v, reflect.TypeOf(*cfg), ""); err != nil {
		return nil, err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// flagKeys maps CLI flags onto config keys.
var flagKeys = map[string]string{
	"log-level": "log.level",
	"dry-run":   "dry_run",
	"mode":      "engine.mode",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("unable to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func bindVars(v *viper.Viper, t reflect.Type, prefix string) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		tag = prefix + tag

		if field.Type.Kind() == reflect.Struct {
			if err := bindVars(v, field.Type, tag+"."); err != nil {
				return err
			}
		} else if field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct {
			if err := bindVars(v, field.Type.Elem(), tag+"."); err != nil {
				return err
			}
		} else if err := v.BindEnv(tag); err != nil {
			return fmt.Errorf("unable to bind to environment variable %s: %w", tag, err)
		}
	}
	return nil
}
