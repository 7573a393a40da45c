package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SCHEDTOY"

// config holds every knob of the demos. Values come from, in order of
// precedence: flags, SCHEDTOY_* environment variables, the optional config
// file, and the struct defaults.
type config struct {
	Producers int           `mapstructure:"producers" default:"26"`
	StopAfter int           `mapstructure:"stop-after" default:"25"`
	Work      time.Duration `mapstructure:"work" default:"10ms"`
	Ambient   bool          `mapstructure:"ambient"`
	Threads   int           `mapstructure:"threads" default:"50"`
	Pin       bool          `mapstructure:"pin"`
	CPU       int           `mapstructure:"cpu"`
	LogLevel  string        `mapstructure:"log-level" default:"info"`
	LogFormat string        `mapstructure:"log-format" default:"console"`
}

func defaultConfig() config {
	var c config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("schedtoy: invalid config defaults: %v", err))
	}
	return c
}

// bindFlags registers the flags on fs with defaults taken from the config
// struct and binds them into v.
func bindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	d := defaultConfig()

	fs.String("config", "", "optional config file (yaml, json or toml)")
	fs.Int("producers", d.Producers, "number of concurrent producers")
	fs.Int("stop-after", d.StopAfter, "stop the scheduler after this many operations ran")
	fs.Duration("work", d.Work, "simulated duration of each operation")
	fs.Bool("ambient", d.Ambient, "lanes demo: send everything to the normal lane")
	fs.Int("threads", d.Threads, "lockorder demo: number of contending goroutines")
	fs.Bool("pin", d.Pin, "pin the scheduler worker to --cpu")
	fs.Int("cpu", d.CPU, "cpu used with --pin")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	fs.String("log-format", d.LogFormat, "log format: console or json")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindPFlags(fs)
}

func loadConfig(v *viper.Viper) (config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	c := defaultConfig()
	if err := v.Unmarshal(&c); err != nil {
		return config{}, fmt.Errorf("decode config: %w", err)
	}
	return c, c.validate()
}

func (c config) validate() error {
	var errs []error
	if c.Producers <= 0 {
		errs = append(errs, errors.New("producers must be positive"))
	}
	if c.StopAfter <= 0 {
		errs = append(errs, errors.New("stop-after must be positive"))
	}
	if c.Work < 0 {
		errs = append(errs, errors.New("work must not be negative"))
	}
	if c.Threads <= 0 {
		errs = append(errs, errors.New("threads must be positive"))
	}
	if c.CPU < 0 {
		errs = append(errs, errors.New("cpu must not be negative"))
	}
	return errors.Join(errs...)
}
