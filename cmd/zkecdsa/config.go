package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/smallyu/go-zkecdsa/pkg/zkecdsa"
	"github.com/spf13/viper"
)

type Config struct {
	Curve      string       `mapstructure:"curve"`
	Transcript string       `mapstructure:"transcript"`
	Label      string       `mapstructure:"label"`
	Listen     string       `mapstructure:"listen"`
	Log        LogConfig    `mapstructure:"log"`
	Verify     VerifyConfig `mapstructure:"verify"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type VerifyConfig struct {
	Workers int `mapstructure:"workers"`
}

// System builds the proof system the config names.
func (c *Config) System() (*zkecdsa.System, error) {
	return zkecdsa.New(zkecdsa.Config{
		Curve:      c.Curve,
		Transcript: c.Transcript,
		Label:      c.Label,
	})
}

// commonFlags are shared by every subcommand and map onto config keys.
var commonFlags = map[string]string{
	"curve":      "curve",
	"transcript": "transcript",
	"label":      "label",
	"log-level":  "log.level",
}

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configFile := fs.String("config", "", "path to config file (yaml)")
	fs.String("curve", "secp256k1", "curve: secp256k1 or ed25519")
	fs.String("transcript", "sha256", "transcript: sha256 or merlin")
	fs.String("label", zkecdsa.DefaultLabel, "transcript domain-separation label")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	return fs, configFile
}

// readConfig parses args into fs, then layers defaults, the optional config
// file, ZKECDSA_* environment variables and explicitly set flags, in
// increasing order of precedence.
func readConfig(fs *flag.FlagSet, configFile *string, args []string, flagKeys map[string]string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("curve", "secp256k1")
	v.SetDefault("transcript", "sha256")
	v.SetDefault("label", zkecdsa.DefaultLabel)
	v.SetDefault("listen", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("verify.workers", 4)

	v.SetEnvPrefix("ZKECDSA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		if key, ok := commonFlags[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
		if key, ok := flagKeys[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}
