// Package config loads runtime configuration for the gophtasks CLI.
//
// Sources, later ones win: built-in defaults, an optional JSON file (-c or
// -config), environment variables, then the global flags placed before the
// command name:
//
//	-a string   address:port of the gRPC endpoint
//	-k string   access token (GOPHTASKS_TOKEN)
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ServerEndpointAddr string `env:"GOPHTASKS_SERVER_ADDR" json:"server_endpoint_addr"`
	AccessToken        string `env:"GOPHTASKS_TOKEN" json:"access_token"`
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.AccessToken = ""
}

// ErrHelp is returned when -h or -help is among the global flags.
var ErrHelp = flag.ErrHelp

// LoadConfig builds a Config from args (without the program name) and the
// environment (see env.ToMap). It returns the arguments left after the global
// flags, starting with the command name.
func LoadConfig(args []string, environ map[string]string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("gophtasks-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var jsonPath string
	fs.StringVar(&jsonPath, "c", "", "path to JSON config file")
	fs.StringVar(&jsonPath, "config", "", "path to JSON config file")
	addr := fs.String("a", "", "address and port of the gRPC server")
	token := fs.String("k", "", "access token")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, ErrHelp
		}
		return nil, nil, err
	}

	if jsonPath != "" {
		if err := parseJson(cfg, jsonPath); err != nil {
			return nil, nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, nil, fmt.Errorf("parse env: %w", err)
	}

	if *addr != "" {
		cfg.ServerEndpointAddr = *addr
	}
	if *token != "" {
		cfg.AccessToken = *token
	}

	return cfg, fs.Args(), nil
}

// parseJson overlays the keys present in the file at path.
func parseJson(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc Config
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.AccessToken != "" {
		cfg.AccessToken = jc.AccessToken
	}
	return nil
}
