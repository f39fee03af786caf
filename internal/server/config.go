package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server   ServerSettings  `hcl:"server,block"`
	Sessions SessionDefaults `hcl:"session_defaults,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// SessionDefaults fill in whatever a create_session request leaves unset
type SessionDefaults struct {
	StartBalance int `hcl:"start_balance,optional"`
	MinBet       int `hcl:"min_bet,optional"`
	MaxBet       int `hcl:"max_bet,optional"`
	RoundTime    int `hcl:"round_time,optional"` // seconds
	MaxPlayers   int `hcl:"max_players,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Sessions: SessionDefaults{
			StartBalance: 1000,
			MinBet:       10,
			MaxBet:       0,
			RoundTime:    30,
			MaxPlayers:   10,
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultServerConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Sessions.StartBalance == 0 {
		config.Sessions.StartBalance = defaults.Sessions.StartBalance
	}
	if config.Sessions.MinBet == 0 {
		config.Sessions.MinBet = defaults.Sessions.MinBet
	}
	if config.Sessions.RoundTime == 0 {
		config.Sessions.RoundTime = defaults.Sessions.RoundTime
	}
	if config.Sessions.MaxPlayers == 0 {
		config.Sessions.MaxPlayers = defaults.Sessions.MaxPlayers
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Sessions.StartBalance <= 0 {
		return fmt.Errorf("start balance must be positive")
	}
	if c.Sessions.MinBet <= 0 {
		return fmt.Errorf("minimum bet must be positive")
	}
	if c.Sessions.MaxBet != 0 && c.Sessions.MaxBet < c.Sessions.MinBet {
		return fmt.Errorf("maximum bet must be at least the minimum bet")
	}
	if c.Sessions.RoundTime <= 0 {
		return fmt.Errorf("round time must be positive")
	}
	if c.Sessions.MaxPlayers < 2 {
		return fmt.Errorf("max players must be at least 2")
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
