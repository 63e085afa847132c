// Package config loads observer configuration from a YAML file with
// defaults, validation, and environment overrides for credentials.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/beringar/fcu-observer/internal/mqtt"
	"github.com/beringar/fcu-observer/internal/telemetry"
)

// Environment variables that override file values, so credentials can stay
// out of checked-in YAML (loaded from a .env file or the real environment).
const (
	EnvUsername = "MQTT_USERNAME"
	EnvPassword = "MQTT_PASSWORD"
)

// Config is the full observer configuration.
type Config struct {
	MQTT      MQTTConfig `yaml:"mqtt"`
	FocusUnit string     `yaml:"focus_unit"`
	HTTP      HTTPConfig `yaml:"http"`
	// FieldAliases overrides the built-in alias chains per canonical
	// field, so new firmware field names ship as config, not code.
	FieldAliases map[string][]string `yaml:"field_aliases"`
}

// MQTTConfig holds broker connection parameters.
type MQTTConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
}

// HTTPConfig holds the status server settings.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MQTT.Port == 0 {
		c.MQTT.Port = 8883
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "fcu-observer"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
}

func (c *Config) applyEnv() {
	if u := os.Getenv(EnvUsername); u != "" {
		c.MQTT.Username = u
	}
	if p := os.Getenv(EnvPassword); p != "" {
		c.MQTT.Password = p
	}
}

func (c *Config) validate() error {
	if c.MQTT.Host == "" {
		return fmt.Errorf("mqtt.host is required")
	}
	if c.MQTT.Topic == "" {
		return fmt.Errorf("mqtt.topic is required")
	}
	if c.MQTT.Username == "" {
		return fmt.Errorf("mqtt.username is required (file or %s)", EnvUsername)
	}
	if c.MQTT.Password == "" {
		return fmt.Errorf("mqtt.password is required (file or %s)", EnvPassword)
	}
	if c.FocusUnit == "" {
		return fmt.Errorf("focus_unit is required")
	}
	for field := range c.FieldAliases {
		if _, ok := telemetry.DefaultAliases()[field]; !ok {
			return fmt.Errorf("field_aliases: unknown canonical field %q", field)
		}
	}
	return nil
}

// Broker returns the connection parameters as the transport layer's Config.
func (c *Config) Broker() mqtt.Config {
	return mqtt.Config{
		Host:     c.MQTT.Host,
		Port:     c.MQTT.Port,
		Username: c.MQTT.Username,
		Password: c.MQTT.Password,
		Topic:    c.MQTT.Topic,
		ClientID: c.MQTT.ClientID,
	}
}

// Aliases returns the default alias table with file overrides applied.
func (c *Config) Aliases() telemetry.AliasTable {
	if len(c.FieldAliases) == 0 {
		return telemetry.DefaultAliases()
	}
	return telemetry.DefaultAliases().Merge(telemetry.AliasTable(c.FieldAliases))
}
