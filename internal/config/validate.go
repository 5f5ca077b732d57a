package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateService(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateService() error {
	if c.Service.BaseURL == "" {
		return errors.New("service.base_url must be set")
	}
	parsed, err := url.Parse(c.Service.BaseURL)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("service.base_url is not a valid URL: %q", c.Service.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("service.base_url must use http or https, got %q", parsed.Scheme)
	}
	if ws, err := url.Parse(c.Service.WebsocketURL); err != nil || ws.Host == "" {
		return fmt.Errorf("service.websocket_url is not a valid URL: %q", c.Service.WebsocketURL)
	} else if ws.Scheme != "ws" && ws.Scheme != "wss" {
		return fmt.Errorf("service.websocket_url must use ws or wss, got %q", ws.Scheme)
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
