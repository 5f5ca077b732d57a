package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeService(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTracking()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeService() error {
	c.Service.BaseURL = strings.TrimRight(strings.TrimSpace(c.Service.BaseURL), "/")
	c.Service.APIToken = strings.TrimSpace(c.Service.APIToken)
	if env := strings.TrimSpace(os.Getenv("SLIDESMITH_API_TOKEN")); env != "" {
		c.Service.APIToken = env
	}
	if c.Service.RequestTimeout <= 0 {
		c.Service.RequestTimeout = defaultRequestTimeout
	}

	c.Service.WebsocketURL = strings.TrimSpace(c.Service.WebsocketURL)
	if c.Service.WebsocketURL == "" && c.Service.BaseURL != "" {
		derived, err := deriveWebsocketURL(c.Service.BaseURL)
		if err != nil {
			return err
		}
		c.Service.WebsocketURL = derived
	}
	return nil
}

// deriveWebsocketURL maps the HTTP service URL onto the websocket endpoint.
func deriveWebsocketURL(baseURL string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("service.base_url: %w", err)
	}
	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	default:
		return "", fmt.Errorf("service.base_url: unsupported scheme %q", parsed.Scheme)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/ws"
	return parsed.String(), nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTracking() {
	if c.Tracking.PollInterval <= 0 {
		c.Tracking.PollInterval = defaultPollInterval
	}
	if c.Tracking.PollRetryInterval < c.Tracking.PollInterval {
		c.Tracking.PollRetryInterval = c.Tracking.PollInterval
	}
	if c.Tracking.ReconnectInitialMS <= 0 {
		c.Tracking.ReconnectInitialMS = defaultReconnectInitialMS
	}
	if c.Tracking.ReconnectMaxMS < c.Tracking.ReconnectInitialMS {
		c.Tracking.ReconnectMaxMS = c.Tracking.ReconnectInitialMS
	}
	if c.Tracking.ReconnectMaxAttempts <= 0 {
		c.Tracking.ReconnectMaxAttempts = defaultReconnectMaxAttempts
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
