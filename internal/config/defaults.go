package config

const (
	defaultServiceBaseURL       = "http://127.0.0.1:5000"
	defaultRequestTimeout       = 30
	defaultStateDir             = "~/.local/share/slidesmith"
	defaultExportDir            = "~/slidesmith/exports"
	defaultPollInterval         = 3
	defaultPollRetryInterval    = 5
	defaultReconnectInitialMS   = 500
	defaultReconnectMaxMS       = 8000
	defaultReconnectMaxAttempts = 6
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Service: Service{
			BaseURL:        defaultServiceBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Paths: Paths{
			StateDir:  defaultStateDir,
			ExportDir: defaultExportDir,
		},
		Tracking: Tracking{
			PollInterval:         defaultPollInterval,
			PollRetryInterval:    defaultPollRetryInterval,
			ReconnectInitialMS:   defaultReconnectInitialMS,
			ReconnectMaxMS:       defaultReconnectMaxMS,
			ReconnectMaxAttempts: defaultReconnectMaxAttempts,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
