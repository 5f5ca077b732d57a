package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"slidesmith/internal/config"
	"slidesmith/internal/journal"
	"slidesmith/internal/logging"
	"slidesmith/internal/notifications"
	"slidesmith/internal/services/deckapi"
)

type commandContext struct {
	configFlag   *string
	documentFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, documentFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		documentFlag: documentFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		// A .env next to the working directory may carry SLIDESMITH_API_TOKEN.
		_ = godotenv.Load()

		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg := c.configValue()
		if cfg == nil {
			c.logger = logging.WithComponent(nil, "cli")
			return
		}
		logger, err := logging.NewFromConfig(os.Stderr, cfg)
		if err != nil {
			c.logger = logging.WithComponent(nil, "cli")
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) apiClient() (*deckapi.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return deckapi.NewFromConfig(cfg), nil
}

func (c *commandContext) openJournal() (*journal.Journal, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return journal.Open(cfg)
}

func (c *commandContext) notifier() notifications.Service {
	cfg := c.configValue()
	if cfg == nil {
		return nil
	}
	return notifications.NewService(cfg)
}

// documentID resolves the target document from --document or the
// SLIDESMITH_DOCUMENT environment variable.
func (c *commandContext) documentID() (string, error) {
	if c.documentFlag != nil {
		if id := strings.TrimSpace(*c.documentFlag); id != "" {
			return id, nil
		}
	}
	if id := strings.TrimSpace(os.Getenv("SLIDESMITH_DOCUMENT")); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("no document selected; pass --document or set SLIDESMITH_DOCUMENT")
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
