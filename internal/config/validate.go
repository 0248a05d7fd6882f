package config

import (
	"errors"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLinkCheck(); err != nil {
		return err
	}
	if err := c.validateTitles(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateLinkCheck() error {
	if c.LinkCheck.TimeoutMS <= 0 {
		return errors.New("linkcheck.timeout_ms must be positive")
	}
	if c.LinkCheck.MaxConcurrent < 0 {
		return errors.New("linkcheck.max_concurrent must be zero (unbounded) or positive")
	}
	if strings.TrimSpace(c.LinkCheck.UserAgent) == "" {
		return errors.New("linkcheck.user_agent must be set")
	}
	return nil
}

func (c *Config) validateTitles() error {
	if strings.TrimSpace(c.Titles.APIKey) == "" {
		return nil // feature disabled
	}
	if strings.TrimSpace(c.Titles.BaseURL) == "" {
		return errors.New("titles.base_url must be set when titles.api_key is set")
	}
	if strings.TrimSpace(c.Titles.Model) == "" {
		return errors.New("titles.model must be set when titles.api_key is set")
	}
	if c.Titles.TimeoutSeconds <= 0 {
		return errors.New("titles.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
