package config

import (
	"errors"
	"fmt"
	"slices"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateParse(); err != nil {
		return err
	}
	return c.validateCover()
}

func (c *Config) validateLogging() error {
	if !slices.Contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %v, got %q", validLogLevels, c.Logging.Level)
	}
	if !slices.Contains(validLogFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of %v, got %q", validLogFormats, c.Logging.Format)
	}
	return nil
}

func (c *Config) validateParse() error {
	if c.Parse.Concurrency < 0 {
		return errors.New("parse.concurrency must be zero (auto) or positive")
	}
	if c.Parse.MaxEntryMiB <= 0 {
		return errors.New("parse.max_entry_mib must be positive")
	}
	if c.Parse.MaxEntryMiB > 1<<20 {
		return errors.New("parse.max_entry_mib must not exceed 1048576 (1 TiB)")
	}
	return nil
}

func (c *Config) validateCover() error {
	if c.Cover.MaxWidth <= 0 {
		return errors.New("cover.max_width must be positive")
	}
	if c.Cover.JPEGQuality < 1 || c.Cover.JPEGQuality > 100 {
		return errors.New("cover.jpeg_quality must be between 1 and 100")
	}
	return nil
}
