package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Output charsets supported by the converter.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1251 = "windows-1251"
)

// Config holds runtime configuration for the converter.
type Config struct {
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	DefaultCurrency string `envconfig:"TAXER_DEFAULT_CURRENCY" default:""`
	DateLayout      string `envconfig:"TAXER_DATE_LAYOUT" default:"2006-01-02 15:04:05"`
	OutputEncoding  string `envconfig:"TAXER_OUTPUT_ENCODING" default:"utf-8"`
	Workers         int    `envconfig:"TAXER_WORKERS" default:"4"`
	TrimText        bool   `envconfig:"TAXER_TRIM_TEXT" default:"true"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express as tags. It never modifies
// the receiver.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config must be provided")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if strings.TrimSpace(c.DateLayout) == "" {
		return errors.New("date layout must be provided")
	}
	if _, err := time.Parse(c.DateLayout, time.Date(2025, 7, 22, 13, 24, 35, 0, time.UTC).Format(c.DateLayout)); err != nil {
		return fmt.Errorf("date layout %q is not usable: %w", c.DateLayout, err)
	}
	if _, err := NormalizeEncoding(c.OutputEncoding); err != nil {
		return err
	}
	if currency := strings.TrimSpace(c.DefaultCurrency); currency != "" && len(currency) != 3 {
		return fmt.Errorf("default currency %q must be a 3 letter code", c.DefaultCurrency)
	}
	return nil
}

// NormalizeEncoding maps accepted aliases to a canonical charset name.
func NormalizeEncoding(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "windows-1251", "cp1251", "win1251":
		return EncodingWindows1251, nil
	default:
		return "", fmt.Errorf("unsupported output encoding %q", name)
	}
}
