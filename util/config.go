package util

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Drolfothesgnir/bbtext/bbcode"
	"github.com/Drolfothesgnir/bbtext/resource"
)

type Config struct {
	Environment       string        `mapstructure:"ENVIRONMENT"`
	HTTPServerAddress string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	RedisAddress      string        `mapstructure:"REDIS_ADDRESS"`
	CacheTTL          time.Duration `mapstructure:"CACHE_TTL"`

	// ResourceRoot is the directory the "res://" paths of fonts and images are resolved against.
	ResourceRoot    string `mapstructure:"RESOURCE_ROOT"`
	DefaultFontSize int    `mapstructure:"DEFAULT_FONT_SIZE"`
	DefaultColor    string `mapstructure:"DEFAULT_COLOR"`
	NormalFont      string `mapstructure:"NORMAL_FONT"`
	BoldFont        string `mapstructure:"BOLD_FONT"`
	ItalicsFont     string `mapstructure:"ITALICS_FONT"`
	BoldItalicsFont string `mapstructure:"BOLD_ITALICS_FONT"`
	MonoFont        string `mapstructure:"MONO_FONT"`

	MaxTagLen        int `mapstructure:"MAX_TAG_LEN"`
	MaxLookahead     int `mapstructure:"MAX_LOOKAHEAD"`
	MaxWarnings      int `mapstructure:"MAX_WARNINGS"`
	MaxDocumentBytes int `mapstructure:"MAX_DOCUMENT_BYTES"`
}

var defaults = map[string]any{
	"ENVIRONMENT":         "production",
	"HTTP_SERVER_ADDRESS": "0.0.0.0:8080",
	"REDIS_ADDRESS":       "",
	"CACHE_TTL":           10 * time.Minute,
	"RESOURCE_ROOT":       "",
	"DEFAULT_FONT_SIZE":   bbcode.DefaultFontSize,
	"DEFAULT_COLOR":       "white",
	"NORMAL_FONT":         "",
	"BOLD_FONT":           "",
	"ITALICS_FONT":        "",
	"BOLD_ITALICS_FONT":   "",
	"MONO_FONT":           "",
	"MAX_TAG_LEN":         bbcode.DefaultMaxTagLen,
	"MAX_LOOKAHEAD":       bbcode.DefaultMaxLookahead,
	"MAX_WARNINGS":        bbcode.DefaultMaxWarnings,
	"MAX_DOCUMENT_BYTES":  1 << 20,
}

// LoadConfig reads app.env from path. Environment variables override the file.
// A missing file is fine, the defaults and the environment are used then.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

// Validate checks the values which can't be used as they are.
func (config *Config) Validate() error {
	if _, _, err := config.ExtractHostPort(); err != nil {
		return err
	}

	if err := config.Limits().Validate(); err != nil {
		return err
	}

	if config.MaxWarnings < 0 {
		return fmt.Errorf("MAX_WARNINGS must be non-negative, got %d", config.MaxWarnings)
	}

	if config.MaxDocumentBytes < 0 {
		return fmt.Errorf("MAX_DOCUMENT_BYTES must be non-negative, got %d", config.MaxDocumentBytes)
	}

	if config.DefaultFontSize <= 0 {
		return fmt.Errorf("DEFAULT_FONT_SIZE must be positive, got %d", config.DefaultFontSize)
	}

	if config.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must be non-negative, got %s", config.CacheTTL)
	}

	if _, err := bbcode.ParseColor(config.DefaultColor); err != nil {
		return fmt.Errorf("invalid DEFAULT_COLOR: %w", err)
	}

	return nil
}

// Limits returns the parser limits.
func (config *Config) Limits() bbcode.Limits {
	return bbcode.Limits{
		MaxTagLen:    config.MaxTagLen,
		MaxLookahead: config.MaxLookahead,
	}
}

// Defaults builds the initial draw state, loading the configured fonts with l.
// l may be nil when no fonts are configured.
func (config *Config) Defaults(l resource.Loader) (bbcode.Defaults, error) {
	d := bbcode.NewDefaults()
	d.FontSize = config.DefaultFontSize

	c, err := bbcode.ParseColor(config.DefaultColor)
	if err != nil {
		return d, fmt.Errorf("invalid DEFAULT_COLOR: %w", err)
	}
	d.Color = c

	fonts := []struct {
		path   string
		handle *resource.Handle
	}{
		{config.NormalFont, &d.NormalFont},
		{config.BoldFont, &d.BoldFont},
		{config.ItalicsFont, &d.ItalicsFont},
		{config.BoldItalicsFont, &d.BoldItalicsFont},
		{config.MonoFont, &d.MonoFont},
	}

	for _, f := range fonts {
		if f.path == "" {
			continue
		}

		if l == nil {
			return d, fmt.Errorf("font %q is configured without RESOURCE_ROOT", f.path)
		}

		h, err := l.Load(f.path, resource.TypeFont)
		if err != nil {
			return d, fmt.Errorf("failed to load font %q: %w", f.path, err)
		}
		*f.handle = h
	}

	return d, nil
}

// ExtractHostPort parses the HTTP server address and returns the host and port components.
// The scheme is optional. If no port is specified, port will be an empty string.
func (config *Config) ExtractHostPort() (host string, port string, err error) {
	addr := config.HTTPServerAddress
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}

	u, err := url.Parse(addr)
	if err != nil {
		err = fmt.Errorf("error parsing http server url: %w", err)
		return
	}

	host, port = u.Hostname(), u.Port()
	if host == "" {
		err = fmt.Errorf("http server address %q has no host", config.HTTPServerAddress)
	}

	return
}

// ListenAddress is the host:port pair for the HTTP server, port 80 when none is set.
func (config *Config) ListenAddress() (string, error) {
	host, port, err := config.ExtractHostPort()
	if err != nil {
		return "", err
	}

	if port == "" {
		port = "80"
	}

	return net.JoinHostPort(host, port), nil
}
