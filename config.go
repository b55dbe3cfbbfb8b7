package sender

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 10051
	DefaultLogDestination  = "sender.log"
	DefaultMaxResponseSize = 16 * 1024 * 1024
)

// Endpoint identifies the monitoring server.
type Endpoint struct {
	Host string
	Port int
}

func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

type Config struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// Timeout bounds the connect, write and read phases of a single send.
	// Zero means no deadline other than the context passed to Send.
	Timeout        time.Duration `toml:"timeout"`
	EnableLogging  bool          `toml:"enable_logging"`
	LogDestination string        `toml:"log_destination"`
	// MaxResponseSize caps the bytes read per response. Zero selects
	// DefaultMaxResponseSize, a negative value removes the cap.
	MaxResponseSize int64 `toml:"max_response_size"`

	// Logger takes precedence over EnableLogging/LogDestination.
	Logger  *zerolog.Logger `toml:"-"`
	Metrics *Metrics        `toml:"-"`
}

func Defaults() Config {
	return Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		LogDestination:  DefaultLogDestination,
		MaxResponseSize: DefaultMaxResponseSize,
	}
}

// LoadConfig reads a TOML file on top of Defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.LogDestination == "" {
		c.LogDestination = DefaultLogDestination
	}
	if c.MaxResponseSize == 0 {
		c.MaxResponseSize = DefaultMaxResponseSize
	}
	return c
}
