// Package config loads miniplot settings from MINIPLOT_* environment variables
// and an optional YAML file using Viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "MINIPLOT"

// Renderer names
const (
	RendererWeb      = "web"
	RendererPNG      = "png"
	RendererHTML     = "html"
	RendererText     = "text"
	RendererTelegram = "telegram"
)

// Log backends
const (
	LogZerolog = "zerolog"
	LogLogrus  = "logrus"
)

// Config holds every setting shared by the library defaults and the CLI
type Config struct {
	Renderer string         `mapstructure:"renderer"`
	Output   string         `mapstructure:"output"`
	Width    int            `mapstructure:"width"`
	Height   int            `mapstructure:"height"`
	Store    string         `mapstructure:"store"`
	Web      WebConfig      `mapstructure:"web"`
	Text     TextConfig     `mapstructure:"text"`
	Log      LogConfig      `mapstructure:"log"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// WebConfig configures the chart viewer
type WebConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
}

// TextConfig configures the terminal summary
type TextConfig struct {
	Histograms bool `mapstructure:"histograms"`
	Bins       int  `mapstructure:"bins"`
}

// LogConfig configures the default logger
type LogConfig struct {
	Backend    string `mapstructure:"backend"`
	Level      string `mapstructure:"level"`
	TimeFormat string `mapstructure:"time_format"`
	Colored    bool   `mapstructure:"color"`
	JSON       bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and the chats charts are delivered to
type TelegramConfig struct {
	Token string  `mapstructure:"token"`
	Users []int64 `mapstructure:"users"`
}

var defaults = map[string]any{
	"renderer":        RendererWeb,
	"output":          "chart.png",
	"width":           1024,
	"height":          768,
	"store":           ":memory:",
	"web.port":        8080,
	"web.debug":       false,
	"text.histograms": false,
	"text.bins":       10,
	"log.backend":     LogZerolog,
	"log.level":       "info",
	"log.time_format": "2006-01-02 15:04:05",
	"log.color":       true,
	"log.json":        false,
	"telegram.token":  "",
	"telegram.users":  []int64{},
}

// Load reads the configuration. Environment variables such as MINIPLOT_WEB_PORT
// override values from the file at path, which is optional.
func Load(path string) (*Config, error) {
	cfg, err := decode(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLog reads only the logging settings. Renderer settings are neither
// checked nor required to be valid.
func LoadLog(path string) (*LogConfig, error) {
	cfg, err := decode(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Log.Validate(); err != nil {
		return nil, err
	}
	return &cfg.Log, nil
}

func decode(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that cannot be fixed up silently
func (c *Config) Validate() error {
	switch c.Renderer {
	case RendererWeb, RendererPNG, RendererHTML, RendererText, RendererTelegram:
	default:
		return fmt.Errorf("unknown renderer %q", c.Renderer)
	}

	if err := c.Log.Validate(); err != nil {
		return err
	}

	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", c.Width, c.Height)
	}
	if c.Web.Port < 0 {
		return fmt.Errorf("invalid port %d", c.Web.Port)
	}
	return nil
}

// Validate checks the log backend
func (l *LogConfig) Validate() error {
	switch l.Backend {
	case LogZerolog, LogLogrus:
		return nil
	}
	return fmt.Errorf("unknown log backend %q", l.Backend)
}
