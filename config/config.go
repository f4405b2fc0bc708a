package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ChannelTelegram = "telegram"
	ChannelNtfy     = "ntfy"

	DefaultRetryPeriod    = 600 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogLevel       = "error"
	DefaultConfigFile     = ".env"
)

var ErrConfigMissing = errors.New("required configuration is missing")

type Config struct {
	PracticumToken string        `mapstructure:"practicum_token"`
	Endpoint       string        `mapstructure:"endpoint"`
	Channel        string        `mapstructure:"notify_channel"`
	TelegramToken  string        `mapstructure:"telegram_token"`
	TelegramChatID string        `mapstructure:"telegram_chat_id"`
	TelegramAPIURL string        `mapstructure:"telegram_api_url"`
	NtfyServer     string        `mapstructure:"ntfy_server"`
	NtfyTopic      string        `mapstructure:"ntfy_topic"`
	NtfyToken      string        `mapstructure:"ntfy_token"`
	RetryPeriod    time.Duration `mapstructure:"retry_period"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	DryRun         bool          `mapstructure:"dry_run"`
}

var keys = []string{
	"practicum_token",
	"endpoint",
	"notify_channel",
	"telegram_token",
	"telegram_chat_id",
	"telegram_api_url",
	"ntfy_server",
	"ntfy_topic",
	"ntfy_token",
	"retry_period",
	"request_timeout",
	"log_level",
	"dry_run",
}

// Load reads the optional dotenv file at path, then the environment, then
// any flags in fs that were set explicitly. An empty path means ./.env.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("notify_channel", ChannelTelegram)
	v.SetDefault("retry_period", DefaultRetryPeriod)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("log_level", DefaultLogLevel)

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	v.AddConfigPath(filepath.Dir(path))
	v.SetConfigName(filepath.Base(path))
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("can't read config file %s: %w", path, err)
		}
	}

	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, err
		}
	}

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.trim()
	return &cfg, nil
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"log-level":    "log_level",
	"retry-period": "retry_period",
	"channel":      "notify_channel",
	"dry-run":      "dry_run",
	"endpoint":     "endpoint",
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) trim() {
	c.PracticumToken = strings.TrimSpace(c.PracticumToken)
	c.TelegramToken = strings.TrimSpace(c.TelegramToken)
	c.TelegramChatID = strings.TrimSpace(c.TelegramChatID)
	c.NtfyTopic = strings.TrimSpace(c.NtfyTopic)
	c.NtfyToken = strings.TrimSpace(c.NtfyToken)
	c.Channel = strings.ToLower(strings.TrimSpace(c.Channel))
}

type requirement struct {
	env   string
	value string
}

// Validate reports every required credential of the selected channel that is
// empty. The returned error wraps ErrConfigMissing.
func (c *Config) Validate() error {
	required := []requirement{{"PRACTICUM_TOKEN", c.PracticumToken}}

	switch c.Channel {
	case ChannelTelegram:
		required = append(required,
			requirement{"TELEGRAM_TOKEN", c.TelegramToken},
			requirement{"TELEGRAM_CHAT_ID", c.TelegramChatID},
		)
	case ChannelNtfy:
		required = append(required,
			requirement{"NTFY_TOKEN", c.NtfyToken},
			requirement{"NTFY_TOPIC", c.NtfyTopic},
		)
	default:
		return fmt.Errorf("unknown notify channel %q, expected %s or %s", c.Channel, ChannelTelegram, ChannelNtfy)
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigMissing, strings.Join(missing, ", "))
	}

	if c.RetryPeriod <= 0 {
		return fmt.Errorf("retry period must be positive, got %v", c.RetryPeriod)
	}

	return nil
}
