package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"homework-bot/config"
	"homework-bot/notify"
	"homework-bot/poller"
	"homework-bot/practicum"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("homework-bot stopped", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "homework-bot",
		Short:         "Watch Practicum homework review status and report changes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			setupLogger(cfg.LogLevel)

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "dotenv file with settings (default ./.env if present)")
	cmd.Flags().String("log-level", config.DefaultLogLevel, "debug, info, warn or error")
	cmd.Flags().Duration("retry-period", config.DefaultRetryPeriod, "pause between status checks")
	cmd.Flags().String("channel", config.ChannelTelegram, "notification channel: telegram or ntfy")
	cmd.Flags().String("endpoint", practicum.DefaultEndpoint, "homework statuses API endpoint")
	cmd.Flags().Bool("dry-run", false, "log notifications instead of sending them")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrConfigMissing) {
			slog.Error("required tokens are missing, bot can't start", slog.String("error", err.Error()))
		}
		return err
	}

	notifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}

	client := practicum.NewClient(cfg.Endpoint, cfg.PracticumToken, cfg.RequestTimeout)
	p := poller.New(client, notifier, poller.Options{RetryPeriod: cfg.RetryPeriod})

	slog.Info("start polling", slog.String("channel", cfg.Channel),
		slog.Duration("retry_period", cfg.RetryPeriod))

	err = p.Run(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Info("done")
		return nil
	}
	return err
}

func newNotifier(cfg *config.Config) (notify.Notifier, error) {
	if cfg.DryRun {
		return notify.Nop{}, nil
	}

	switch cfg.Channel {
	case config.ChannelTelegram:
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, cfg.TelegramAPIURL, cfg.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("can't create telegram bot: %w", err)
		}
		return tg, nil
	case config.ChannelNtfy:
		return notify.NewNtfy(cfg.NtfyServer, cfg.NtfyTopic, cfg.NtfyToken, cfg.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unknown notify channel %q", cfg.Channel)
	}
}

func setupLogger(level string) *slog.Logger {
	envLogLevel := strings.ToLower(level)
	var slogLevel slog.Level
	err := slogLevel.UnmarshalText([]byte(envLogLevel))
	if err != nil {
		log.Printf("encountered log level: '%s'. The package does not support custom log levels", envLogLevel)
		slogLevel = slog.LevelError
	}

	replaceAttrs := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.SourceKey {
			source := a.Value.Any().(*slog.Source)
			source.File = filepath.Base(source.File)
		}
		return a
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		AddSource:   true,
		Level:       slogLevel,
		ReplaceAttr: replaceAttrs,
	}))

	slog.SetDefault(logger)
	logger.Debug("debug messages are enabled")

	return logger
}
