package poller

import (
	"context"
	"log/slog"
	"time"

	"homework-bot/notify"
	"homework-bot/practicum"
)

const (
	MessageActivated = "Бот активирован"
	MessageNoUpdates = "Обновлений нет"
	MessageFailure   = "Сбой в работе программы"

	DefaultRetryPeriod = 600 * time.Second
)

// Fetcher returns the decoded homework_statuses answer for updates since
// fromDate (unix seconds).
type Fetcher interface {
	HomeworkStatuses(ctx context.Context, fromDate int64) (any, error)
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Options struct {
	RetryPeriod time.Duration
	// Now and Sleep default to the wall clock.
	Now   func() time.Time
	Sleep SleepFunc
}

// Poller checks the homework status every retry period and notifies about
// each change. It must be driven by a single goroutine.
type Poller struct {
	fetcher  Fetcher
	notifier notify.Notifier

	retryPeriod time.Duration
	now         func() time.Time
	sleep       SleepFunc

	cursor      int64
	lastMessage string
}

func New(fetcher Fetcher, notifier notify.Notifier, opts Options) *Poller {
	p := &Poller{
		fetcher:     fetcher,
		notifier:    notifier,
		retryPeriod: opts.RetryPeriod,
		now:         opts.Now,
		sleep:       opts.Sleep,
	}
	if p.retryPeriod <= 0 {
		p.retryPeriod = DefaultRetryPeriod
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.sleep == nil {
		p.sleep = Sleep
	}
	return p
}

// Run announces the start and then polls until ctx is cancelled. It only
// returns the context error.
func (p *Poller) Run(ctx context.Context) error {
	p.cursor = p.now().Unix()
	p.lastMessage = ""
	p.notifier.Notify(ctx, MessageActivated)
	slog.Info(MessageActivated, slog.Int64("cursor", p.cursor))

	for {
		p.cycle(ctx)

		if err := p.sleep(ctx, p.retryPeriod); err != nil {
			slog.Info("polling stopped", slog.String("reason", err.Error()))
			return err
		}
	}
}

// cycle runs one fetch-validate-format-notify pass.
func (p *Poller) cycle(ctx context.Context) {
	message, err := p.check(ctx)
	failed := err != nil
	if failed {
		if ctx.Err() != nil {
			return
		}
		message = failureMessage(err)
		if kind := practicum.KindOf(err); kind != 0 {
			slog.Error(message, slog.String("kind", kind.String()))
		} else {
			slog.Error(message, slog.String("kind", "unexpected"))
		}
	}

	if message == p.lastMessage {
		slog.Debug("message already sent, skipping", slog.String("message", message))
		return
	}
	if w, ok := p.notifier.(notify.Warner); ok && failed {
		w.Warn(ctx, message)
	} else {
		p.notifier.Notify(ctx, message)
	}
	p.lastMessage = message
}

func (p *Poller) check(ctx context.Context) (string, error) {
	response, err := p.fetcher.HomeworkStatuses(ctx, p.cursor)
	if err != nil {
		return "", err
	}

	p.advance(response)

	homeworks, err := practicum.CheckResponse(response)
	if err != nil {
		return "", err
	}
	if len(homeworks) == 0 {
		return MessageNoUpdates, nil
	}

	return practicum.ParseStatus(homeworks[0])
}

func (p *Poller) advance(response any) {
	date, ok := practicum.CurrentDate(response)
	if !ok {
		slog.Warn("response has no current_date, cursor kept", slog.Int64("cursor", p.cursor))
		return
	}
	if date < p.cursor {
		slog.Warn("server current_date is behind the cursor",
			slog.Int64("cursor", p.cursor), slog.Int64("current_date", date))
	}
	p.cursor = date
}

// failureMessage renders a recoverable cycle error for the recipient.
func failureMessage(err error) string {
	return MessageFailure + ": " + err.Error()
}

// Cursor is the from_date used by the next request.
func (p *Poller) Cursor() int64 {
	return p.cursor
}

// LastMessage is the last text handed to the notifier by a cycle.
func (p *Poller) LastMessage() string {
	return p.lastMessage
}

// Sleep waits for d unless ctx is done first.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
