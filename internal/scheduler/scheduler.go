package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"XauSentinel/internal/metrics"
	"XauSentinel/internal/model"
	"XauSentinel/internal/notifier"
	"XauSentinel/internal/recorder"
	"XauSentinel/internal/state"
)

const sendRetries = 2

// Checker evaluates the setup once.
type Checker interface {
	Check(ctx context.Context) (*model.Signal, error)
}

// PriceSource answers price queries.
type PriceSource interface {
	CurrentPrice(ctx context.Context) (float64, error)
}

// Messenger is the Telegram side of the bot.
type Messenger interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
	PollUpdates(ctx context.Context, lastID int64) ([]notifier.Update, error)
}

// Scheduler drives the polling loop on a single goroutine.
type Scheduler struct {
	Schedule  cron.Schedule
	Checker   Checker
	Prices    PriceSource
	Messenger Messenger
	Recorder  recorder.Recorder
	State     *state.Manager
	ChatID    string
	Label     string
	Log       zerolog.Logger

	active bool
}

// NewScheduler parses spec (standard cron or @every) and creates a Scheduler.
func NewScheduler(spec string, chk Checker, prices PriceSource, msg Messenger,
	rec recorder.Recorder, st *state.Manager, chatID, label string, log zerolog.Logger) (*Scheduler, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return &Scheduler{
		Schedule:  sched,
		Checker:   chk,
		Prices:    prices,
		Messenger: msg,
		Recorder:  rec,
		State:     st,
		ChatID:    chatID,
		Label:     label,
		Log:       log,
	}, nil
}

// Active reports whether signal monitoring is on.
func (s *Scheduler) Active() bool { return s.active }

func (s *Scheduler) setActive(on bool) {
	s.active = on
	if on {
		metrics.MonitoringActive.Set(1)
	} else {
		metrics.MonitoringActive.Set(0)
	}
}

// Run announces the bot and ticks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.trySend(ctx, notifier.FormatBoot())
	for {
		s.Tick(ctx)

		next := s.Schedule.Next(time.Now())
		s.Log.Debug().Time("next", next).Msg("sleeping")
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.Log.Info().Msg("scheduler stopped")
			return
		case <-timer.C:
		}
	}
}

// Tick handles pending commands, then runs the signal check when active.
func (s *Scheduler) Tick(ctx context.Context) {
	metrics.CyclesTotal.Inc()
	s.pollCommands(ctx)
	if !s.active {
		return
	}

	sig, err := s.Checker.Check(ctx)
	if err != nil {
		s.Log.Error().Err(err).Msg("signal check failed")
		return
	}
	if sig == nil {
		return
	}

	metrics.SignalsTotal.WithLabelValues(string(sig.Bias)).Inc()
	s.Log.Info().
		Str("id", sig.ID).
		Str("bias", string(sig.Bias)).
		Str("entry", sig.Plan.Entry.String()).
		Str("stop", sig.Plan.StopLoss.String()).
		Str("tp", sig.Plan.TakeProfit.String()).
		Msg("signal")
	s.trySend(ctx, notifier.FormatSignal(sig))
	if err := s.Recorder.RecordSignal(sig); err != nil {
		s.Log.Error().Err(err).Str("id", sig.ID).Msg("record signal")
	}
}

func (s *Scheduler) pollCommands(ctx context.Context) {
	updates, err := s.Messenger.PollUpdates(ctx, s.State.LastUpdateID())
	if err != nil {
		s.Log.Error().Err(err).Msg("poll updates")
		return
	}
	for _, u := range updates {
		s.State.SetLastUpdateID(u.ID)
		if u.ChatID == "" {
			continue
		}
		if u.ChatID != s.ChatID {
			s.Log.Warn().Str("chat_id", u.ChatID).Msg("ignoring message from unknown chat")
			continue
		}
		s.Log.Info().Str("text", u.Text).Msg("received command")
		if reply := s.HandleCommand(ctx, u.Text); reply != "" {
			s.trySend(ctx, reply)
		}
	}
}

// HandleCommand processes an operator command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, text string) string {
	cmd := commandName(text)

	switch cmd {
	case "/start":
		metrics.CommandsTotal.WithLabelValues("start").Inc()
		s.setActive(true)
		return notifier.FormatStarted(s.Label)
	case "/stop":
		metrics.CommandsTotal.WithLabelValues("stop").Inc()
		s.setActive(false)
		return notifier.FormatStopped()
	case "/price":
		metrics.CommandsTotal.WithLabelValues("price").Inc()
		price, err := s.Prices.CurrentPrice(ctx)
		if err != nil {
			s.Log.Error().Err(err).Msg("current price")
			return notifier.FormatPrice(s.Label, 0, false)
		}
		return notifier.FormatPrice(s.Label, price, price != 0)
	default:
		metrics.CommandsTotal.WithLabelValues("other").Inc()
		return notifier.HelpText
	}
}

// commandName returns the command with any @botname suffix removed, or ""
// when text carries arguments.
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) != 1 {
		return ""
	}
	cmd := fields[0]
	if strings.HasPrefix(cmd, "/") {
		if i := strings.Index(cmd, "@"); i > 0 {
			cmd = cmd[:i]
		}
	}
	return cmd
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := s.Messenger.SendWithRetry(ctx, text, sendRetries); err != nil {
		s.Log.Error().Err(err).Msg("send notification")
	}
}
