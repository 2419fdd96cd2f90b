package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"XauSentinel/internal/model"
	"XauSentinel/internal/notifier"
	"XauSentinel/internal/state"
)

type fakeMessenger struct {
	mu      sync.Mutex
	sent    []string
	updates []notifier.Update
	offsets []int64
	pollErr error
}

func (f *fakeMessenger) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeMessenger) PollUpdates(_ context.Context, lastID int64) ([]notifier.Update, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offsets = append(f.offsets, lastID)
	ups := f.updates
	f.updates = nil
	return ups, f.pollErr
}

func (f *fakeMessenger) polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.offsets)
}

type fakeChecker struct {
	sig   *model.Signal
	err   error
	calls int
}

func (f *fakeChecker) Check(context.Context) (*model.Signal, error) {
	f.calls++
	return f.sig, f.err
}

type fakePrice struct {
	price float64
	err   error
}

func (f fakePrice) CurrentPrice(context.Context) (float64, error) { return f.price, f.err }

type fakeRecorder struct{ ids []string }

func (f *fakeRecorder) RecordSignal(sig *model.Signal) error {
	f.ids = append(f.ids, sig.ID)
	return nil
}
func (f *fakeRecorder) Close() error { return nil }

func newTestScheduler(t *testing.T, chk *fakeChecker, price fakePrice) (*Scheduler, *fakeMessenger, *fakeRecorder) {
	t.Helper()
	st, err := state.NewManager("", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	msg := &fakeMessenger{}
	rec := &fakeRecorder{}
	s, err := NewScheduler("@every 5m", chk, price, msg, rec, st, "42", "XAUUSD", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return s, msg, rec
}

func testSignal() *model.Signal {
	return &model.Signal{
		ID:    "sig-1",
		Label: "XAUUSD",
		Bias:  model.BiasBullish,
		Zone:  model.Zone{Type: model.BullishFVG, Price: 2000},
		Plan: model.Plan{
			Direction:  model.Buy,
			Entry:      decimal.NewFromInt(2003),
			StopLoss:   decimal.NewFromInt(1999),
			TakeProfit: decimal.NewFromInt(2011),
			Size:       decimal.NewFromInt(25),
		},
		CandleTime: time.Date(2024, 5, 1, 12, 25, 0, 0, time.UTC),
	}
}

func TestHandleCommand(t *testing.T) {
	s, _, _ := newTestScheduler(t, &fakeChecker{}, fakePrice{price: 2345.678})
	ctx := context.Background()

	tests := []struct {
		text   string
		reply  string
		active bool
	}{
		{"/start", "✅ Bot started. Monitoring XAUUSD (Gold).", true},
		{"/price", "💰 Current XAUUSD Price: 2345.68", true},
		{"/stop", "🛑 Bot stopped.", false},
		{"/start@xau_bot", "✅ Bot started. Monitoring XAUUSD (Gold).", true},
		{"hello", notifier.HelpText, true},
		{"/start now", notifier.HelpText, true},
		{"", notifier.HelpText, true},
		{"/stop@xau_bot extra", notifier.HelpText, true},
		{"/stop", "🛑 Bot stopped.", false},
		{"/start@xau_bot now", notifier.HelpText, false},
		{"  /start@xau_bot  ", "✅ Bot started. Monitoring XAUUSD (Gold).", true},
	}
	for _, tt := range tests {
		if got := s.HandleCommand(ctx, tt.text); got != tt.reply {
			t.Errorf("%q: reply %q, want %q", tt.text, got, tt.reply)
		}
		if s.Active() != tt.active {
			t.Errorf("%q: active=%v, want %v", tt.text, s.Active(), tt.active)
		}
	}
}

func TestHandleCommand_PriceUnavailable(t *testing.T) {
	s, _, _ := newTestScheduler(t, &fakeChecker{}, fakePrice{err: errors.New("timeout")})
	if got := s.HandleCommand(context.Background(), "/price"); got != "Price not available right now." {
		t.Errorf("unexpected reply %q", got)
	}
}

func TestTick_InactiveSkipsCheck(t *testing.T) {
	chk := &fakeChecker{sig: testSignal()}
	s, msg, rec := newTestScheduler(t, chk, fakePrice{})

	s.Tick(context.Background())
	if chk.calls != 0 {
		t.Errorf("check ran while inactive")
	}
	if len(msg.sent) != 0 || len(rec.ids) != 0 {
		t.Errorf("nothing should be sent or recorded: %v %v", msg.sent, rec.ids)
	}
}

func TestTick_StartCommandThenSignal(t *testing.T) {
	chk := &fakeChecker{sig: testSignal()}
	s, msg, rec := newTestScheduler(t, chk, fakePrice{})
	msg.updates = []notifier.Update{{ID: 10, ChatID: "42", Text: "/start"}}

	s.Tick(context.Background())

	if !s.Active() {
		t.Fatal("expected monitoring on after /start")
	}
	if chk.calls != 1 {
		t.Fatalf("expected one check in the same tick, got %d", chk.calls)
	}
	if len(msg.sent) != 2 {
		t.Fatalf("expected start reply and signal, got %v", msg.sent)
	}
	if !strings.Contains(msg.sent[1], "XAUUSD BULLISH Signal") || !strings.Contains(msg.sent[1], "TP: 2011.00") {
		t.Errorf("unexpected signal message %q", msg.sent[1])
	}
	if len(rec.ids) != 1 || rec.ids[0] != "sig-1" {
		t.Errorf("signal not recorded: %v", rec.ids)
	}
	if s.State.LastUpdateID() != 10 {
		t.Errorf("offset not advanced: %d", s.State.LastUpdateID())
	}

	s.Tick(context.Background())
	if msg.offsets[1] != 10 {
		t.Errorf("second poll should pass last id 10, got %d", msg.offsets[1])
	}
}

func TestTick_UnknownChatIgnored(t *testing.T) {
	s, msg, _ := newTestScheduler(t, &fakeChecker{}, fakePrice{})
	msg.updates = []notifier.Update{
		{ID: 3, ChatID: "999", Text: "/start"},
		{ID: 4},
	}

	s.Tick(context.Background())
	if s.Active() {
		t.Error("command from unknown chat must be ignored")
	}
	if len(msg.sent) != 0 {
		t.Errorf("no reply expected, got %v", msg.sent)
	}
	if s.State.LastUpdateID() != 4 {
		t.Errorf("ignored updates must still advance the offset, got %d", s.State.LastUpdateID())
	}
}

func TestTick_ErrorsAreSwallowed(t *testing.T) {
	chk := &fakeChecker{err: errors.New("yahoo down")}
	s, msg, rec := newTestScheduler(t, chk, fakePrice{})
	msg.pollErr = errors.New("telegram down")
	s.setActive(true)

	s.Tick(context.Background())
	if chk.calls != 1 {
		t.Errorf("check should still run after a polling failure")
	}
	if len(msg.sent) != 0 || len(rec.ids) != 0 {
		t.Errorf("failed cycle must not emit anything: %v %v", msg.sent, rec.ids)
	}
}

func TestRun_SendsBootAndStopsOnCancel(t *testing.T) {
	s, msg, _ := newTestScheduler(t, &fakeChecker{}, fakePrice{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// Run blocks on the 5m timer after its first tick.
	deadline := time.After(2 * time.Second)
	for {
		if msg.polls() > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first tick did not run")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if len(msg.sent) == 0 || msg.sent[0] != notifier.FormatBoot() {
		t.Errorf("expected boot message first, got %v", msg.sent)
	}
}

func TestNewScheduler_BadSpec(t *testing.T) {
	if _, err := NewScheduler("sometimes", nil, nil, nil, nil, nil, "", "", zerolog.Nop()); err == nil {
		t.Fatal("expected parse error")
	}
}
