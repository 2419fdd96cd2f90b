package notifier

import (
	"fmt"
	"strings"

	"XauSentinel/internal/model"
)

// HelpText lists the operator commands.
const HelpText = "Commands: /start, /stop, /price"

// FormatSignal formats a trade signal into a Telegram message.
func FormatSignal(sig *model.Signal) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s Signal ✅\n", sig.Label, sig.Bias))
	b.WriteString(fmt.Sprintf("HTF Zone: %s @ %.2f\n", sig.Zone.Type, sig.Zone.Price))
	b.WriteString(fmt.Sprintf("Entry: %s\n", sig.Plan.Entry.StringFixed(2)))
	b.WriteString(fmt.Sprintf("SL: %s\n", sig.Plan.StopLoss.StringFixed(2)))
	b.WriteString(fmt.Sprintf("TP: %s\n", sig.Plan.TakeProfit.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Size: %s\n", sig.Plan.Size.StringFixed(4)))
	b.WriteString(fmt.Sprintf("Time (UTC): %s", sig.CandleTime.UTC().Format("2006-01-02 15:04:05")))
	return b.String()
}

// FormatPrice formats the reply to a price query. ok=false means no price was available.
func FormatPrice(label string, price float64, ok bool) string {
	if !ok {
		return "Price not available right now."
	}
	return fmt.Sprintf("💰 Current %s Price: %.2f", label, price)
}

// FormatStarted is sent when monitoring is switched on.
func FormatStarted(label string) string {
	return fmt.Sprintf("✅ Bot started. Monitoring %s (Gold).", label)
}

// FormatStopped is sent when monitoring is switched off.
func FormatStopped() string {
	return "🛑 Bot stopped."
}

// FormatBoot is sent once when the process comes up.
func FormatBoot() string {
	return "🤖 Bot started (inactive). Use /start to activate."
}
