package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// pollTimeout is the long-poll window passed to getUpdates.
const pollTimeout = 10

// Update is a text message received by the bot.
type Update struct {
	ID     int64
	ChatID string
	Text   string
}

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// PollUpdates fetches updates newer than lastID. Updates without a message
// are returned with empty ChatID and Text so the caller can still advance its offset.
func (t *TelegramNotifier) PollUpdates(ctx context.Context, lastID int64) ([]Update, error) {
	q := url.Values{}
	q.Set("timeout", strconv.Itoa(pollTimeout))
	if lastID > 0 {
		q.Set("offset", strconv.FormatInt(lastID+1, 10))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.method("getUpdates")+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create polling request: %w", err)
	}

	client := &http.Client{Timeout: (pollTimeout + 5) * time.Second, Transport: t.Client.Transport}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polling request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read polling response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("getUpdates: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		OK          bool             `json:"ok"`
		Description string           `json:"description"`
		Result      []telegramUpdate `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode polling response: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("getUpdates not ok: %s", result.Description)
	}

	updates := make([]Update, 0, len(result.Result))
	for _, u := range result.Result {
		up := Update{ID: u.UpdateID}
		if u.Message != nil {
			up.ChatID = strconv.FormatInt(u.Message.Chat.ID, 10)
			up.Text = strings.TrimSpace(u.Message.Text)
		}
		updates = append(updates, up)
	}
	return updates, nil
}
