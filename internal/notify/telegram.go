// Package notify delivers fire-and-forget task notifications over the
// Telegram Bot API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/missagar01/Housekeeping-backend-aws/pkg/models"
)

// Telegram implements service.Notifier against a single chat.
type Telegram struct {
	token   string
	chatID  int64
	baseURL string
	http    *http.Client
}

func NewTelegram(token string, chatID int64) *Telegram {
	return &Telegram{
		token:   token,
		chatID:  chatID,
		baseURL: "https://api.telegram.org",
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (t *Telegram) TaskUpdated(task models.Task) error {
	text := fmt.Sprintf("Task #%d (%s) updated: %s", task.ID, task.Department, task.Description)
	if task.SubmissionDate != nil {
		text += fmt.Sprintf("\nSubmitted on %s", task.SubmissionDate)
	}
	if task.Status != "" {
		text += fmt.Sprintf("\nStatus: %s", task.Status)
	}
	return t.sendMessage(text)
}

func (t *Telegram) sendMessage(text string) error {
	payload := map[string]interface{}{
		"chat_id": t.chatID,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token),
		bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "send telegram message")
	}
	defer resp.Body.Close()

	var apiResp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return errors.Wrap(err, "decode telegram response")
	}
	if !apiResp.OK {
		return errors.Errorf("telegram api: %s", apiResp.Description)
	}
	return nil
}
