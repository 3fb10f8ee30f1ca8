package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// sendResend sends via the Resend HTTP API.
func (s *Sender) sendResend(ctx context.Context, msg Message) error {
	body := map[string]interface{}{
		"from":    s.from(),
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	if msg.Text != "" {
		body["text"] = msg.Text
	}
	if s.cfg.ReplyTo != "" {
		body["reply_to"] = s.cfg.ReplyTo
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ResendEndpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("resend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Name    string `json:"name"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return &DeliveryError{
			Provider:   ProviderResend,
			StatusCode: resp.StatusCode,
			Category:   categoryFromStatus(resp.StatusCode, errResp.Name+" "+errResp.Message),
			Message:    errResp.Message,
		}
	}
	return nil
}

func categoryFromStatus(status int, detail string) Category {
	if status == http.StatusTooManyRequests {
		return CategoryRateLimit
	}
	return classifyMessage(detail)
}
