package bark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultServerURL = "https://day.app"

// Service sends iOS push notifications via the Bark API.
type Service struct {
	key        string
	serverURL  string
	siteTitle  string
	httpClient *http.Client
}

// New creates a Bark service. An empty key yields a disabled service.
func New(key, serverURL, siteTitle string) *Service {
	serverURL = strings.TrimRight(strings.TrimSpace(serverURL), "/")
	if serverURL == "" {
		serverURL = defaultServerURL
	}
	return &Service{
		key:        strings.TrimSpace(key),
		serverURL:  serverURL,
		siteTitle:  siteTitle,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a device key is configured.
func (s *Service) Enabled() bool { return s != nil && s.key != "" }

type pushPayload struct {
	DeviceKey string `json:"device_key"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Category  string `json:"category,omitempty"`
	Group     string `json:"group,omitempty"`
}

// Push sends a notification. It is a no-op when the service is disabled.
func (s *Service) Push(ctx context.Context, title, body string) error {
	if !s.Enabled() {
		return nil
	}

	b, err := json.Marshal(pushPayload{
		DeviceKey: s.key,
		Title:     fmt.Sprintf("[%s] %s", s.siteTitle, title),
		Body:      body,
		Category:  s.siteTitle,
		Group:     s.siteTitle,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.serverURL+"/push", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("bark push failed: status %d", resp.StatusCode)
	}
	return nil
}
