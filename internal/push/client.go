// Package push delivers mobile push notifications through the Expo push
// service.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"homezy_backend/platform/config"
	"homezy_backend/platform/logger"

	"golang.org/x/time/rate"
)

// Client talks to the Expo push HTTP API. A nil client drops every message,
// so callers never need to branch on push being disabled.
type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
	limiter     *rate.Limiter
	log         *logger.Logger
}

// Message is one push notification.
type Message struct {
	To    string         `json:"to"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
	Sound string         `json:"sound,omitempty"`
}

type expoTicket struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type expoResponse struct {
	Data []expoTicket `json:"data"`
}

// NewClient creates an Expo push client, or nil when push is disabled.
// Expo asks senders to stay under roughly 600 notifications per second; the
// limiter keeps bursts from job fan-outs inside that.
func NewClient(cfg config.PushConfig, log *logger.Logger) *Client {
	if !cfg.IsPushEnabled() {
		return nil
	}

	baseURL := cfg.GetExpoPushURL()
	if baseURL == "" {
		baseURL = "https://exp.host/--/api/v2/push/send"
	}

	return &Client{
		baseURL:     baseURL,
		accessToken: cfg.GetExpoAccessToken(),
		http:        &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(100), 100),
		log:         log,
	}
}

// Send delivers one push message. Invalid or unregistered tokens come back
// as an error so the caller can decide whether to drop the token.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c == nil {
		return nil
	}
	if !strings.HasPrefix(msg.To, "ExponentPushToken[") {
		return fmt.Errorf("not an expo push token: %q", msg.To)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if msg.Sound == "" {
		msg.Sound = "default"
	}

	body, err := json.Marshal([]Message{msg})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("expo request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("expo returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed expoResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode expo response: %w", err)
	}
	for _, ticket := range parsed.Data {
		if ticket.Status == "error" {
			return fmt.Errorf("expo ticket error: %s", ticket.Message)
		}
	}

	c.log.Info("push sent", "title", msg.Title)
	return nil
}
