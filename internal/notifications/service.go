package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"showrunner/internal/config"
)

const userAgent = "Showrunner/0.1.0"

// Service defines the notification surface exposed to the CLI.
type Service interface {
	NotifyPublishStarted(ctx context.Context, projectName string) error
	NotifyPublishCompleted(ctx context.Context, projectName string) error
	NotifyPublishFailed(ctx context.Context, projectName, reason string) error
	NotifyLinkCheckCompleted(ctx context.Context, projectName string, total, invalid int) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyPublishStarted(ctx context.Context, projectName string) error {
	projectName = strings.TrimSpace(projectName)
	data := payload{
		title:   "Showrunner - Publishing",
		message: fmt.Sprintf("Started publishing: %s", projectName),
		tags:    []string{"showrunner", "publish", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPublishCompleted(ctx context.Context, projectName string) error {
	projectName = strings.TrimSpace(projectName)
	data := payload{
		title:    "Showrunner - Published",
		message:  fmt.Sprintf("Episode published: %s", projectName),
		tags:     []string{"showrunner", "publish", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPublishFailed(ctx context.Context, projectName, reason string) error {
	projectName = strings.TrimSpace(projectName)
	message := fmt.Sprintf("Publishing failed: %s", projectName)
	if reason = strings.TrimSpace(reason); reason != "" {
		message = fmt.Sprintf("%s\n%s", message, reason)
	}
	data := payload{
		title:    "Showrunner - Publish Failed",
		message:  message,
		tags:     []string{"showrunner", "publish", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyLinkCheckCompleted(ctx context.Context, projectName string, total, invalid int) error {
	projectName = strings.TrimSpace(projectName)
	var message string
	if invalid == 0 {
		message = fmt.Sprintf("All %d links valid: %s", total, projectName)
	} else {
		message = fmt.Sprintf("%d of %d links broken: %s", invalid, total, projectName)
	}
	data := payload{
		title:   "Showrunner - Link Check",
		message: message,
		tags:    []string{"showrunner", "linkcheck", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Showrunner - Test",
		message:  "Notification system test",
		tags:     []string{"showrunner", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyPublishStarted(context.Context, string) error               { return nil }
func (noopService) NotifyPublishCompleted(context.Context, string) error             { return nil }
func (noopService) NotifyPublishFailed(context.Context, string, string) error        { return nil }
func (noopService) NotifyLinkCheckCompleted(context.Context, string, int, int) error { return nil }
func (noopService) TestNotification(context.Context) error                           { return nil }
