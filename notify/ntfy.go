package notify

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"homework-bot/model"
)

const (
	DefaultNtfyServer = "https://ntfy.sh"

	ntfyTitle           = "Practicum"
	ntfyDefaultPriority = 3
	ntfyWarnPriority    = 4
	ntfyWarnTag         = "warning"
)

// Ntfy publishes messages to an ntfy.sh (or self-hosted) topic.
type Ntfy struct {
	server string
	token  string
	topic  string
	client *http.Client
}

func NewNtfy(server, topic, token string, timeout time.Duration) *Ntfy {
	if server == "" {
		server = DefaultNtfyServer
	}
	return &Ntfy{
		server: strings.TrimRight(server, "/"),
		token:  token,
		topic:  topic,
		client: &http.Client{Timeout: timeout},
	}
}

func (n *Ntfy) Notify(ctx context.Context, message string) {
	n.send(ctx, &model.Notification{
		Topic:   n.topic,
		Title:   ntfyTitle,
		Message: message,
	})
}

// Warn publishes message with raised priority and a warning tag.
func (n *Ntfy) Warn(ctx context.Context, message string) {
	n.send(ctx, &model.Notification{
		Topic:    n.topic,
		Title:    ntfyTitle,
		Tags:     []string{ntfyWarnTag},
		Message:  message,
		Priority: ntfyWarnPriority,
	})
}

func (n *Ntfy) send(ctx context.Context, ntf *model.Notification) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.server+"/"+ntf.Topic, strings.NewReader(ntf.Message))
	if err != nil {
		slog.Error("can't create request to NTFY", slog.String("error", err.Error()))
		return
	}

	req.Header.Set("Content-Type", "text/plain")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}
	if ntf.Title != "" {
		req.Header.Set("Title", ntf.Title)
	}
	if len(ntf.Tags) > 0 {
		req.Header.Set("Tags", strings.Join(ntf.Tags, ","))
	}
	if ntf.Priority != 0 {
		req.Header.Set("Priority", strconv.Itoa(ntf.Priority))
	} else {
		req.Header.Set("Priority", strconv.Itoa(ntfyDefaultPriority))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		slog.Error("can't send request to NTFY", slog.String("error", err.Error()))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		slog.Error("NTFY error response", slog.String("status", resp.Status),
			slog.String("body", string(bodyBytes)))
		return
	}

	slog.Info("notification sent to NTFY", slog.String("topic", ntf.Topic))
}
