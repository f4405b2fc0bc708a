package practicum

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultTimeout  = 30 * time.Second

	// bodySnippetLimit bounds how much of an error body ends up in logs.
	bodySnippetLimit = 512
	// maxBodySize caps the response read; larger bodies fail to decode.
	maxBodySize = 4 << 20
)

// Client talks to the Practicum homework statuses API.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

func NewClient(endpoint, token string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// HomeworkStatuses requests every homework update since fromDate (unix
// seconds) and returns the decoded JSON body untouched. Any transport failure,
// non-200 answer or undecodable body is reported as ErrUpstream.
func (c *Client) HomeworkStatuses(ctx context.Context, fromDate int64) (any, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, newError(KindUpstream, "invalid endpoint", err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, newError(KindUpstream, "can't create request", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	slog.Debug("requesting homework statuses", slog.Int64("from_date", fromDate))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(KindUpstream, "request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, newError(KindUpstream, "can't read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newError(KindUpstream,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, snippet(data)), nil)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, newError(KindUpstream, "can't decode response body", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after JSON value")
		}
		return nil, newError(KindUpstream, "can't decode response body", err)
	}

	return body, nil
}

func snippet(data []byte) string {
	if len(data) > bodySnippetLimit {
		return string(data[:bodySnippetLimit]) + "..."
	}
	return string(data)
}
