package remotelog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"shorturl-go/pkg/logging"
)

const sendTimeout = 5 * time.Second

// Client ships log events to the external log-collection endpoint. Delivery
// is fire-and-forget: every call returns immediately and transport failures
// are only ever reported to the local logger. A nil *Client is valid and
// drops everything, which is how the service runs when no endpoint is
// configured.
type Client struct {
	url    string
	token  string
	client *http.Client
}

type event struct {
	Stack   string `json:"stack"`
	Level   string `json:"level"`
	Package string `json:"package"`
	Message string `json:"message"`
}

// NewFromConfig builds a client from viper settings, or nil when
// remote_log.url is unset.
func NewFromConfig() *Client {
	url := viper.GetString("remote_log.url")
	if url == "" {
		return nil
	}
	return &Client{
		url:    url,
		token:  viper.GetString("remote_log.token"),
		client: &http.Client{Timeout: sendTimeout},
	}
}

// Log emits one event asynchronously. Never blocks, never fails the caller.
func (c *Client) Log(stack, level, pkg, message string) {
	if c == nil {
		return
	}
	go c.send(event{Stack: stack, Level: level, Package: pkg, Message: message})
}

func (c *Client) send(e event) {
	body, err := json.Marshal(e)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		logging.Logger.Warn("Remote log request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logging.Logger.Warn("Remote log delivery failed",
			zap.String("url", c.url),
			zap.Error(err))
		return
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Logger.Warn("Remote log response close failed", zap.Error(err))
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		logging.Logger.Warn("Remote log endpoint rejected event",
			zap.String("url", c.url),
			zap.Int("status", resp.StatusCode))
	}
}
