package line

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/easeaico/her-line/internal/utils"
)

const (
	// DefaultEndpoint is the messaging API base URL.
	DefaultEndpoint = "https://api.line.me"

	// MaxTextRunes is the platform limit for one text message.
	MaxTextRunes = 5000

	maxErrorBody = 4 << 10
)

// DeliveryError reports a non-2xx answer from the reply API.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("reply api returned status %d: %s", e.StatusCode, e.Body)
}

// Client sends replies through the messaging API SDK.
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint overrides the messaging API base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient creates a reply client authenticated with accessToken. The
// endpoint is checked here so a bad URL fails at boot.
func NewClient(accessToken string, opts ...Option) (*Client, error) {
	c := &Client{
		endpoint:    DefaultEndpoint,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if u, err := url.Parse(c.endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid messaging api endpoint %q", c.endpoint)
	}
	if _, err := c.api(); err != nil {
		return nil, err
	}
	return c, nil
}

// api builds a fresh SDK client per call: WithContext mutates the SDK
// client, so one shared instance cannot serve concurrent replies.
func (c *Client) api() (*messaging_api.MessagingApiAPI, error) {
	api, err := messaging_api.NewMessagingApiAPI(c.accessToken,
		messaging_api.WithEndpoint(c.endpoint),
		messaging_api.WithHTTPClient(c.httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging api client: %w", err)
	}
	return api, nil
}

// Reply sends text as a single text message answering replyToken. Text
// beyond MaxTextRunes is cut on a grapheme boundary.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	if replyToken == "" {
		return errors.New("reply token is required")
	}

	api, err := c.api()
	if err != nil {
		return err
	}

	resp, _, err := api.WithContext(ctx).ReplyMessageWithHttpInfo(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: utils.Truncate(text, MaxTextRunes)},
		},
	})
	if resp != nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return deliveryError(resp)
	}
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

func deliveryError(resp *http.Response) *DeliveryError {
	deliveryErr := &DeliveryError{StatusCode: resp.StatusCode}
	if resp.Body != nil {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		deliveryErr.Body = strings.TrimSpace(string(body))
	}
	return deliveryErr
}
