package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/dwarvesf/htlc-backend/internal/htlc"
	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

const (
	requestTimeout = 10 * time.Second
	publishTimeout = 30 * time.Second
)

// Client calls operator-configured webhooks: uptime pings after background
// jobs and swap events for indexers.
type Client struct {
	httpClient *retryablehttp.Client
	logger     *logger.Logger
}

func New(logger *logger.Logger) *Client {
	c := retryablehttp.NewClient()
	c.HTTPClient = &http.Client{Timeout: requestTimeout}
	c.RetryMax = 3
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.Logger = nil

	return &Client{
		httpClient: c,
		logger:     logger,
	}
}

// CallUptimeWebhook pings webhookURL. An empty url is a no-op.
func (c *Client) CallUptimeWebhook(ctx context.Context, webhookURL string) {
	if webhookURL == "" {
		return
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, webhookURL, nil)
	if err != nil {
		c.logger.Error("[webhook][CallUptimeWebhook] invalid request", map[string]string{
			"url":   webhookURL,
			"error": err.Error(),
		})
		return
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("[webhook][CallUptimeWebhook]", map[string]string{
			"url":   webhookURL,
			"error": err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	c.logger.Debug("[webhook][CallUptimeWebhook] called", map[string]string{
		"url":         webhookURL,
		"status_code": resp.Status,
	})
}

// SwapEvent is the body posted for every committed swap operation.
type SwapEvent struct {
	SwapID     string           `json:"swap_id"`
	Attributes []htlc.Attribute `json:"attributes"`
	Releases   []model.Release  `json:"releases"`
	Timestamp  int64            `json:"timestamp"`
}

// PostSwapEvent delivers one event and reports any non-2xx reply.
func (c *Client) PostSwapEvent(ctx context.Context, webhookURL string, event SwapEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "encode swap event")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create swap event request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "post swap event")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("swap event rejected: %s", resp.Status)
	}
	return nil
}

// EventPublisher posts swap events to a fixed url off the request path.
type EventPublisher struct {
	client *Client
	url    string
	logger *logger.Logger
}

func NewEventPublisher(client *Client, url string, logger *logger.Logger) *EventPublisher {
	return &EventPublisher{client: client, url: url, logger: logger}
}

// PublishSwapEvent returns immediately; delivery failures are logged.
func (p *EventPublisher) PublishSwapEvent(result *htlc.Result) {
	if p.url == "" || result == nil {
		return
	}

	event := SwapEvent{
		SwapID:     result.SwapID,
		Attributes: result.Attributes,
		Releases:   result.Releases,
		Timestamp:  time.Now().Unix(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.client.PostSwapEvent(ctx, p.url, event); err != nil {
			p.logger.Error("[webhook][PublishSwapEvent]", map[string]string{
				"swap_id": event.SwapID,
				"method":  result.Attribute("method"),
				"error":   err.Error(),
			})
		}
	}()
}
