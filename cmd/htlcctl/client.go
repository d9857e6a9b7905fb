package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const callerHeader = "X-Account-Address"

type client struct {
	baseURL    string
	caller     string
	httpClient *retryablehttp.Client
}

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s, http %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("%s (http %d)", e.Message, e.Status)
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newClient(baseURL, caller string) *client {
	c := retryablehttp.NewClient()
	c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	c.Backoff = retryablehttp.LinearJitterBackoff
	c.RetryMax = 3
	c.Logger = nil
	c.CheckRetry = checkRetry

	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		caller:     caller,
		httpClient: c,
	}
}

// checkRetry only retries when no response arrived; a reply of any status
// means the server already ran the operation or refused it.
func checkRetry(ctx context.Context, res *http.Response, err error) (bool, error) {
	doRetry, err := retryablehttp.ErrorPropagatedRetryPolicy(ctx, res, err)
	if doRetry && res != nil {
		return false, nil
	}
	return doRetry, err
}

// call sends body as JSON and decodes the envelope's data into out.
func (c *client) call(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, reader)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.caller != "" {
		req.Header.Set(callerHeader, c.caller)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{Status: res.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if res.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: res.StatusCode, Message: env.Message}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return errors.Wrap(json.Unmarshal(env.Data, out), "decode response")
}
