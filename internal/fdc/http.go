package fdc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrMissingAPIKey is returned for every call made without a configured key.
var ErrMissingAPIKey = errors.New("fdc: api key not configured")

// StatusError is a non-2xx response from FDC.
type StatusError struct {
	StatusCode int
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fdc: %s returned status %d", e.Path, e.StatusCode)
}

// ServerFault reports a 5xx response: the attempt is skipped and the next source tried.
func (e *StatusError) ServerFault() bool {
	return e.StatusCode >= 500
}

// IsNotFound reports whether err is a 404 from FDC.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// getJSON issues a GET for path with params (api_key added) and decodes a 2xx body into out.
// The key is never logged.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	reqID := uuid.New().String()
	start := time.Now()

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.cfg.APIKey)
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("fdc.http.build_request_error", "req_id", reqID, "path", path, "error", err)
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fdc.http.request", "req_id", reqID, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("fdc.http.send_error",
			"req_id", reqID, "path", path, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("fdc: %s: %w", path, err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Warn("fdc.http.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("fdc: read %s: %w", path, err)
	}

	c.logger.Debug("fdc.http.response",
		"req_id", reqID,
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return &StatusError{StatusCode: resp.StatusCode, Path: path}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Warn("fdc.http.decode_error", "req_id", reqID, "path", path, "error", err)
		return fmt.Errorf("fdc: decode %s: %w", path, err)
	}
	return nil
}
