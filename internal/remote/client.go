package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const maxResponseBytes = 4 << 20

// Client invokes the remote serverless functions (scrape, parse, score,
// tailor, cover letter). Each call is an opaque request/response; the client
// adds no retry of its own.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logrus.Logger
}

func New(baseURL, apiKey string, timeout time.Duration, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// CallError is a failure reported by a remote function, either as a non-200
// status or as an error payload inside an otherwise-successful response.
type CallError struct {
	Function   string
	StatusCode int
	Message    string
}

func (e *CallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Function, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Function, e.Message)
}

func (c *Client) invoke(ctx context.Context, fn string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", fn, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+fn, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", fn, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", fn, err)
	}

	c.log.Debugf("remote %s: status=%d bytes=%d dur_ms=%d", fn, resp.StatusCode, len(raw), time.Since(start).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(raw))
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return &CallError{Function: fn, StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", fn, err)
		}
	}
	return nil
}

// embeddedError pulls a service-reported {"error": "..."} out of a 200
// response body, which the functions use for well-formed failures.
func embeddedError(fn string, errMsg string) error {
	if strings.TrimSpace(errMsg) == "" {
		return nil
	}
	return &CallError{Function: fn, Message: errMsg}
}
