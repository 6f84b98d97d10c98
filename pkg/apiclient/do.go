package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/reconsole/reconsole/pkg/jsonutil"
)

// detailBody is the FastAPI error envelope. Detail is left as raw JSON
// because validation failures carry a list instead of a string.
type detailBody struct {
	Detail any `json:"detail"`
}

// Do issues a JSON request against path and decodes the response body
// into out. body nil means no request body; out nil discards the
// response body. Path is relative to the configured base URL.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := jsonutil.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.roundTrip(ctx, method, path, contentType, reader, func(resp *http.Response) error {
		if out == nil {
			return nil
		}
		if err := jsonutil.UnmarshalRead(resp.Body, out); err != nil {
			return fmt.Errorf("apiclient: decode response: %w", err)
		}
		return nil
	})
}

// DoForm issues a form-encoded request (the token endpoint is OAuth2
// password flow and only accepts application/x-www-form-urlencoded).
func (c *Client) DoForm(ctx context.Context, method, path string, form url.Values, out any) error {
	return c.roundTrip(ctx, method, path, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()), func(resp *http.Response) error {
			if out == nil {
				return nil
			}
			if err := jsonutil.UnmarshalRead(resp.Body, out); err != nil {
				return fmt.Errorf("apiclient: decode response: %w", err)
			}
			return nil
		})
}

// Download streams a binary response body (report PDFs) into w and
// returns the number of bytes copied.
func (c *Client) Download(ctx context.Context, path string, w io.Writer) (int64, error) {
	var n int64
	err := c.roundTrip(ctx, http.MethodGet, path, "", nil, func(resp *http.Response) error {
		var copyErr error
		n, copyErr = io.Copy(w, resp.Body)
		return copyErr
	})
	return n, err
}

// roundTrip is the single choke point for every outbound request:
// rate limiting, bearer injection, error mapping, and the 401 handler
// all live here.
func (c *Client) roundTrip(ctx context.Context, method, path, contentType string, body io.Reader, onSuccess func(*http.Response) error) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, "network_error")
		c.logger.Debug("request failed before response",
			"method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for reuse
		resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		c.observe(method, "auth_reject")
		c.logger.Warn("authentication rejected", "method", method, "path", path)
		// Clear local session first, then propagate the original
		// failure so the caller's error handling still runs.
		if c.onAuthReject != nil {
			c.onAuthReject()
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
			err:        ErrUnauthorized,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(method, "http_error")
		return &APIError{
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	c.observe(method, "ok")
	return onSuccess(resp)
}

func (c *Client) observe(method, outcome string) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, outcome)
	}
}

// readDetail extracts the FastAPI {"detail": ...} message from an error
// body. Non-string details (validation error lists) are re-encoded so
// something readable still surfaces. Unparseable bodies yield "".
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var envelope detailBody
	if err := jsonutil.Unmarshal(data, &envelope); err != nil || envelope.Detail == nil {
		return ""
	}
	if s, ok := envelope.Detail.(string); ok {
		return s
	}
	encoded, err := jsonutil.Marshal(envelope.Detail)
	if err != nil {
		return ""
	}
	return string(encoded)
}
