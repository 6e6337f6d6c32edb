package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/coroadoradores/portal/internal/metrics"
)

// envelope is the response shape shared by all three backends. A
// success:false payload may arrive with any HTTP status, including 401,
// so the body is always inspected, never just the status.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// client is the shared transport for the per-concern API wrappers.
type client struct {
	name    string
	baseURL string
	httpc   *http.Client
	log     *zap.Logger
}

func newClient(name, baseURL string, log *zap.Logger) *client {
	return &client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
		httpc: &http.Client{
			Timeout: 25 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// do performs one JSON request and normalizes the result. Every failure
// comes back as *Error with its kind decided from the status and body.
func (c *client) do(ctx context.Context, method, path string, query url.Values, token string, body any) (*envelope, error) {
	defer metrics.ObserveUpstream(ctx, c.name, time.Now())

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindTransport, Message: "failed to encode request body", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn("api request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Status: resp.StatusCode, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &Error{
			Kind:    KindTransport,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("unexpected response (status %d)", resp.StatusCode),
			Err:     err,
		}
	}

	if !env.Success {
		kind := KindServerDeclared
		if resp.StatusCode == http.StatusUnauthorized {
			kind = KindUnauthorized
		}
		message := env.Message
		if message == "" {
			message = fmt.Sprintf("request failed (status %d)", resp.StatusCode)
		}
		return nil, &Error{
			Kind:    kind,
			Code:    classify(env.Message),
			Status:  resp.StatusCode,
			Message: message,
		}
	}

	return &env, nil
}
