// Package client implements the rate-limited request coordinator for the
// pixel API: every request waits for quota, is classified by status code,
// and feeds its response headers back into the rate limiter.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pixlens/pixlens/internal/core"
	"github.com/pixlens/pixlens/internal/core/engine"
)

// Endpoint names of the pixel API. Each carries its own rate limit bucket.
const (
	EndpointGetSize   = "get_size"
	EndpointGetPixels = "get_pixels"
	EndpointGetPixel  = "get_pixel"
	EndpointSetPixel  = "set_pixel"
	EndpointSwapPixel = "swap_pixel"
)

// Ordering controls when the coordinator pauses for rate limits relative to
// sending the request.
type Ordering int

const (
	// WaitBefore pauses before sending. Used for reads: a reader wants the
	// freshest data once it has decided to read.
	WaitBefore Ordering = iota
	// WaitAfter sends first and pauses before returning. Used for writes:
	// quota is consumed by real requests first, and the caller can issue the
	// next write as soon as legally possible.
	WaitAfter
)

// DefaultBaseURL is the public pixel API.
const DefaultBaseURL = "https://pixels.pythondiscord.com/"

const defaultUserAgent = "pixlens (Go/net-http)"

// Client coordinates authenticated requests to the pixel API.
type Client struct {
	BaseURL    string
	Token      string
	UserAgent  string
	HTTPClient *http.Client
	Limiter    *engine.RateLimiter
	Logger     *logging.Logger

	sizeMu sync.Mutex
	size   *canvasSize // cached after first successful get_size
}

type canvasSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type messageBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Send makes a call to an endpoint, respecting its rate limit. A 429
// response is always transient: the coordinator refreshes limiter state from
// it and retries the same request after the now-updated wait; nothing else
// triggers a retry. The returned bytes are the raw response body.
func (c *Client) Send(ctx context.Context, method, endpoint string, payload any, query url.Values, ordering Ordering) ([]byte, error) {
	limiter := c.limiter()

	for attempt := 0; ; attempt++ {
		if ordering == WaitBefore || attempt > 0 {
			if err := limiter.Wait(ctx, endpoint); err != nil {
				return nil, err
			}
		}

		body, headers, status, err := c.do(ctx, method, endpoint, payload, query)
		if err != nil {
			return nil, err
		}

		if status == http.StatusTooManyRequests {
			limiter.Update(ctx, endpoint, headers)
			continue
		}
		if status >= 500 {
			return nil, &core.ServerError{StatusCode: status}
		}
		if status >= 400 {
			return nil, requestError(method, status, body)
		}

		limiter.Update(ctx, endpoint, headers)

		if ordering == WaitAfter {
			if err := limiter.Wait(ctx, endpoint); err != nil {
				return nil, err
			}
		}
		return body, nil
	}
}

// Probe issues a HEAD request so the limiter can learn an endpoint's rate
// limit status without spending quota. A 405 answer is an expected probe
// outcome, not a failure: its headers still classify the endpoint.
func (c *Client) Probe(ctx context.Context, endpoint string) error {
	_, headers, status, err := c.do(ctx, http.MethodHead, endpoint, nil, nil)
	if err != nil {
		return err
	}

	if status < 400 || status == http.StatusMethodNotAllowed {
		c.limiter().Update(ctx, endpoint, headers)
		return nil
	}
	if status >= 500 {
		return &core.ServerError{StatusCode: status}
	}
	return requestError(http.MethodHead, status, nil)
}

// CanvasSize fetches the canvas dimensions, cached after the first success
// since the server's dimensions are constant for the process lifetime.
func (c *Client) CanvasSize(ctx context.Context) (width, height int, err error) {
	c.sizeMu.Lock()
	defer c.sizeMu.Unlock()

	if c.size == nil {
		body, err := c.Send(ctx, http.MethodGet, EndpointGetSize, nil, nil, WaitBefore)
		if err != nil {
			return 0, 0, err
		}
		var size canvasSize
		if err := json.Unmarshal(body, &size); err != nil {
			return 0, 0, fmt.Errorf("decode %s response: %w", EndpointGetSize, err)
		}
		c.size = &size
	}
	return c.size.Width, c.size.Height, nil
}

// Canvas fetches the full canvas as an immutable snapshot.
func (c *Client) Canvas(ctx context.Context) (*core.Canvas, error) {
	data, err := c.Send(ctx, http.MethodGet, EndpointGetPixels, nil, nil, WaitBefore)
	if err != nil {
		return nil, err
	}

	width, height, err := c.CanvasSize(ctx)
	if err != nil {
		return nil, err
	}
	return core.NewCanvas(width, height, data)
}

// Pixel fetches a single pixel of the canvas.
func (c *Client) Pixel(ctx context.Context, x, y int) (core.Pixel, error) {
	query := url.Values{}
	query.Set("x", fmt.Sprint(x))
	query.Set("y", fmt.Sprint(y))

	body, err := c.Send(ctx, http.MethodGet, EndpointGetPixel, nil, query, WaitBefore)
	if err != nil {
		return core.Pixel{}, err
	}

	var payload struct {
		RGB string `json:"rgb"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return core.Pixel{}, fmt.Errorf("decode %s response: %w", EndpointGetPixel, err)
	}
	return core.PixelFromHex(payload.RGB)
}

// PutPixel draws one pixel and returns the server's message.
func (c *Client) PutPixel(ctx context.Context, x, y int, colour core.Pixel) (string, error) {
	payload := map[string]any{
		"x":   x,
		"y":   y,
		"rgb": colour.APIValue(),
	}

	body, err := c.Send(ctx, http.MethodPost, EndpointSetPixel, payload, nil, WaitAfter)
	if err != nil {
		return "", err
	}
	return c.message(EndpointSetPixel, body)
}

// SwapPixels swaps two pixels on the canvas and returns the server's message.
func (c *Client) SwapPixels(ctx context.Context, x0, y0, x1, y1 int) (string, error) {
	payload := map[string]any{
		"origin": map[string]int{"x": x0, "y": y0},
		"dest":   map[string]int{"x": x1, "y": y1},
	}

	body, err := c.Send(ctx, http.MethodPost, EndpointSwapPixel, payload, nil, WaitAfter)
	if err != nil {
		return "", err
	}
	return c.message(EndpointSwapPixel, body)
}

// do performs one transport round trip and drains the body. Classification
// is left to the caller.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any, query url.Values) ([]byte, http.Header, int, error) {
	reqURL, err := c.endpointURL(endpoint, query)
	if err != nil {
		return nil, nil, 0, err
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("encode %s payload: %w", endpoint, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, nil, 0, err
	}
	if token := strings.TrimSpace(c.Token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.userAgent())

	requestID := uuid.New().String()
	if c.Logger != nil {
		c.Logger.Debug("Request",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("endpoint", endpoint))
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, nil, 0, err
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, 0, err
	}

	if c.Logger != nil {
		c.Logger.Debug("Response",
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode))
	}
	return body, resp.Header, resp.StatusCode, nil
}

func (c *Client) message(endpoint string, body []byte) (string, error) {
	var msg messageBody
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	if c.Logger != nil {
		c.Logger.Info("Success", zap.String("message", msg.Message))
	}
	return msg.Message, nil
}

func (c *Client) endpointURL(endpoint string, query url.Values) (string, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}

	ref := &url.URL{Path: endpoint}
	full := parsed.ResolveReference(ref)
	if query != nil {
		full.RawQuery = query.Encode()
	}
	return full.String(), nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c *Client) limiter() *engine.RateLimiter {
	if c.Limiter == nil {
		c.Limiter = engine.NewRateLimiter()
	}
	return c.Limiter
}

func (c *Client) userAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return defaultUserAgent
}

// requestError maps a 4xx response to the error taxonomy. HEAD responses
// have no body to pull a message from.
func requestError(method string, status int, body []byte) error {
	detail := "No error message."
	if method == http.MethodHead {
		detail = "No body (HEAD request)."
	} else if len(body) > 0 {
		var msg messageBody
		if err := json.Unmarshal(body, &msg); err == nil {
			switch {
			case msg.Message != "":
				detail = msg.Message
			case msg.Detail != "":
				detail = msg.Detail
			}
		}
	}

	base := core.RequestError{StatusCode: status, Message: detail}
	switch status {
	case http.StatusMethodNotAllowed:
		return &core.MethodNotAllowedError{RequestError: base}
	case http.StatusGone:
		return &core.EndpointDisabledError{RequestError: base}
	default:
		return &base
	}
}
