package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"herbal-store-client/internal/logger"
	"herbal-store-client/internal/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const genericTransportMessage = "network error, please try again"

func init() {
	// The backend expects JSON numbers for money fields, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Rate Limit Tiers (client-side self-throttle, mirroring what the backend
// enforces so the storefront never trips the server limiter).
const (
	// Payment endpoints (Strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// Everything else (General)
	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

type Tier int

const (
	TierGeneral Tier = iota
	TierStrict
)

// TokenSource supplies the current bearer token; an empty string sends the
// request unauthenticated.
type TokenSource func() string

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	general    *rate.Limiter
	strict     *rate.Limiter
	stats      *metrics.API
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		logger.L().Warn("API base URL is empty")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		general: rate.NewLimiter(limitGeneral, burstGeneral),
		strict:  rate.NewLimiter(limitStrict, burstStrict),
		stats:   &metrics.API{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stats returns a snapshot of the adapter's traffic counters.
func (c *Client) Stats() metrics.Snapshot {
	return c.stats.Snapshot()
}

// envelope is the backend's `{data, message}` response convention.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Do issues a JSON request and decodes the response into out (may be nil).
// The envelope's `data` field is unwrapped when present; endpoints that
// reply with a bare object (payment key, verification result) decode as-is.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, tier Tier) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out, tier)
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, TierGeneral)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out, TierGeneral)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out, TierGeneral)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out, TierGeneral)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out, TierGeneral)
}

// Upload sends a single file as multipart/form-data (admin image upload).
func (c *Client) Upload(ctx context.Context, path, field, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req, out, TierGeneral)
}

func (c *Client) limiter(tier Tier) *rate.Limiter {
	if tier == TierStrict {
		return c.strict
	}
	return c.general
}

func (c *Client) send(req *http.Request, out any, tier Tier) error {
	reqID := uuid.New().String()
	ctx := logger.WithRequestID(req.Context(), reqID)
	req = req.WithContext(ctx)
	req.Header.Set("X-Request-ID", reqID)

	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	log := logger.FromCtx(ctx).With(
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
	)

	if err := c.limiter(tier).Wait(ctx); err != nil {
		return &Error{Transport: true, Message: genericTransportMessage}
	}

	c.stats.Requests.Inc()
	timer := metrics.StartTimer()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.stats.TransportErrors.Inc()
		log.Error("request failed", zap.Error(err))
		return &Error{Transport: true, Message: genericTransportMessage}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		c.stats.TransportErrors.Inc()
		log.Error("failed to read response body", zap.Error(err))
		return &Error{Transport: true, Message: genericTransportMessage}
	}

	log.Debug("request finished",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", timer.Duration()),
	)

	var env envelope
	if len(bodyBytes) > 0 {
		// Tolerate non-envelope bodies; env stays zero and the raw
		// bytes are decoded below.
		_ = json.Unmarshal(bodyBytes, &env)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.stats.Rejections.Inc()
		msg := env.Message
		if msg == "" {
			msg = "request failed with status " + strconv.Itoa(resp.StatusCode)
		}
		log.Warn("server rejected request",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}

	raw := env.Data
	if len(raw) == 0 || string(raw) == "null" {
		raw = bodyBytes
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Error("failed decoding response", zap.Error(err))
		return &Error{Transport: true, Message: genericTransportMessage}
	}
	return nil
}
