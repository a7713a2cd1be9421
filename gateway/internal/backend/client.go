package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Astemirdum/bandcoord/gateway/config"
	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/pkg/circuit_breaker"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	Bearer              = "Bearer "
)

type tokenKey struct{}

// WithToken stores the bearer token used for calls made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client is the single configured request client every page depends on.
// It never retries and has no response interceptor.
type Client struct {
	log     *zap.Logger
	client  *http.Client
	baseURL string
	token   string
	metrics *Metrics

	mu       sync.Mutex
	breakers map[string]circuit_breaker.CircuitBreaker
	cbCfg    circuit_breaker.Config
}

type Option func(c *Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithBreakerConfig replaces the per-resource breaker settings. Only
// network errors count as failures unless cfg.IsFailure says otherwise.
func WithBreakerConfig(cfg circuit_breaker.Config) Option {
	return func(c *Client) { c.cbCfg = cfg }
}

func NewClient(log *zap.Logger, cfg config.Backend, opts ...Option) *Client {
	c := &Client{
		log:      log.Named("backend"),
		client:   &http.Client{Timeout: cfg.Timeout},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.Token,
		breakers: make(map[string]circuit_breaker.CircuitBreaker),
		cbCfg:    circuit_breaker.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cbCfg.IsFailure == nil {
		c.cbCfg.IsFailure = errs.IsNetwork
	}
	return c
}

func (c *Client) breaker(resource string) circuit_breaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()
	cb, ok := c.breakers[resource]
	if !ok {
		cb = circuit_breaker.New(c.cbCfg)
		c.breakers[resource] = cb
	}
	return cb
}

// BreakerStates reports the breaker state per backend resource.
func (c *Client) BreakerStates() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.breakers))
	for name, cb := range c.breakers {
		out[name] = cb.State().String()
	}
	return out
}

func resourceOf(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return p
}

// do sends one JSON request and returns the raw response body.
func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	resource := resourceOf(path)
	url := c.baseURL + path

	var body io.Reader = http.NoBody
	if in != nil {
		b := bytes.NewBuffer(nil)
		if err := json.NewEncoder(b).Encode(in); err != nil {
			return nil, errors.Wrap(err, "encode request")
		}
		body = b
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	token := TokenFrom(ctx)
	if token == "" {
		token = c.token
	}
	if token != "" {
		req.Header.Set(AuthorizationHeader, Bearer+token)
	}

	var data []byte
	start := time.Now()
	err = c.breaker(resource).Call(func() error {
		resp, err := c.client.Do(req)
		if err != nil {
			return &errs.NetworkError{Method: method, URL: url, Err: err}
		}
		defer resp.Body.Close()

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return &errs.NetworkError{Method: method, URL: url, Err: err}
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return &errs.ServerError{
				Method:  method,
				URL:     url,
				Status:  resp.StatusCode,
				Message: errorMessage(data),
				Body:    string(data),
			}
		}
		return nil
	})
	if errors.Is(err, circuit_breaker.ErrOpen) {
		err = &errs.NetworkError{Method: method, URL: url, Err: err}
	}
	c.metrics.observe(method, resource, err, time.Since(start))
	if err != nil {
		c.log.Debug("backend call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, err
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeOne(data, out)
}

func (c *Client) list(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeList(data, resourceOf(path), out)
}

func (c *Client) send(ctx context.Context, method, path string, in, out any) error {
	data, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeOne(data, out)
}

func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
