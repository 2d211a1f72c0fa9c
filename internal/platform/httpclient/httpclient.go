package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"paw-connect/internal/platform/metrics"
)

const (
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20
)

// Client habla JSON con un servicio externo fijo (hoy la Admin API de Keycloak).
// Cada llamada queda registrada en metrics con el nombre del upstream.
type Client struct {
	hc       *http.Client
	base     string
	upstream string
}

// New arma el cliente sobre hc. Con el *http.Client de oauth2 el token viaja en el
// transport y acá no se toca Authorization.
func New(hc *http.Client, upstream, baseURL string, timeout time.Duration) (*Client, error) {
	if hc == nil {
		hc = &http.Client{}
	}
	if hc.Timeout <= 0 {
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc.Timeout = timeout
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.ParseRequestURI(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("httpclient: invalid base url %q", baseURL)
	}
	if upstream = strings.TrimSpace(upstream); upstream == "" {
		upstream = u.Host
	}
	return &Client{hc: hc, base: baseURL, upstream: upstream}, nil
}

// StatusError es una respuesta no-2xx del upstream.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream responded %d", e.Code)
	}
	return fmt.Sprintf("upstream responded %d: %s", e.Code, e.Body)
}

// Temporary: 408, 429 y 5xx pueden resolverse reintentando.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusRequestTimeout || e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// AsStatus devuelve el *StatusError envuelto en err, si lo hay.
func AsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	ok := errors.As(err, &se)
	return se, ok
}

// GetJSON hace GET path y decodifica la respuesta en out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// PutJSON manda in como JSON; el cuerpo de la respuesta se descarta.
func (c *Client) PutJSON(ctx context.Context, path string, in any) error {
	return c.do(ctx, http.MethodPut, path, in, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+"/"+strings.TrimLeft(path, "/"), body)
	if err != nil {
		return fmt.Errorf("httpclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.ObserveUpstream(c.upstream, method, "error", time.Since(start))
		return fmt.Errorf("httpclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(c.upstream, method, strconv.Itoa(resp.StatusCode), time.Since(start))

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: decode response: %w", err)
	}
	return nil
}
