package caller

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dipdup-io/order-tracker/internal/order"
	"github.com/dipdup-net/go-lib/config"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	maxResponseSize = 1024 * 1024
	maxMessageSize  = 256
)

// StatusResponse -
type StatusResponse struct {
	Status string `json:"status"`
}

// HTTPCaller -
type HTTPCaller struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewHTTPCaller -
func NewHTTPCaller(cfg config.DataSource) (*HTTPCaller, error) {
	if _, err := url.ParseRequestURI(cfg.URL); err != nil {
		return nil, errors.Wrap(err, "order service url")
	}

	timeout := time.Second * 10
	if cfg.Timeout > 0 {
		timeout = time.Second * time.Duration(cfg.Timeout)
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxConnsPerHost = 100
	t.MaxIdleConnsPerHost = 100

	hc := &HTTPCaller{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		client: &http.Client{
			Transport: t,
		},
		timeout: timeout,
	}
	if cfg.RequestsPerSecond > 0 {
		hc.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond))
	}
	return hc, nil
}

// CreateOrder - POST <base>/
func (hc *HTTPCaller) CreateOrder(ctx context.Context, o order.Order) error {
	body, err := json.Marshal(o)
	if err != nil {
		return errors.Wrap(err, "order encoding")
	}

	resp, err := hc.do(ctx, http.MethodPost, hc.baseURL+"/", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newServerError(resp)
	}
	return nil
}

// Status - GET <base>/status/{id}
func (hc *HTTPCaller) Status(ctx context.Context, id string) (string, error) {
	resp, err := hc.do(ctx, http.MethodGet, hc.baseURL+"/status/"+url.PathEscape(id), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newServerError(resp)
	}

	var response StatusResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&response); err != nil {
		return "", errors.Wrap(ErrInvalidResponse, err.Error())
	}
	return response.Status, nil
}

func (hc *HTTPCaller) do(ctx context.Context, method, link string, body []byte) (*http.Response, error) {
	if hc.limiter != nil {
		if err := hc.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(ErrNetwork, err.Error())
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, hc.timeout)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, link, reader)
	if err != nil {
		cancel()
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.client.Do(req)
	if err != nil {
		cancel()
		return nil, errors.Wrap(ErrNetwork, err.Error())
	}
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelBody releases request context when the response body is closed
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}

func newServerError(resp *http.Response) *ServerError {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxMessageSize))
	message := strings.TrimSpace(string(msg))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &ServerError{
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}
