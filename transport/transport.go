package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const DefaultTimeout = 10 * time.Second

var (
	ErrNetwork      = errors.New("network error")
	ErrUnauthorized = errors.New("unauthorized, API key is invalid")
	ErrRateLimited  = errors.New("rate limit reached")
	ErrValidation   = errors.New("request validation failed")
	ErrUnexpected   = errors.New("unexpected response")
)

type (
	// Client performs a single GET and returns the body of a 200 response.
	Client interface {
		Get(ctx context.Context, url string) (string, error)
	}

	// Error is returned by Client for every failed request, Kind is one of
	// the Err* sentinels above.
	Error struct {
		Kind       error
		StatusCode int
		Body       string
		Err        error
	}

	HTTPClient struct {
		client *http.Client
	}
)

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: HTTP status code %d", e.Kind, e.StatusCode)
	}

	return e.Kind.Error()
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DialContext = (&net.Dialer{Timeout: timeout}).DialContext
	tr.TLSHandshakeTimeout = timeout

	return &HTTPClient{
		client: &http.Client{
			Transport: tr,
			Timeout:   timeout,
		},
	}
}

func (c *HTTPClient) Get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &Error{Kind: ErrUnexpected, Err: err}
	}

	req.Header.Add("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", &Error{Kind: ErrNetwork, Err: err}
	}

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &Error{Kind: ErrNetwork, StatusCode: res.StatusCode, Err: err}
	}

	switch res.StatusCode {
	case http.StatusOK:
		return string(body), nil
	case http.StatusUnauthorized:
		return "", &Error{Kind: ErrUnauthorized, StatusCode: res.StatusCode}
	case http.StatusTooManyRequests:
		return "", &Error{Kind: ErrRateLimited, StatusCode: res.StatusCode}
	case http.StatusUnprocessableEntity:
		return "", &Error{Kind: ErrValidation, StatusCode: res.StatusCode, Body: string(body)}
	}

	return "", &Error{Kind: ErrUnexpected, StatusCode: res.StatusCode, Body: string(body)}
}
