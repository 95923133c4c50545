package transport_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/malusev998/currency-converter/transport"
)

type statusHandler struct {
	status int
	body   string
}

func (h statusHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(h.status)
	_, _ = writer.Write([]byte(h.body))
}

func TestHTTPClient_Get(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	values := []struct {
		name   string
		status int
		body   string
		kind   error
	}{
		{"Unauthorized", http.StatusUnauthorized, `{"message":"Invalid authentication credentials"}`, transport.ErrUnauthorized},
		{"RateLimited", http.StatusTooManyRequests, `{"message":"API rate limit exceeded"}`, transport.ErrRateLimited},
		{"Validation", http.StatusUnprocessableEntity, `{"message":"Validation error","errors":{"base_currency":["invalid"]},"info":""}`, transport.ErrValidation},
		{"ServerError", http.StatusInternalServerError, "oops", transport.ErrUnexpected},
		{"Created", http.StatusCreated, "{}", transport.ErrUnexpected},
	}

	for _, value := range values {
		value := value
		t.Run(value.name, func(t *testing.T) {
			t.Parallel()
			asserts := require.New(t)
			server := httptest.NewServer(statusHandler{status: value.status, body: value.body})
			defer server.Close()

			body, err := transport.NewHTTPClient(time.Second).Get(ctx, server.URL)

			asserts.Empty(body)
			asserts.True(errors.Is(err, value.kind))

			var transportErr *transport.Error
			asserts.True(errors.As(err, &transportErr))
			asserts.Equal(value.status, transportErr.StatusCode)

			if value.kind == transport.ErrValidation {
				asserts.Equal(value.body, transportErr.Body)
			}
		})
	}

	t.Run("Success", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		server := httptest.NewServer(statusHandler{status: http.StatusOK, body: `{"data":{"PLN":4.001}}`})
		defer server.Close()

		body, err := transport.NewHTTPClient(0).Get(ctx, server.URL)

		asserts.Nil(err)
		asserts.Equal(`{"data":{"PLN":4.001}}`, body)
	})

	t.Run("Network", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		server := httptest.NewServer(statusHandler{status: http.StatusOK})
		url := server.URL
		server.Close()

		_, err := transport.NewHTTPClient(time.Second).Get(ctx, url)

		asserts.True(errors.Is(err, transport.ErrNetwork))
	})
}
