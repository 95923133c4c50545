package fetchers

import (
	"time"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/transport"
)

type (
	BaseConfig struct {
		URL     string
		Timeout time.Duration
		Client  transport.Client
	}
	FreeCurrencyAPIConfig struct {
		BaseConfig
		APIKey string
	}
)

func NewRateService(provider currency.Provider, config interface{}) (currency.RateService, error) {
	switch provider {
	case currency.FreeCurrencyAPIProvider:
		c, ok := config.(FreeCurrencyAPIConfig)
		if !ok {
			return nil, ErrInvalidConfig
		}

		if c.APIKey == "" {
			return nil, ErrAPIKeyMissing
		}

		url := c.URL
		if url == "" {
			url = FreeCurrencyAPIURL
		}

		client := c.Client
		if client == nil {
			client = transport.NewHTTPClient(c.Timeout)
		}

		return FreeCurrencyAPIFetcher{
			URL:    url,
			APIKey: c.APIKey,
			Client: client,
		}, nil
	}

	return nil, ErrProviderNotFound
}
