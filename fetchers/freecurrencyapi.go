package fetchers

import (
	"context"
	"fmt"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/transport"
)

// FreeCurrencyAPIFetcher talks to freecurrencyapi.com, every lookup is
// exactly one request.
type FreeCurrencyAPIFetcher struct {
	URL    string
	APIKey string
	Client transport.Client
}

func (f FreeCurrencyAPIFetcher) GetRate(ctx context.Context, source, target currency.Code) (float64, error) {
	rates, err := f.fetch(ctx, source, target)
	if err != nil {
		return 0, err
	}

	rate, ok := rates.Get(target)
	if !ok {
		return 0, fmt.Errorf("%w: %s is missing in response", currency.ErrInvalidTargetCurrency, target)
	}

	return rate, nil
}

func (f FreeCurrencyAPIFetcher) GetRates(ctx context.Context, source currency.Code) (currency.RateSet, error) {
	return f.fetch(ctx, source)
}

func (f FreeCurrencyAPIFetcher) fetch(ctx context.Context, source currency.Code, targets ...currency.Code) (currency.RateSet, error) {
	baseURL := f.URL

	if baseURL == "" {
		baseURL = FreeCurrencyAPIURL
	}

	requestURL, err := buildURL(baseURL, f.APIKey, source, targets)
	if err != nil {
		return currency.RateSet{}, currency.Unavailable("invalid provider URL", err)
	}

	body, err := f.Client.Get(ctx, requestURL)
	if err != nil {
		return currency.RateSet{}, classify(source, targets, err)
	}

	return parseRates(source, body)
}
