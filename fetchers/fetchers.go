package fetchers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/transport"
)

const (
	FreeCurrencyAPIURL = "https://api.freecurrencyapi.com/v1/latest"
)

type (
	ratesResponse struct {
		Data *currency.RateSet `json:"data"`
	}

	// https://freecurrencyapi.com/docs/status-codes#validation-errors
	validationErrorResponse struct {
		Message string `json:"message"`
		Errors  struct {
			BaseCurrency []string `json:"base_currency"`
			Currencies   []string `json:"currencies"`
		} `json:"errors"`
		Info string `json:"info"`
	}
)

var (
	ErrAPIKeyMissing    = errors.New("you have to provide API key")
	ErrProviderNotFound = errors.New("rate provider is not found")
	ErrInvalidConfig    = errors.New("invalid configuration for rate provider")
)

func buildURL(base, apiKey string, source currency.Code, targets []currency.Code) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("apikey", apiKey)
	q.Set("base_currency", source.String())

	if len(targets) > 0 {
		var builder strings.Builder

		for _, c := range targets {
			builder.WriteString(c.String())
			builder.WriteRune(',')
		}

		q.Set("currencies", strings.TrimRight(builder.String(), ","))
	}

	u.RawQuery = q.Encode()

	return u.String(), nil
}

func parseRates(source currency.Code, body string) (currency.RateSet, error) {
	res := ratesResponse{}

	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return currency.RateSet{}, currency.Unavailable("malformed response: "+err.Error(), err)
	}

	if res.Data == nil {
		return currency.RateSet{}, currency.Unavailable("response has no data", nil)
	}

	for _, rate := range res.Data.Rates {
		if rate.Value <= 0 || math.IsInf(rate.Value, 0) || math.IsNaN(rate.Value) {
			return currency.RateSet{}, currency.Unavailable(fmt.Sprintf("invalid rate %v for %s", rate.Value, rate.Code), nil)
		}
	}

	res.Data.Base = currency.ParseCode(string(source))

	return *res.Data, nil
}

// classify turns a transport failure into a domain error, the transport
// error itself is never returned to the caller.
func classify(source currency.Code, targets []currency.Code, err error) error {
	var transportErr *transport.Error

	if !errors.As(err, &transportErr) || !errors.Is(err, transport.ErrValidation) {
		return currency.Unavailable(err.Error(), nil)
	}

	errorRes := validationErrorResponse{}

	if jsonErr := json.Unmarshal([]byte(transportErr.Body), &errorRes); jsonErr != nil {
		return currency.Unavailable(transportErr.Body, nil)
	}

	if len(errorRes.Errors.BaseCurrency) > 0 {
		return fmt.Errorf("%w: %s", currency.ErrInvalidSourceCurrency, source)
	}

	if len(errorRes.Errors.Currencies) > 0 {
		return fmt.Errorf("%w: %s", currency.ErrInvalidTargetCurrency, joinCodes(targets))
	}

	return currency.Unavailable(transportErr.Body, nil)
}

func joinCodes(codes []currency.Code) string {
	values := make([]string, 0, len(codes))

	for _, c := range codes {
		values = append(values, c.String())
	}

	return strings.Join(values, ",")
}
