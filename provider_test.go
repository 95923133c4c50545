package currency_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
)

func TestConvertToProviderFromString(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	values := []struct {
		value    string
		expected interface{}
		err      error
	}{
		{"freecurrencyapi", currency.FreeCurrencyAPIProvider, nil},
		{"FreeCurrencyAPI", currency.FreeCurrencyAPIProvider, nil},
		{"", currency.FreeCurrencyAPIProvider, nil},
		{"not-valid-value", currency.EmptyProvider, errors.New("value not-valid-value is not valid Provider")},
	}

	for _, value := range values {
		provider, err := currency.ConvertToProviderFromString(value.value)
		assert.Equal(value.expected, provider)
		assert.Equal(value.err, err)
	}
}
