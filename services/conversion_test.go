package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
)

func TestConversionService_Convert(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	ctx := context.Background()

	t.Run("SuccessfulConversion", func(t *testing.T) {
		rates := &MockService{}
		rates.On("GetRate", ctx, currency.Code("usd"), currency.Code("pln")).Return(4.001, nil)

		service := ConversionService{Rates: rates}
		converted, err := service.Convert(ctx, "usd", "pln", decimal.NewFromInt(10))

		asserts.Nil(err)
		asserts.Equal("40.01", converted.Amount.String())
		asserts.Equal(4.001, converted.Rate)
		asserts.Equal(currency.Code("USD"), converted.Source)
		asserts.Equal(currency.Code("PLN"), converted.Target)
	})

	t.Run("FractionalAmount", func(t *testing.T) {
		rates := &MockService{}
		rates.On("GetRate", ctx, currency.Code("EUR"), currency.Code("USD")).Return(1.2564421, nil)

		converted, err := ConversionService{Rates: rates}.Convert(ctx, "EUR", "USD", decimal.RequireFromString("1.531454"))

		asserts.Nil(err)
		asserts.True(decimal.RequireFromString("1.9241832798134").Equal(converted.Amount))
	})

	t.Run("RateError", func(t *testing.T) {
		rates := &MockService{}
		rates.On("GetRate", ctx, currency.Code("USD"), currency.Code("XXX")).Return(0.0, currency.ErrInvalidTargetCurrency)

		_, err := ConversionService{Rates: rates}.Convert(ctx, "USD", "XXX", decimal.NewFromInt(1))

		asserts.True(errors.Is(err, currency.ErrInvalidTargetCurrency))
	})

	t.Run("NoRateService", func(t *testing.T) {
		_, err := ConversionService{}.Convert(ctx, "USD", "PLN", decimal.NewFromInt(1))

		asserts.True(errors.Is(err, ErrNoRateService))
	})
}

func TestConversionService_List(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	ctx := context.Background()
	set := currency.NewRateSet("USD", map[currency.Code]float64{"PLN": 4.1, "EUR": 0.9})

	rates := &MockService{}
	rates.On("GetRates", ctx, currency.Code("USD")).Return(set, nil)

	result, err := ConversionService{Rates: rates}.List(ctx, "USD")

	asserts.Nil(err)
	asserts.Equal(set, result)

	_, err = ConversionService{}.List(ctx, "USD")
	asserts.True(errors.Is(err, ErrNoRateService))
}
