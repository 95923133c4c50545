package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	currency "github.com/malusev998/currency-converter"
)

var ErrNoRateService = errors.New("no rate service provided")

type ConversionService struct {
	Rates currency.RateService
}

func (c ConversionService) Convert(ctx context.Context, source, target currency.Code, amount decimal.Decimal) (currency.Converted, error) {
	if c.Rates == nil {
		return currency.Converted{}, ErrNoRateService
	}

	rate, err := c.Rates.GetRate(ctx, source, target)
	if err != nil {
		return currency.Converted{}, err
	}

	return currency.Converted{
		Source: currency.ParseCode(string(source)),
		Target: currency.ParseCode(string(target)),
		Amount: convert(amount, rate),
		Rate:   rate,
	}, nil
}

func (c ConversionService) List(ctx context.Context, source currency.Code) (currency.RateSet, error) {
	if c.Rates == nil {
		return currency.RateSet{}, ErrNoRateService
	}

	return c.Rates.GetRates(ctx, source)
}

func convert(value decimal.Decimal, rate float64) decimal.Decimal {
	return value.Mul(decimal.NewFromFloat(rate))
}
