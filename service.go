package currency

import (
	"context"

	"github.com/shopspring/decimal"
)

type (
	// RateService is implemented by the provider adapters and by every
	// decorator wrapping them.
	RateService interface {
		GetRate(ctx context.Context, source, target Code) (float64, error)
		GetRates(ctx context.Context, source Code) (RateSet, error)
	}

	Conversion interface {
		Convert(ctx context.Context, source, target Code, amount decimal.Decimal) (Converted, error)
		List(ctx context.Context, source Code) (RateSet, error)
	}
)
