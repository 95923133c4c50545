package services

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	currency "github.com/malusev998/currency-converter"
)

type loggingService struct {
	logger log.Logger
	next   currency.RateService
}

func NewLoggingService(logger log.Logger, s currency.RateService) currency.RateService {
	return &loggingService{logger, s}
}

func (s *loggingService) GetRate(ctx context.Context, source, target currency.Code) (rate float64, err error) {
	defer func(begin time.Time) {
		s.leveled(err).Log(
			"method", "get_rate",
			"source", source,
			"target", target,
			"rate", rate,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	return s.next.GetRate(ctx, source, target)
}

func (s *loggingService) GetRates(ctx context.Context, source currency.Code) (rates currency.RateSet, err error) {
	defer func(begin time.Time) {
		s.leveled(err).Log(
			"method", "get_rates",
			"source", source,
			"count", rates.Len(),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	return s.next.GetRates(ctx, source)
}

func (s *loggingService) leveled(err error) log.Logger {
	if err != nil {
		return level.Warn(s.logger)
	}

	return level.Debug(s.logger)
}
