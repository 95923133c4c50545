package services

import (
	"context"
	"encoding/json"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	currency "github.com/malusev998/currency-converter"
)

type (
	CacheMetrics interface {
		Hit(method string)
		Miss(method string)
	}

	// CacheService is a read-through/write-through cache in front of another
	// RateService. A missing, unreadable or undecodable entry is a miss, a
	// failed write is returned as currency.ErrUnavailable.
	CacheService struct {
		Service currency.RateService
		Cache   currency.Cache
		Logger  log.Logger
		Metrics CacheMetrics
	}
)

func NewCacheService(service currency.RateService, cache currency.Cache, logger log.Logger) CacheService {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return CacheService{
		Service: service,
		Cache:   cache,
		Logger:  logger,
	}
}

func rateKey(source, target currency.Code) string {
	return source.String() + "-" + target.String()
}

func ratesKey(source currency.Code) string {
	return source.String()
}

func (s CacheService) GetRate(ctx context.Context, source, target currency.Code) (float64, error) {
	key := rateKey(source, target)

	if cached, ok := s.lookup(ctx, key); ok {
		var rate *float64

		if err := json.Unmarshal([]byte(cached), &rate); err == nil && rate != nil {
			s.hit("get_rate", key)
			return *rate, nil
		}
	}

	s.miss("get_rate", key)

	rate, err := s.Service.GetRate(ctx, source, target)
	if err != nil {
		return 0, err
	}

	value, err := json.Marshal(rate)
	if err != nil {
		return 0, currency.Unavailable("cannot encode rate for cache", err)
	}

	if err := s.store(ctx, key, string(value)); err != nil {
		return 0, err
	}

	return rate, nil
}

func (s CacheService) GetRates(ctx context.Context, source currency.Code) (currency.RateSet, error) {
	key := ratesKey(source)

	if cached, ok := s.lookup(ctx, key); ok {
		var rates *currency.RateSet

		if err := json.Unmarshal([]byte(cached), &rates); err == nil && rates != nil {
			s.hit("get_rates", key)
			rates.Base = currency.ParseCode(string(source))
			return *rates, nil
		}
	}

	s.miss("get_rates", key)

	rates, err := s.Service.GetRates(ctx, source)
	if err != nil {
		return currency.RateSet{}, err
	}

	value, err := json.Marshal(rates)
	if err != nil {
		return currency.RateSet{}, currency.Unavailable("cannot encode rates for cache", err)
	}

	if err := s.store(ctx, key, string(value)); err != nil {
		return currency.RateSet{}, err
	}

	return rates, nil
}

func (s CacheService) lookup(ctx context.Context, key string) (string, bool) {
	value, found, err := s.Cache.Get(ctx, key)
	if err != nil {
		level.Warn(s.logger()).Log("msg", "cache read failed", "key", key, "err", err)
		return "", false
	}

	return value, found
}

func (s CacheService) store(ctx context.Context, key, value string) error {
	if err := s.Cache.Set(ctx, key, value); err != nil {
		return currency.Unavailable("cache write failed: "+err.Error(), err)
	}

	level.Debug(s.logger()).Log("msg", "stored", "key", key)

	return nil
}

func (s CacheService) hit(method, key string) {
	level.Debug(s.logger()).Log("msg", "cache hit", "key", key)

	if s.Metrics != nil {
		s.Metrics.Hit(method)
	}
}

func (s CacheService) miss(method, key string) {
	level.Debug(s.logger()).Log("msg", "cache miss", "key", key)

	if s.Metrics != nil {
		s.Metrics.Miss(method)
	}
}

func (s CacheService) logger() log.Logger {
	if s.Logger == nil {
		return log.NewNopLogger()
	}

	return s.Logger
}
