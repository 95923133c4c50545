package currency

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var ErrMalformedRates = errors.New("rates must be a JSON object of currency code to rate")

type (
	Rate struct {
		Code  Code
		Value float64
	}

	// RateSet holds the rates of a single base currency in the order the
	// provider returned them.
	RateSet struct {
		Base  Code
		Rates []Rate
	}

	Converted struct {
		Source Code
		Target Code
		Amount decimal.Decimal
		Rate   float64
	}
)

func NewRateSet(base Code, rates map[Code]float64) RateSet {
	set := RateSet{Base: base, Rates: make([]Rate, 0, len(rates))}

	for code, value := range rates {
		set.Rates = append(set.Rates, Rate{Code: code, Value: value})
	}

	return set
}

// Get scans the rates linearly, when a code is present more than once
// the first one wins.
func (s RateSet) Get(target Code) (float64, bool) {
	for _, rate := range s.Rates {
		if rate.Code.Equal(target) {
			return rate.Value, true
		}
	}

	return 0, false
}

func (s RateSet) Len() int {
	return len(s.Rates)
}

func (s RateSet) Map() map[Code]float64 {
	rates := make(map[Code]float64, len(s.Rates))

	for _, rate := range s.Rates {
		code := ParseCode(string(rate.Code))
		if _, ok := rates[code]; !ok {
			rates[code] = rate.Value
		}
	}

	return rates
}

// Sorted returns a copy ordered by code.
func (s RateSet) Sorted() []Rate {
	rates := make([]Rate, len(s.Rates))
	copy(rates, s.Rates)

	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].Code.String() < rates[j].Code.String()
	})

	return rates
}

func (s RateSet) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer

	buffer.WriteByte('{')

	for i, rate := range s.Rates {
		if i > 0 {
			buffer.WriteByte(',')
		}

		key, err := json.Marshal(rate.Code.String())
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(rate.Value)
		if err != nil {
			return nil, fmt.Errorf("rate for %s: %w", rate.Code, err)
		}

		buffer.Write(key)
		buffer.WriteByte(':')
		buffer.Write(value)
	}

	buffer.WriteByte('}')

	return buffer.Bytes(), nil
}

// UnmarshalJSON keeps the order of the object keys, Base is left untouched.
func (s *RateSet) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return err
	}

	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return ErrMalformedRates
	}

	rates := make([]Rate, 0)

	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return err
		}

		key, _ := token.(string)

		var code Code
		if err := code.UnmarshalText([]byte(key)); err != nil {
			return err
		}

		var value float64
		if err := decoder.Decode(&value); err != nil {
			return fmt.Errorf("rate for %s: %w", code, err)
		}

		rates = append(rates, Rate{Code: code, Value: value})
	}

	if _, err := decoder.Token(); err != nil {
		return err
	}

	s.Rates = rates

	return nil
}
