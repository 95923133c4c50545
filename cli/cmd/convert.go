package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	currency "github.com/malusev998/currency-converter"
)

// run converts when source, target and amount are all given and lists
// every rate of the source otherwise.
func run(cmd *cobra.Command, config *Config, opts Options, logger log.Logger, args []string) error {
	var amount decimal.Decimal

	if len(args) == 3 {
		var err error

		if amount, err = decimal.NewFromString(args[2]); err != nil {
			return fmt.Errorf("amount %q is not a number: %w", args[2], err)
		}
	}

	conversion, closer, err := config.Build(cmd.Context(), opts, logger)
	if err != nil {
		return err
	}

	if closer != nil {
		defer func() {
			if err := closer.Close(); err != nil {
				level.Warn(logger).Log("msg", "cannot close cache", "err", err)
			}
		}()
	}

	source := currency.ParseCode(args[0])

	if len(args) == 3 {
		converted, err := conversion.Convert(cmd.Context(), source, currency.ParseCode(args[1]), amount)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", converted.Amount.String(), formatRate(converted.Rate))

		return err
	}

	rates, err := conversion.List(cmd.Context(), source)
	if err != nil {
		return err
	}

	return printRates(cmd.OutOrStdout(), source, rates)
}

func printRates(w io.Writer, source currency.Code, rates currency.RateSet) error {
	if _, err := fmt.Fprintf(w, "Exchange rates for %s\n", source); err != nil {
		return err
	}

	for _, rate := range rates.Sorted() {
		if _, err := fmt.Fprintf(w, "%s = %s\n", rate.Code, formatRate(rate.Value)); err != nil {
			return err
		}
	}

	return nil
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'g', -1, 64)
}
