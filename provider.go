package currency

import (
	"fmt"
	"strings"
)

type Provider string

const (
	FreeCurrencyAPIProvider Provider = "FreeCurrencyAPI"
	EmptyProvider           Provider = ""
)

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(str) {
	case "freecurrencyapi", "":
		return FreeCurrencyAPIProvider, nil
	}

	return EmptyProvider, fmt.Errorf("value %s is not valid Provider", str)
}
