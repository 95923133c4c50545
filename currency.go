package currency

import (
	"strings"
)

// Code is a currency identifier such as "USD".
// Codes are compared without regard to case, their canonical form is upper-case.
type Code string

// ParseCode accepts any string, validation is left to the remote provider.
func ParseCode(value string) Code {
	return Code(strings.ToUpper(value))
}

func ParseCodes(values []string) []Code {
	codes := make([]Code, 0, len(values))

	for _, value := range values {
		codes = append(codes, ParseCode(value))
	}

	return codes
}

func (c Code) String() string {
	return strings.ToUpper(string(c))
}

func (c Code) Equal(other Code) bool {
	return strings.EqualFold(string(c), string(other))
}

func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Code) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		return ErrInvalidCode
	}

	*c = ParseCode(string(text))

	return nil
}
