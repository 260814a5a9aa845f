package suggest

import (
	"fmt"
	"strings"

	"tableflip.dev/yourdiary/pkg/gateway"
)

// Option is one of the selectable suggestion length settings.
type Option string

const (
	Option20       Option = "20"
	Option30       Option = "30"
	OptionSentence Option = "sentence"
	OptionCustom   Option = "custom"
)

// Options lists the length settings in display order.
var Options = []Option{Option20, Option30, OptionSentence, OptionCustom}

// Bounds and default of the custom length slider.
const (
	MinCustom     = 10
	MaxCustom     = 100
	DefaultCustom = 50
)

// Label is the human text for an option.
func (o Option) Label() string {
	switch o {
	case Option20:
		return "20 chars"
	case Option30:
		return "30 chars"
	case OptionSentence:
		return "Complete sentence"
	case OptionCustom:
		return "Custom"
	default:
		return string(o)
	}
}

// Next cycles to the following option.
func (o Option) Next() Option {
	for i, candidate := range Options {
		if candidate == o {
			return Options[(i+1)%len(Options)]
		}
	}
	return Options[0]
}

// ParseOption accepts an option name; any other positive integer selects the
// custom option with that value.
func ParseOption(s string) (Option, int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch Option(s) {
	case Option20, Option30, OptionSentence:
		return Option(s), DefaultCustom, nil
	case OptionCustom:
		return OptionCustom, DefaultCustom, nil
	}
	l, err := gateway.ParseMaxLength(s)
	if err != nil {
		return "", 0, err
	}
	if l.Chars < MinCustom || l.Chars > MaxCustom {
		return "", 0, fmt.Errorf("custom length %d out of range %d-%d", l.Chars, MinCustom, MaxCustom)
	}
	return OptionCustom, l.Chars, nil
}

// LengthFor resolves the wire length for an option and custom value.
func LengthFor(o Option, custom int) gateway.MaxLength {
	switch o {
	case Option30:
		return gateway.Chars(30)
	case OptionSentence:
		return gateway.Sentence
	case OptionCustom:
		return gateway.Chars(clampCustom(custom))
	default:
		return gateway.Chars(20)
	}
}

func clampCustom(v int) int {
	switch {
	case v < MinCustom:
		return MinCustom
	case v > MaxCustom:
		return MaxCustom
	default:
		return v
	}
}
