package devserver

import (
	"errors"
	"unicode/utf8"

	"tableflip.dev/yourdiary/pkg/gateway"
)

// Model produces completions for a piece of diary text.
type Model interface {
	Complete(text string, length gateway.MaxLength, count int) ([]string, error)
}

// ModelFunc adapts a function to Model.
type ModelFunc func(text string, length gateway.MaxLength, count int) ([]string, error)

func (f ModelFunc) Complete(text string, length gateway.MaxLength, count int) ([]string, error) {
	return f(text, length, count)
}

// ErrModelUnavailable makes the server answer with its fallback suggestions.
var ErrModelUnavailable = errors.New("model unavailable")

// Broken is a model that always fails.
var Broken Model = ModelFunc(func(string, gateway.MaxLength, int) ([]string, error) {
	return nil, ErrModelUnavailable
})

var (
	phrases = []string{
		" felt wonderful today",
		" brought back memories",
		" made me think deeply",
		" was quite remarkable",
		" seemed very important",
		" reminded me of home",
		" filled my heart with joy",
	}
	sentences = []string{
		" was a beautiful moment to remember.",
		" made today feel quite special indeed.",
		" helped me grow in unexpected ways.",
		" reminded me of what truly matters.",
		" brought such joy to my weary heart.",
	}
	fallback = []string{
		" feels meaningful to me",
		" brings me joy",
		" is something I want to remember",
	}
	extraWords = []string{"meaningful", "beautiful", "peaceful", "inspiring", "joyful"}
)

// Phrasebook is the default model: canned diary phrases cut to the requested
// length, or whole sentences.
var Phrasebook Model = ModelFunc(func(_ string, length gateway.MaxLength, count int) ([]string, error) {
	if length.Sentence {
		return head(sentences, count), nil
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		var p string
		if i < len(phrases) {
			p = phrases[i]
		} else {
			p = " was quite " + extraWords[(i-len(phrases))%len(extraWords)]
		}
		out = append(out, truncate(p, length.Chars))
	}
	return out, nil
})

func head(list []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if n > len(list) {
		n = len(list)
	}
	return append([]string(nil), list[:n]...)
}

func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
