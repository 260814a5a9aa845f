package suggest

import "unicode/utf8"

// Draft is the entry being written and the caret position within it, counted
// in characters.
type Draft struct {
	Text  string
	Caret int
}

// Len is the draft length in characters.
func (d Draft) Len() int {
	return utf8.RuneCountInString(d.Text)
}

// Insert splices s in at the caret and moves the caret past it.
func (d Draft) Insert(s string) Draft {
	runes := []rune(d.Text)
	caret := clampCaret(d.Caret, len(runes))
	ins := []rune(s)
	out := make([]rune, 0, len(runes)+len(ins))
	out = append(out, runes[:caret]...)
	out = append(out, ins...)
	out = append(out, runes[caret:]...)
	return Draft{Text: string(out), Caret: caret + len(ins)}
}

func clampCaret(caret, n int) int {
	switch {
	case caret < 0:
		return 0
	case caret > n:
		return n
	default:
		return caret
	}
}
