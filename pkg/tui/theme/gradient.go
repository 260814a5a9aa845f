package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Gradient paints each rune of text with a colour blended from one hex colour
// to another.
func Gradient(text, from, to string) string {
	start, err1 := colorful.Hex(from)
	end, err2 := colorful.Hex(to)
	runes := []rune(text)
	if err1 != nil || err2 != nil || len(runes) < 2 {
		return text
	}
	var b strings.Builder
	for i, r := range runes {
		c := start.BlendLuv(end, float64(i)/float64(len(runes)-1)).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}

// ForTerminal is Default with darker text when the terminal background is
// light.
func ForTerminal() Theme {
	t := Default()
	if !termenv.HasDarkBackground() {
		muted := lipgloss.Color("240")
		t.Panel.Muted = t.Panel.Muted.Foreground(muted)
		t.Footer.Help = t.Footer.Help.Foreground(muted)
		t.Suggestions.Prefix = t.Suggestions.Prefix.Foreground(muted)
		t.Suggestions.Completion = t.Suggestions.Completion.Foreground(lipgloss.Color("0"))
	}
	return t
}
