package theme

import (
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/yourdiary/pkg/notify"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer      FooterTheme
	Panel       PanelTheme
	Suggestions SuggestionTheme
	Board       BoardTheme
	Modal       ModalTheme
	Toast       ToastTheme
}

// FooterTheme groups styles used by the bottom key help bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Key    lipgloss.Style
	Status lipgloss.Style
}

// PanelTheme styles framed panels and headings. Focused panels use the
// accent border.
type PanelTheme struct {
	Frame   lipgloss.Style
	Focused lipgloss.Style
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Button  lipgloss.Style
	Busy    lipgloss.Style
	Party   lipgloss.Style
}

// SuggestionTheme styles the completion panel.
type SuggestionTheme struct {
	Frame       lipgloss.Style
	Header      lipgloss.Style
	Prefix      lipgloss.Style
	Completion  lipgloss.Style
	Chars       lipgloss.Style
	Placeholder lipgloss.Style
	Ack         lipgloss.Style
}

// BoardTheme styles task rows.
type BoardTheme struct {
	Title    lipgloss.Style
	Struck   lipgloss.Style
	Selected lipgloss.Style
	Busy     lipgloss.Style
	Badge    map[notify.Level]lipgloss.Style
	Priority map[string]lipgloss.Style
}

// ModalTheme styles centered dialogs.
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Label lipgloss.Style
	Focus lipgloss.Style
	Error lipgloss.Style
}

// ToastTheme styles notifications by level.
type ToastTheme map[notify.Level]lipgloss.Style

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	muted := lipgloss.Color("244")

	toast := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c)).
			Foreground(lipgloss.Color(c)).
			Padding(0, 1)
	}
	badge := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true)
	}

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Key:    lipgloss.NewStyle().Foreground(accent).Bold(true),
			Status: lipgloss.NewStyle().Foreground(muted),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1),
			Focused: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(0, 1),
			Title:  lipgloss.NewStyle().Bold(true),
			Muted:  lipgloss.NewStyle().Foreground(muted),
			Button: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(accent).Padding(0, 1),
			Busy:   lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(muted).Padding(0, 1),
			Party:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		},
		Suggestions: SuggestionTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("63")).
				Padding(0, 1),
			Header:      lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true),
			Prefix:      lipgloss.NewStyle().Foreground(muted),
			Completion:  lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
			Chars:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Placeholder: lipgloss.NewStyle().Foreground(muted).Italic(true),
			Ack:         lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		},
		Board: BoardTheme{
			Title:    lipgloss.NewStyle(),
			Struck:   lipgloss.NewStyle().Strikethrough(true).Faint(true),
			Selected: lipgloss.NewStyle().Reverse(true),
			Busy:     lipgloss.NewStyle().Faint(true).Italic(true),
			Badge: map[notify.Level]lipgloss.Style{
				notify.Success: badge("42"),
				notify.Warning: badge("214"),
			},
			Priority: map[string]lipgloss.Style{
				"high":   badge("204"),
				"medium": badge("214"),
				"low":    badge("244"),
			},
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Label: lipgloss.NewStyle().Foreground(muted),
			Focus: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Error: lipgloss.NewStyle().Foreground(lipgloss.Color("204")),
		},
		Toast: ToastTheme{
			notify.Info:    toast("39"),
			notify.Success: toast("42"),
			notify.Warning: toast("214"),
			notify.Danger:  toast("204"),
		},
	}
}
