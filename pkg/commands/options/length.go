package options

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/yourdiary/pkg/suggest"
)

// LengthOptions selects how long suggestions should be.
type LengthOptions struct {
	Length string
	Count  int
}

func AddLengthArgs(cmd *cobra.Command, o *LengthOptions) {
	cmd.Flags().StringVarP(&o.Length, "length", "l", "",
		base.Wrap80(`Suggestion length: 20, 30, sentence, or a custom character count between 10 and 100. Defaults to the configured length.`))
	cmd.Flags().IntVarP(&o.Count, "count", "n", suggest.NormalCount,
		base.Wrap80("How many suggestions to ask for."))
}

// Option resolves the flag, falling back to the configured option.
func (o *LengthOptions) Option(fallback suggest.Option, custom int) (suggest.Option, int, error) {
	if o.Length == "" {
		return fallback, custom, nil
	}
	return suggest.ParseOption(o.Length)
}
