package commands

import (
	"context"
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/yourdiary/pkg/commands/options"
	"tableflip.dev/yourdiary/pkg/runner/suggestions"
)

func addSuggest(topLevel *cobra.Command) {
	output := &base.OutputOptions{}
	lo := &options.LengthOptions{}
	var text string

	cmd := &cobra.Command{
		Use:     "suggest <text>",
		Aliases: []string{"complete"},
		Short:   "Ask for completions of a piece of text",
		Example: `
yourdiary suggest today I felt
yourdiary suggest --length=sentence --count=5 this morning
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires some text")
			}
			text = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEnv(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			opt, custom, err := lo.Option(e.cfg.Length, e.cfg.Custom)
			if err != nil {
				return output.HandleError(err)
			}
			s := suggestions.Suggest{
				Client: e.client,
				Text:   text,
				Option: opt,
				Custom: custom,
				Count:  lo.Count,
				JSON:   output.JSON,
			}
			return output.HandleError(s.Do(context.Background()))
		},
	}

	options.AddLengthArgs(cmd, lo)
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
