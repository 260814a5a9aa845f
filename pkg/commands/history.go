package commands

import (
	"context"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/yourdiary/pkg/runner/history"
	"tableflip.dev/yourdiary/pkg/timeutil"
)

func addHistory(topLevel *cobra.Command) {
	output := &base.OutputOptions{}
	var since string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List diary entries saved from this machine",
		Example: `
yourdiary history
yourdiary history --since=3d
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			window, err := timeutil.ParseWindow(since)
			if err != nil {
				return output.HandleError(err)
			}
			e, err := newEnv(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			h := history.History{Cache: e.cache, Window: window, JSON: output.JSON}
			return output.HandleError(h.Do(context.Background()))
		},
	}

	cmd.Flags().StringVar(&since, "since", timeutil.DefaultWindow,
		base.Wrap80(`How far back to look, e.g. --since=3d or --since=1w2d.`))
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
