package commands

import (
	"context"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/yourdiary/pkg/runner/save"
)

func addSave(topLevel *cobra.Command) {
	output := &base.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "save [message]",
		Short: "Save a diary entry",
		Long:  base.Wrap80("Save a diary entry. Without a message the draft autosaved by the editor is saved."),
		Example: `
yourdiary save today I finally fixed the bike
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := newEnv(cmd.Context(), false, printer(output.JSON)...)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			s := save.Save{
				Client:   e.client,
				Recorder: e.recorder,
				Cache:    e.cache,
				Message:  strings.Join(args, " "),
				JSON:     output.JSON,
			}
			return output.HandleError(s.Do(context.Background()))
		},
	}

	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
