package commands

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/yourdiary/pkg/commands/options"
	"tableflip.dev/yourdiary/pkg/config"
)

var (
	settings = config.New()
	client   = &options.ClientOptions{}
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yourdiary",
		Short: base.Wrap80("Write a diary with AI suggestions and keep a task board next to it."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddClientArgs(cmd, client, settings)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addSave(topLevel)
	addSuggest(topLevel)
	addTask(topLevel)
	addHistory(topLevel)
	addDevServer(topLevel)
	addVersion(topLevel)
}
