package options

import (
	"io"

	"github.com/manifoldco/promptui"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/yourdiary/pkg/tasks"
)

// ConfirmOptions controls destructive commands.
type ConfirmOptions struct {
	Yes bool
}

func AddConfirmArgs(cmd *cobra.Command, o *ConfirmOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false,
		base.Wrap80("Do not ask for confirmation."))
}

// Confirmer asks on in/out unless --yes was given.
func (o *ConfirmOptions) Confirmer(in io.ReadCloser, out io.WriteCloser) tasks.Confirmer {
	if o.Yes {
		return tasks.Confirmed
	}
	return tasks.ConfirmFunc(func(label string) bool {
		templates := &promptui.PromptTemplates{
			Prompt:  "{{ . }} ",
			Valid:   "{{ . | yellow }} ",
			Invalid: "{{ . | red }} ",
			Success: "{{ . | bold }} ",
		}
		prompt := promptui.Prompt{
			Label:     label,
			IsConfirm: true,
			Templates: templates,
			Stdin:     in,
			Stdout:    out,
		}
		_, err := prompt.Run()
		return err == nil
	})
}
