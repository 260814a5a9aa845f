package options

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/yourdiary/pkg/tasks"
)

// TaskOptions are the optional fields of a task dialog.
type TaskOptions struct {
	Title       string
	Description string
	Priority    string
	Due         string
}

func AddTaskArgs(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().StringVarP(&o.Description, "description", "d", "",
		base.Wrap80("Longer description of the task."))
	cmd.Flags().StringVarP(&o.Priority, "priority", "p", "medium",
		base.Wrap80("Priority: low, medium, or high."))
	cmd.Flags().StringVar(&o.Due, "due", "",
		base.Wrap80(`Due date, example: --due="2024-03-01".`))
}

// AddTitleArg registers --title for commands that derive the title from
// other text.
func AddTitleArg(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().StringVarP(&o.Title, "title", "t", "",
		base.Wrap80("Task title. Defaults to the first 100 characters of the text."))
}

// Form builds the dialog contents.
func (o *TaskOptions) Form() tasks.Form {
	return tasks.Form{
		Title:       o.Title,
		Description: o.Description,
		Priority:    o.Priority,
		DueDate:     o.Due,
	}
}
