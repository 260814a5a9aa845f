package commands

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/yourdiary/pkg/commands/options"
	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/runner/task"
)

type runner interface {
	Do(ctx context.Context) error
}

func addTask(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage the task board",
		Example: `
yourdiary task list
yourdiary task add call the plumber --priority=high --due=2024-03-01
yourdiary task done 3f2a
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTaskList(cmd)
	addTaskAdd(cmd)
	addTaskStatus(cmd, "done", "Mark a task complete", true)
	addTaskStatus(cmd, "undo", "Mark a task pending again", false)
	addTaskRemove(cmd)
	addTaskConvert(cmd)

	topLevel.AddCommand(cmd)
}

// runTask builds the shared board runner and hands it to build.
func runTask(cmd *cobra.Command, output *base.OutputOptions, build func(task.Board) runner) error {
	cmd.SilenceUsage = true
	e, err := newEnv(cmd.Context(), false, printer(output.JSON)...)
	if err != nil {
		return output.HandleError(err)
	}
	defer e.Close()

	b := task.Board{
		Client:   e.client,
		Recorder: e.recorder,
		Cache:    e.cache,
		JSON:     output.JSON,
	}
	return output.HandleError(build(b).Do(context.Background()))
}

func requireID(args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errors.New("requires exactly one task id")
	}
	return nil
}

func addTaskList(topLevel *cobra.Command) {
	output := &base.OutputOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, pending first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTask(cmd, output, func(b task.Board) runner {
				return &task.List{Board: b}
			})
		},
	}
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addTaskAdd(topLevel *cobra.Command) {
	output := &base.OutputOptions{}
	to := &options.TaskOptions{}
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Example: `
yourdiary task add water the plants -p low
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			to.Title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTask(cmd, output, func(b task.Board) runner {
				return &task.Add{Board: b, Form: to.Form()}
			})
		},
	}
	options.AddTaskArgs(cmd, to)
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addTaskStatus(topLevel *cobra.Command, use, short string, complete bool) {
	output := &base.OutputOptions{}
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return requireID(args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd, output, func(b task.Board) runner {
				return &task.Status{Board: b, ID: gateway.TaskID(args[0]), Complete: complete}
			})
		},
	}
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addTaskRemove(topLevel *cobra.Command) {
	output := &base.OutputOptions{}
	co := &options.ConfirmOptions{}
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return requireID(args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd, output, func(b task.Board) runner {
				return &task.Remove{
					Board:   b,
					ID:      gateway.TaskID(args[0]),
					Confirm: co.Confirmer(io.NopCloser(cmd.InOrStdin()), nopCloser{Writer: os.Stderr}),
				}
			})
		},
	}
	options.AddConfirmArgs(cmd, co)
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addTaskConvert(topLevel *cobra.Command) {
	output := &base.OutputOptions{}
	to := &options.TaskOptions{}
	cmd := &cobra.Command{
		Use:   "convert [message]",
		Short: "Turn a diary message, or the current draft, into a task",
		Example: `
yourdiary task convert remember to book the dentist
yourdiary task convert --title="Dentist" -p high
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd, output, func(b task.Board) runner {
				return &task.Convert{Board: b, Message: strings.Join(args, " "), Form: to.Form()}
			})
		},
	}
	options.AddTitleArg(cmd, to)
	options.AddTaskArgs(cmd, to)
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
