package commands

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/yourdiary/pkg/notify"
	"tableflip.dev/yourdiary/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the diary editor",
		Example: `
yourdiary ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				return errors.New("ui needs an interactive terminal")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()

			toasts := notify.NewQueue(notify.DefaultTTL, 3)
			e, err := newEnv(ctx, true, toasts)
			if err != nil {
				return err
			}
			defer e.Close()

			i := ui.UI{Client: e.client, Cache: e.cache, Toasts: toasts}
			return i.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
