package commands

import (
	"os"
	"os/signal"
	"syscall"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/yourdiary/pkg/observability"
	"tableflip.dev/yourdiary/pkg/runner/serve"
)

func addDevServer(topLevel *cobra.Command) {
	s := &serve.Serve{}
	var level string

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run an in-memory diary service for local development",
		Long: base.Wrap80("Run an in-memory diary service that speaks the same HTTP API as the real one. " +
			"Suggestions come from a fixed phrasebook. Prometheus metrics are served on /metrics."),
		Example: `
yourdiary devserver --addr=:5000 --session=dev
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			observability.SetLogger(observability.NewLogger(os.Stderr, level, false))
			s.Metrics = observability.NewMetrics("devserver")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return s.Do(ctx)
		},
	}

	cmd.Flags().StringVar(&s.Addr, "addr", "127.0.0.1:5000", base.Wrap80("Address to listen on."))
	cmd.Flags().StringVar(&s.Session, "session", "", base.Wrap80("Require this session cookie value. Empty accepts any request."))
	cmd.Flags().BoolVar(&s.NoListing, "no-listing", false, base.Wrap80("Leave out GET /api/tasks, serving only the five calls every diary service offers."))
	cmd.Flags().StringVar(&level, "log-level", "info", base.Wrap80("Log level: debug, info, warn, or error."))
	topLevel.AddCommand(cmd)
}
