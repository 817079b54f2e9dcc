package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/calendarplan/calendarplan/internal/app"
	"github.com/spf13/cobra"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.NewApplication(ctx, opts.cfg, app.Options{Offline: opts.offline})
			if err != nil {
				return err
			}
			return application.Run(ctx)
		},
	}
}
