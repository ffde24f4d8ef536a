package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/lcacost/internal/config"
	"github.com/rshade/lcacost/internal/selection"
	"github.com/rshade/lcacost/internal/server"
)

// newServeCmd serves the JSON API until interrupted.
func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the material comparison JSON API",
		Long: `Serves the loaded material table over HTTP:

  GET /healthz
  GET /api/materials            ?select=&q=
  GET /api/materials/{name}
  GET /api/report               ?category=&chart=&view=&horizon=&rate=&baseline=
  GET /api/mac-curve            ?baseline=
  GET /api/insights             ?category=

Display flags set the defaults for query parameters a request omits.`,
		Example: `  lcacost serve
  lcacost serve --addr :9090 --baseline "2x6 Wall"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			table, source, err := loadTable(ctx, cmd)
			if err != nil {
				return err
			}
			params, err := resolveParams(cmd)
			if err != nil {
				return err
			}
			if _, err = selection.ResolveBaseline(table, params.BaselineName); err != nil {
				return err
			}
			if addr == "" {
				addr = config.GetGlobalConfig().Server.Addr
			}

			srv := server.New(table,
				server.WithLogger(baseLogger),
				server.WithDefaults(params),
			)
			logger.Info().Ctx(ctx).
				Str("operation", "serve").
				Str("addr", addr).
				Str("source", source).
				Int("materials", table.Len()).
				Msg("serving API")
			cmd.Printf("Serving %d materials on http://%s\n", table.Len(), addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	addDisplayFlags(cmd, allDisplayFlags)
	return cmd
}
