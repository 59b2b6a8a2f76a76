package cmd

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/contactdesk/contactdesk/internal/devserver"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	devAddr string
	devSeed string
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run a local message service for development",
	Long: `Run an in-memory message service that serves the same endpoints as the
production backend:

  GET    /admin/messages
  DELETE /admin/messages/{id}
  POST   /contact
  GET    /static/vp-logo.png
  GET    /health

Without --seed a few demo submissions are loaded. Data is lost on exit.

Point the dashboard at it with:
  contactdesk --api-base http://127.0.0.1:8787

Use Ctrl+C to stop the server gracefully.`,
	Args: cobra.NoArgs,
	RunE: runDevServer,
}

func runDevServer(cmd *cobra.Command, args []string) error {
	addr := devAddr
	if addr == "" {
		addr = cfg.DevServer.Addr
	}
	seed := devSeed
	if seed == "" {
		seed = cfg.DevServer.SeedFile
	}

	records := devserver.DemoRecords(time.Now())
	if seed != "" {
		var err error
		records, err = devserver.LoadSeed(seed)
		if err != nil {
			return err
		}
	}

	srv := devserver.NewServer(devserver.Options{
		Addr:           addr,
		RateLimitRPS:   cfg.DevServer.RateLimitRPS,
		RateLimitBurst: cfg.DevServer.RateLimitBurst,
		CORSOrigins:    cfg.DevServer.CORSOrigins,
	}, devserver.NewMemoryStore(records...), logger)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Dev server listening on http://%s (%d messages)\n", ln.Addr(), len(records))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return srv.Serve(ln)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func init() {
	rootCmd.AddCommand(devserverCmd)
	devserverCmd.Flags().StringVar(&devAddr, "addr", "", "listen address (default: [devserver] addr or 127.0.0.1:8787)")
	devserverCmd.Flags().StringVar(&devSeed, "seed", "", "JSON file of submissions to load instead of the demo set")
}
