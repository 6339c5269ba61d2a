package commands

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/erraggy/smithygen/mockserver"
	"github.com/erraggy/smithygen/parser"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "serve <model>",
		Short: "Serve mock responses for a service's HTTP operations",
		Long: `Start an HTTP server answering every operation of a service that has
an http trait with mock output. Request bodies, labels and query
parameters are checked against the operation input's required members.
Prometheus metrics are exposed on ` + mockserver.MetricsPath + `.`,
		Example: `  smithygen serve model.json
  smithygen serve --service example.catalog#Catalog --addr :9090 model.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id parser.ShapeID
			if service != "" {
				var err error
				if id, err = parser.ParseShapeID(service); err != nil {
					return errors.WithHint(err, "service ids look like namespace#Name")
				}
			}
			res, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			srv, err := mockserver.New(res.Model, id,
				mockserver.WithSeed(a.cfg.Mock.Seed),
				mockserver.WithListSize(a.cfg.Mock.ListSize),
				mockserver.WithLogger(a.logger))
			if err != nil {
				return err
			}
			for _, r := range srv.Routes() {
				a.logger.Debug("route", "method", r.Method, "pattern", r.Pattern, "operation", r.Operation.String())
			}
			return a.serve(cmd.Context(), srv)
		},
	}

	f := cmd.Flags()
	f.StringVar(&service, "service", "", "service to serve; required when the model declares several")
	f.String("addr", "", "listen address (default 127.0.0.1:8080)")
	f.Uint64("seed", 0, "seed of the mock responses")
	f.Int("list-size", 0, "elements synthesized for lists and maps")
	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func (a *app) serve(ctx context.Context, srv *mockserver.Server) error {
	httpSrv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("mock server listening", "addr", httpSrv.Addr, "service", srv.Service().ID().String(), "routes", len(srv.Routes()))
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "mock server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down mock server")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
