package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HendryAvila/clarify/internal/httpapi"
	"github.com/HendryAvila/clarify/internal/memory"
	"github.com/HendryAvila/clarify/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the clarify HTTP service backed by the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			if !a.verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			store, err := memory.New(memory.Config{
				DataDir:          a.cfg.Memory.DataDir,
				MaxTurnLength:    a.cfg.Memory.MaxTurnLength,
				MaxThreadResults: a.cfg.Memory.MaxThreadResults,
			})
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					a.logger.Warn("memory store close", zap.Error(err))
				}
			}()

			svc := service.New(store, service.WithLogger(a.logger.Named("service")))
			srv := httpapi.NewServer(addr, svc, a.logger.Named("http"))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(srv.ListenAndServe)
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8000)")
	return cmd
}
