package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"menuhub/internal/bootstrap"
	"menuhub/internal/bootstrap/logging"
	"menuhub/internal/errs"
	"menuhub/internal/transport/httpapi"
	"menuhub/internal/usecase/restaurantimport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the import HTTP API",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *restaurantimport.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = app.Config.HTTP.Addr
		}
		if app.Config.App.Env != "local" {
			gin.SetMode(gin.ReleaseMode)
		}

		server := &http.Server{
			Addr:         addr,
			Handler:      httpapi.NewRouter(svc, httpapi.Options{MaxUploadBytes: app.Config.HTTP.MaxUploadBytes}),
			ReadTimeout:  app.Config.HTTP.ReadTimeout,
			WriteTimeout: app.Config.HTTP.WriteTimeout,
			BaseContext: func(_ net.Listener) context.Context {
				return ctx
			},
		}

		sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		serveErr := make(chan error, 1)
		go func() {
			logging.Info(ctx, "http server listening", slog.String("addr", addr))
			serveErr <- server.ListenAndServe()
		}()

		select {
		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return errs.Wrap(err, "listen and serve")
		case <-sigCtx.Done():
		}

		logging.Info(ctx, "shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(err, "shutdown http server")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (defaults to http.addr)")
}
