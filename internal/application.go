package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-table/internal/config"
	"github.com/rocketscienceinc/tictactoe-table/internal/notify"
	"github.com/rocketscienceinc/tictactoe-table/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-table/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-table/transport/rest"
	"github.com/rocketscienceinc/tictactoe-table/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	broadcaster := notify.NewBroadcaster(conf.Notifier.Buffer)
	gameManager := usecase.NewGameManager(logger, broadcaster, tictactoe.Defaults{
		XName: conf.Players.XName,
		OName: conf.Players.OName,
	})

	router := rest.NewRouter(logger, conf.AllowedOrigins)
	rest.NewGameHandler(logger, gameManager).RegisterRoutes(router)
	router.Get("/ws", websocket.New(logger, gameManager, broadcaster, conf.AllowedOrigins).HandleWebSocket)

	srv := rest.NewServer(conf.GetHTTPAddr(), router)
	srv.BaseContext = func(net.Listener) context.Context { return ctx }

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return gameManager.Run(groupCtx)
	})

	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not shut down HTTP server: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	log.Info("Application stopped")
	return nil
}
