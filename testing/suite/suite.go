package suite

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-table/internal/notify"
	"github.com/rocketscienceinc/tictactoe-table/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-table/internal/usecase"
)

const (
	maxWaitDuration = 30 * time.Second
	eventBuffer     = 32
)

var Defaults = tictactoe.Defaults{XName: "X", OName: "O"}

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Broadcaster *notify.Broadcaster
	Manager     *usecase.GameManager
}

// New - starts a table for the test and closes it on cleanup.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	broadcaster := notify.NewBroadcaster(eventBuffer)
	manager := usecase.NewGameManager(logger, broadcaster, Defaults)

	runCtx, stop := context.WithCancel(ctx)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if err := manager.Run(runCtx); err != nil {
			t.Errorf("game manager stopped with error: %v", err)
		}
	}()

	t.Cleanup(func() {
		stop()
		<-stopped
		cancel()
	})

	return ctx, &Suite{
		T:           t,
		Logger:      logger,
		Broadcaster: broadcaster,
		Manager:     manager,
	}
}

// NextEvent - waits for the next event on the channel.
func (that *Suite) NextEvent(ch <-chan notify.Event) notify.Event {
	that.Helper()

	select {
	case event, ok := <-ch:
		if !ok {
			that.Fatal("event channel closed")
		}
		return event
	case <-time.After(5 * time.Second):
		that.Fatal("timed out waiting for event")
	}

	return notify.Event{}
}
