package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/rocketscienceinc/tictactoe-table/internal/entity"
	"github.com/rocketscienceinc/tictactoe-table/internal/notify"
	"github.com/rocketscienceinc/tictactoe-table/internal/tictactoe"
)

const writeTimeout = 10 * time.Second

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrMissingCell   = errors.New("turn without a cell")
)

type uGame interface {
	Snapshot(ctx context.Context) (entity.Game, error)
	MakeTurn(ctx context.Context, cell int) (entity.Game, error)
	RenamePlayer(ctx context.Context, mark entity.Mark, name string) (entity.Game, error)
	ResetRound(ctx context.Context) (entity.Game, error)
	ResetScores(ctx context.Context) (entity.Game, error)
	AcknowledgeResult(ctx context.Context) (entity.Game, error)
}

type hub interface {
	Subscribe() (string, <-chan notify.Event)
	Unsubscribe(id string)
}

type Server struct {
	logger *slog.Logger
	uGame  uGame
	hub    hub

	originPatterns []string
	handlers       map[string]func(ctx context.Context, message *Message) error
}

func New(logger *slog.Logger, uGame uGame, hub hub, allowedOrigins []string) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		hub:    hub,

		originPatterns: originPatterns(allowedOrigins),
		handlers:       make(map[string]func(context.Context, *Message) error),
	}

	server.handlers[actionTurn] = server.handleTurn
	server.handlers[actionRename] = server.handleRename
	server.handlers[actionResetRound] = server.handleResetRound
	server.handlers[actionResetScores] = server.handleResetScores
	server.handlers[actionAckResult] = server.handleAckResult

	return server
}

// originPatterns - websocket origin checks match hosts, so schemes are dropped.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		if parsed, err := url.Parse(origin); err == nil && parsed.Host != "" {
			patterns = append(patterns, parsed.Host)
			continue
		}
		patterns = append(patterns, strings.TrimSpace(origin))
	}
	return patterns
}

// HandleWebSocket - upgrades the connection and streams table events until either side leaves.
func (that *Server) HandleWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "handleWebSocket")

	conn, err := websocket.Accept(writer, req, &websocket.AcceptOptions{
		OriginPatterns: that.originPatterns,
	})
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	subscriberID, events := that.hub.Subscribe()
	defer that.hub.Unsubscribe(subscriberID)

	log = log.With("subscriber", subscriberID)
	log.Info("WebSocket connection established")

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	if err = that.sendSnapshot(ctx, conn); err != nil {
		log.Error("failed to send snapshot", "error", err)
		return
	}

	go func() {
		defer cancel()
		that.handleMessages(ctx, conn, log)
	}()

	if err = that.writeEvents(ctx, conn, events); err != nil && ctx.Err() == nil {
		log.Error("failed to write event", "error", err)
		return
	}

	log.Info("WebSocket connection closed")
	conn.Close(websocket.StatusNormalClosure, "")
}

func (that *Server) sendSnapshot(ctx context.Context, conn *websocket.Conn) error {
	game, err := that.uGame.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to get snapshot: %w", err)
	}

	return write(ctx, conn, notify.Event{
		Type:   notify.EventState,
		Game:   game,
		Status: tictactoe.StatusLine(&game),
	})
}

func (that *Server) writeEvents(ctx context.Context, conn *websocket.Conn, events <-chan notify.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := write(ctx, conn, event); err != nil {
				return err
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, event notify.Event) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := wsjson.Write(ctx, conn, event); err != nil {
		return fmt.Errorf("failed to write %s: %w", event.Type, err)
	}

	return nil
}

// handleMessages - processes messages from the client until the connection fails.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, log *slog.Logger) {
	for {
		var message Message
		if err := wsjson.Read(ctx, conn, &message); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && ctx.Err() == nil {
				log.Debug("stopped reading messages", "error", err)
			}
			return
		}

		if err := that.processMessage(ctx, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// processMessage - dispatches the message to its handler.
func (that *Server) processMessage(ctx context.Context, msg *Message) error {
	if handler, ok := that.handlers[msg.Action]; ok {
		return handler(ctx, msg)
	}
	return fmt.Errorf("%w: %s", ErrUnknownAction, msg.Action)
}
