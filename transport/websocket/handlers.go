package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-table/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-table/internal/entity"
)

func (that *Server) handleTurn(ctx context.Context, msg *Message) error {
	var payload TurnPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal turn: %w", err)
	}

	if payload.Cell == nil {
		return fmt.Errorf("failed to read turn: %w", ErrMissingCell)
	}

	if _, err := that.uGame.MakeTurn(ctx, *payload.Cell); err != nil {
		return fmt.Errorf("failed to make turn: %w", err)
	}

	return nil
}

func (that *Server) handleRename(ctx context.Context, msg *Message) error {
	var payload RenamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal rename: %w", err)
	}

	mark, ok := entity.ParseMark(payload.Mark)
	if !ok {
		return fmt.Errorf("%w: %q", apperror.ErrUnknownPlayer, payload.Mark)
	}

	if _, err := that.uGame.RenamePlayer(ctx, mark, payload.Name); err != nil {
		return fmt.Errorf("failed to rename player: %w", err)
	}

	return nil
}

func (that *Server) handleResetRound(ctx context.Context, _ *Message) error {
	if _, err := that.uGame.ResetRound(ctx); err != nil {
		return fmt.Errorf("failed to reset round: %w", err)
	}

	return nil
}

func (that *Server) handleResetScores(ctx context.Context, _ *Message) error {
	if _, err := that.uGame.ResetScores(ctx); err != nil {
		return fmt.Errorf("failed to reset scores: %w", err)
	}

	return nil
}

func (that *Server) handleAckResult(ctx context.Context, _ *Message) error {
	if _, err := that.uGame.AcknowledgeResult(ctx); err != nil {
		return fmt.Errorf("failed to acknowledge result: %w", err)
	}

	return nil
}
