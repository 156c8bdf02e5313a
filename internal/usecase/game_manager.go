package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/pkg"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager - loads a session's engine, runs one operation on it, stores it and tells the subscribers.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	hub      *Hub
	tracer   trace.Tracer
	locks    *sessionLocks
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, hub *Hub, tracer trace.Tracer) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
		hub:      hub,
		tracer:   tracer,
		locks:    newSessionLocks(),
	}
}

// GetOrCreateGame - an empty, malformed, unknown or expired session ID starts a new session under a fresh ID.
func (that *GameManager) GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error) {
	ctx, span := that.startSpan(ctx, "usecase.GetOrCreateGame", sessionID)
	defer span.End()

	if pkg.IsSessionID(sessionID) {
		game, err := that.GetGame(ctx, sessionID)
		if err == nil {
			return game, nil
		}

		if !errors.Is(err, apperror.ErrSessionNotFound) {
			return nil, fail(span, fmt.Errorf("failed to get game: %w", err))
		}
	}

	game, err := that.createGame(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.String("session.new_id", game.ID))

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, sessionID string) (*entity.Game, error) {
	ctx, span := that.startSpan(ctx, "usecase.GetGame", sessionID)
	defer span.End()

	if sessionID == "" {
		return nil, apperror.ErrSessionNotFound
	}

	game, err := that.gameRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperror.ErrSessionNotFound) {
			return nil, err
		}

		return nil, fail(span, fmt.Errorf("failed to load game: %w", err))
	}

	return game, nil
}

// MakeMove - returns the game after the move and whether the engine accepted it.
// A rejected move leaves the stored game and the subscribers untouched.
func (that *GameManager) MakeMove(ctx context.Context, sessionID string, cell int) (*entity.Game, bool, error) {
	ctx, span := that.startSpan(ctx, "usecase.MakeMove", sessionID)
	defer span.End()

	span.SetAttributes(attribute.Int("game.cell", cell))

	if !entity.ValidCell(cell) {
		return nil, false, fmt.Errorf("%w: %d", apperror.ErrInvalidCell, cell)
	}

	unlock := that.locks.Lock(sessionID)
	defer unlock()

	game, err := that.GetGame(ctx, sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get game: %w", err)
	}

	accepted := game.ApplyMove(cell)
	span.SetAttributes(attribute.Bool("game.accepted", accepted))

	if !accepted {
		return game, false, nil
	}

	if err = that.saveAndPublish(ctx, game); err != nil {
		return nil, false, fail(span, err)
	}

	if game.IsFinished() {
		that.logger.With("method", "MakeMove").Info("round finished",
			"session", game.ID, "status", game.Status, "winner", game.Winner())
	}

	return game, true, nil
}

func (that *GameManager) ResetRound(ctx context.Context, sessionID string) (*entity.Game, error) {
	ctx, span := that.startSpan(ctx, "usecase.ResetRound", sessionID)
	defer span.End()

	unlock := that.locks.Lock(sessionID)
	defer unlock()

	game, err := that.GetGame(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game.ResetRound()

	if err = that.saveAndPublish(ctx, game); err != nil {
		return nil, fail(span, err)
	}

	return game, nil
}

func (that *GameManager) EndSession(ctx context.Context, sessionID string) error {
	ctx, span := that.startSpan(ctx, "usecase.EndSession", sessionID)
	defer span.End()

	unlock := that.locks.Lock(sessionID)
	defer unlock()

	if err := that.gameRepo.DeleteByID(ctx, sessionID); err != nil {
		if errors.Is(err, apperror.ErrSessionNotFound) {
			return err
		}

		return fail(span, fmt.Errorf("failed to delete game: %w", err))
	}

	that.logger.With("method", "EndSession").Info("session ended", "session", sessionID)

	return nil
}

func (that *GameManager) Subscribe(sessionID string) (<-chan entity.Snapshot, func()) {
	return that.hub.Subscribe(sessionID)
}

func (that *GameManager) createGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(pkg.GenerateNewSessionID())

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.With("method", "createGame").Info("session started", "session", game.ID)

	return game, nil
}

func (that *GameManager) saveAndPublish(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	that.hub.Publish(game.ID, game.Evaluate())

	return nil
}

func (that *GameManager) startSpan(ctx context.Context, name, sessionID string) (context.Context, trace.Span) {
	return that.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("session.id", sessionID)))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
