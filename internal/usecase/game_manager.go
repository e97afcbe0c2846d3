package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/minimax"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, fn func(game *entity.Game) error) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type solver interface {
	Solve(board entity.Board) (*minimax.Solution, error)
}

// GameManager runs human-vs-solver games: the human supplies moves, the
// solver answers with the optimal move.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	solver   solver
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, solver solver) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
		solver:   solver,
	}
}

// NewGame starts a game; when the human plays O the solver opens right away.
func (that *GameManager) NewGame(ctx context.Context, human entity.Player) (*entity.Game, error) {
	if !human.IsValid() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, human)
	}

	game := entity.NewGame(uuid.NewString(), human)

	if err := that.replyIfSolverTurn(game); err != nil {
		return nil, err
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID, "human", human)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// MakeTurn applies the human move and, unless the game ended, the solver's
// answer. Both are stored together or not at all.
func (that *GameManager) MakeTurn(ctx context.Context, gameID string, move entity.Move) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", gameID)

	game, err := that.gameRepo.Update(ctx, gameID, func(game *entity.Game) error {
		if err := game.MakeTurn(game.Human, move); err != nil {
			return fmt.Errorf("failed make turn: %w", err)
		}

		return that.replyIfSolverTurn(game)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if game.IsFinished() {
		log.Info("game finished", "outcome", game.Outcome)
	}

	return game, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, gameID string) error {
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", gameID)

	return nil
}

// Solve returns the optimal move for a board that is not tied to any game.
func (that *GameManager) Solve(_ context.Context, board entity.Board) (*minimax.Solution, error) {
	solution, err := that.solver.Solve(board)
	if err != nil {
		return nil, fmt.Errorf("failed to solve board: %w", err)
	}

	return solution, nil
}

func (that *GameManager) replyIfSolverTurn(game *entity.Game) error {
	if !game.IsOngoing() || game.IsHumanTurn() {
		return nil
	}

	solution, err := that.solver.Solve(game.Board)
	if err != nil {
		return fmt.Errorf("failed to find solver move: %w", err)
	}

	if err = game.MakeTurn(game.Human.Opponent(), solution.Move); err != nil {
		return fmt.Errorf("solver move rejected: %w", err)
	}

	return nil
}
