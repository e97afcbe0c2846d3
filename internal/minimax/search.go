package minimax

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

// Scored is a legal move together with the value of the position it leads to,
// always from X's side.
type Scored struct {
	Move  entity.Move `json:"move"`
	Value int         `json:"value"`
}

// MaxValue returns the utility of board assuming X is to move and both sides
// play perfectly from here.
func MaxValue(board entity.Board) int {
	if board.IsTerminal() {
		return board.Utility()
	}

	best := -2
	for _, move := range board.LegalMoves() {
		if value := MinValue(mustApply(board, move)); value > best {
			best = value
		}
	}

	return best
}

// MinValue is the mirror of MaxValue for O to move.
func MinValue(board entity.Board) int {
	if board.IsTerminal() {
		return board.Utility()
	}

	best := 2
	for _, move := range board.LegalMoves() {
		if value := MaxValue(mustApply(board, move)); value < best {
			best = value
		}
	}

	return best
}

// BestMove returns the optimal move for the player to move. Among moves of
// equal value the first one in row-major order is kept.
func BestMove(board entity.Board) (entity.Move, error) {
	scores, err := Evaluate(board)
	if err != nil {
		return entity.Move{}, err
	}

	best := pick(board.CurrentPlayer(), scores)

	return best.Move, nil
}

// Evaluate scores every legal move of a non-terminal board.
func Evaluate(board entity.Board) ([]Scored, error) {
	if board.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", apperror.ErrNoMoves, board.Outcome())
	}

	moves := board.LegalMoves()
	scores := make([]Scored, len(moves))
	for i, move := range moves {
		scores[i] = Scored{Move: move, Value: score(board, move)}
	}

	return scores, nil
}

// score evaluates the position after move from the opponent's point of view.
func score(board entity.Board, move entity.Move) int {
	next := mustApply(board, move)

	if board.CurrentPlayer() == entity.PlayerX {
		return MinValue(next)
	}

	return MaxValue(next)
}

// pick keeps the first strict improvement: X maximizes, O minimizes.
func pick(player entity.Player, scores []Scored) Scored {
	bestIdx := 0
	for i := 1; i < len(scores); i++ {
		if player == entity.PlayerX && scores[i].Value > scores[bestIdx].Value ||
			player == entity.PlayerO && scores[i].Value < scores[bestIdx].Value {
			bestIdx = i
		}
	}

	return scores[bestIdx]
}

// mustApply is only called with moves taken from board.LegalMoves.
func mustApply(board entity.Board, move entity.Move) entity.Board {
	next, err := board.Apply(move)
	if err != nil {
		panic(fmt.Errorf("legal move rejected: %w", err))
	}

	return next
}
