package minimax

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

type Solution struct {
	Move   entity.Move `json:"move"`
	Value  int         `json:"value"`
	Scores []Scored    `json:"scores"`
}

// Solver runs the search with the top-level moves spread over a bounded
// number of goroutines. Each branch is independent, so the result does not
// depend on the number of workers.
type Solver struct {
	logger  *slog.Logger
	workers int
}

func NewSolver(logger *slog.Logger, workers int) *Solver {
	if workers < 1 {
		workers = 1
	}

	return &Solver{
		logger:  logger.With("component", "solver"),
		workers: workers,
	}
}

func (that *Solver) Solve(board entity.Board) (*Solution, error) {
	log := that.logger.With("method", "Solve")

	if board.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", apperror.ErrNoMoves, board.Outcome())
	}

	start := time.Now()

	moves := board.LegalMoves()
	scores := make([]Scored, len(moves))

	var group errgroup.Group
	group.SetLimit(that.workers)

	for i, move := range moves {
		group.Go(func() error {
			scores[i] = Scored{Move: move, Value: score(board, move)}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	best := pick(board.CurrentPlayer(), scores)

	log.Debug("search finished",
		"player", board.CurrentPlayer(),
		"move", best.Move.String(),
		"value", best.Value,
		"workers", that.workers,
		"elapsed", time.Since(start),
	)

	return &Solution{
		Move:   best.Move,
		Value:  best.Value,
		Scores: scores,
	}, nil
}
