package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
)

const (
	X = MarkX
	O = MarkO
	E = EmptyCell
)

func mustParse(t *testing.T, cells [3][3]Mark) Board {
	t.Helper()

	board, err := ParseBoard(cells)
	require.NoError(t, err)

	return board
}

func TestNewBoard(t *testing.T) {
	// Given: the initial board
	board := NewBoard()

	// Then: it is empty, X moves first and all nine cells are legal
	assert.Equal(t, [3][3]Mark{}, board.Cells())
	assert.Equal(t, PlayerX, board.CurrentPlayer())
	assert.Len(t, board.LegalMoves(), 9)
	assert.False(t, board.IsTerminal())
	assert.Equal(t, InProgress, board.Outcome())
}

func TestBoard_CurrentPlayer(t *testing.T) {
	t.Run("O moves when the number of empty cells is even", func(t *testing.T) {
		// Given: a board with one X mark
		board := mustParse(t, [3][3]Mark{{X, E, E}, {E, E, E}, {E, E, E}})

		// Then: O is to move
		assert.Equal(t, PlayerO, board.CurrentPlayer())
	})

	t.Run("X moves when the number of empty cells is odd", func(t *testing.T) {
		// Given: a board with two X and two O marks
		board := mustParse(t, [3][3]Mark{{X, X, E}, {O, O, E}, {E, E, E}})

		// Then: X is to move
		assert.Equal(t, PlayerX, board.CurrentPlayer())
	})
}

func TestParseBoard(t *testing.T) {
	t.Run("Rejects more O marks than X marks", func(t *testing.T) {
		// When: parsing a board where O has moved twice and X once
		_, err := ParseBoard([3][3]Mark{{O, E, E}, {E, X, E}, {E, E, O}})

		// Then: ErrInvalidState is returned
		require.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("Rejects X marks ahead by two", func(t *testing.T) {
		// When: parsing a board where X has moved twice in a row
		_, err := ParseBoard([3][3]Mark{{X, X, E}, {E, E, E}, {E, E, E}})

		// Then: ErrInvalidState is returned
		require.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("Rejects unknown marks", func(t *testing.T) {
		// When: parsing a board with a foreign mark
		_, err := ParseBoard([3][3]Mark{{"Z", E, E}, {E, E, E}, {E, E, E}})

		// Then: ErrInvalidState is returned
		require.ErrorIs(t, err, apperror.ErrInvalidState)
		assert.Contains(t, err.Error(), "unknown mark")
	})
}

func TestParseBoardWithTurn(t *testing.T) {
	t.Run("Keeps the given player to move", func(t *testing.T) {
		// When: parsing a position with O ahead and X to move
		board, err := ParseBoardWithTurn([3][3]Mark{{O, E, E}, {E, X, E}, {E, E, O}}, PlayerX)
		require.NoError(t, err)

		// Then: X is to move and its mark lands on the next move
		assert.Equal(t, PlayerX, board.CurrentPlayer())

		next, err := board.Apply(Move{Row: 0, Col: 1})
		require.NoError(t, err)
		assert.Equal(t, MarkX, next.At(0, 1))
		assert.Equal(t, PlayerO, next.CurrentPlayer())
	})

	t.Run("Rejects an unknown player", func(t *testing.T) {
		_, err := ParseBoardWithTurn([3][3]Mark{}, Player(""))

		require.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("Rejects unknown marks", func(t *testing.T) {
		_, err := ParseBoardWithTurn([3][3]Mark{{"Z", E, E}, {E, E, E}, {E, E, E}}, PlayerO)

		require.ErrorIs(t, err, apperror.ErrInvalidState)
	})
}

func TestBoard_ZeroValue(t *testing.T) {
	// Given: a board that was never initialised
	var board Board

	// Then: it is the empty board with X to move
	assert.Equal(t, PlayerX, board.CurrentPlayer())
	assert.Len(t, board.LegalMoves(), 9)

	// When: applying a move
	next, err := board.Apply(Move{Row: 0, Col: 0})
	require.NoError(t, err)

	// Then: X is placed and exactly one legal move is gone
	assert.Equal(t, MarkX, next.At(0, 0))
	assert.Len(t, next.LegalMoves(), 8)
	assert.Equal(t, PlayerO, next.CurrentPlayer())
}

func TestBoard_Apply(t *testing.T) {
	t.Run("Places the current player's mark without touching the receiver", func(t *testing.T) {
		// Given: the initial board
		board := NewBoard()

		// When: X plays the center
		next, err := board.Apply(Move{Row: 1, Col: 1})
		require.NoError(t, err)

		// Then: the new board holds X in the center and O is to move
		assert.Equal(t, MarkX, next.At(1, 1))
		assert.Equal(t, PlayerO, next.CurrentPlayer())

		// And: the original board is unchanged
		assert.Equal(t, NewBoard(), board)
	})

	t.Run("Fails on an occupied cell", func(t *testing.T) {
		// Given: a board with X in the corner
		board := mustParse(t, [3][3]Mark{{X, E, E}, {E, E, E}, {E, E, E}})

		// When: O tries the same corner
		_, err := board.Apply(Move{Row: 0, Col: 0})

		// Then: ErrInvalidMove is returned
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		assert.Contains(t, err.Error(), "occupied")
	})

	t.Run("Fails on out of range coordinates", func(t *testing.T) {
		board := NewBoard()

		for _, move := range []Move{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5}} {
			_, err := board.Apply(move)
			require.ErrorIs(t, err, apperror.ErrInvalidMove, "move %s", move)
		}
	})

	t.Run("Succeeds exactly for legal moves", func(t *testing.T) {
		// Given: a board in the middle of a game
		board := mustParse(t, [3][3]Mark{{X, O, E}, {E, X, E}, {E, E, O}})
		legal := board.LegalMoves()

		// When: trying every coordinate in and around the grid
		for r := -1; r <= 3; r++ {
			for c := -1; c <= 3; c++ {
				move := Move{Row: r, Col: c}
				next, err := board.Apply(move)

				// Then: only legal moves succeed and remove exactly one legal move
				if containsMove(legal, move) {
					require.NoError(t, err, "move %s", move)
					assert.Len(t, next.LegalMoves(), len(legal)-1)
					continue
				}
				require.ErrorIs(t, err, apperror.ErrInvalidMove, "move %s", move)
			}
		}
	})
}

func containsMove(moves []Move, move Move) bool {
	for _, m := range moves {
		if m == move {
			return true
		}
	}
	return false
}

func TestBoard_LegalMoves(t *testing.T) {
	// Given: a board with three empty cells
	board := mustParse(t, [3][3]Mark{{X, O, X}, {E, O, E}, {X, E, O}})

	// When: listing legal moves
	moves := board.LegalMoves()

	// Then: the empty cells come back in row-major order
	assert.Equal(t, []Move{{1, 0}, {1, 2}, {2, 1}}, moves)
}

func TestBoard_Winner(t *testing.T) {
	tests := []struct {
		name   string
		cells  [3][3]Mark
		winner Player
		ok     bool
	}{
		{
			name:   "X wins on the top row",
			cells:  [3][3]Mark{{X, X, X}, {O, O, E}, {E, E, E}},
			winner: PlayerX,
			ok:     true,
		},
		{
			name:   "O wins on the middle column",
			cells:  [3][3]Mark{{X, O, X}, {E, O, E}, {X, O, E}},
			winner: PlayerO,
			ok:     true,
		},
		{
			name:   "X wins on the main diagonal",
			cells:  [3][3]Mark{{X, O, E}, {O, X, E}, {E, E, X}},
			winner: PlayerX,
			ok:     true,
		},
		{
			name:   "O wins on the anti-diagonal",
			cells:  [3][3]Mark{{X, X, O}, {E, O, E}, {O, E, X}},
			winner: PlayerO,
			ok:     true,
		},
		{
			name:  "No winner on an ongoing board",
			cells: [3][3]Mark{{X, O, E}, {E, X, E}, {E, E, O}},
		},
		{
			name:  "No winner on a drawn board",
			cells: [3][3]Mark{{X, O, X}, {X, O, O}, {O, X, X}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := mustParse(t, tt.cells)

			winner, ok := board.Winner()

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.winner, winner)
		})
	}

	t.Run("Left column is found before right column", func(t *testing.T) {
		// Given: an unreachable board where X owns the left column and O the right one
		board := mustParse(t, [3][3]Mark{{X, X, O}, {X, O, O}, {X, E, O}})

		// When: looking for a winner
		winner, ok := board.Winner()

		// Then: the first line in scan order decides
		require.True(t, ok)
		assert.Equal(t, PlayerX, winner)
	})

	t.Run("Top row is found before bottom row", func(t *testing.T) {
		board := mustParse(t, [3][3]Mark{{O, O, O}, {X, O, E}, {X, X, X}})

		winner, ok := board.Winner()

		require.True(t, ok)
		assert.Equal(t, PlayerO, winner)
	})
}

func TestBoard_TerminalAndUtility(t *testing.T) {
	tests := []struct {
		name     string
		cells    [3][3]Mark
		terminal bool
		utility  int
		outcome  Outcome
	}{
		{
			name:     "X win",
			cells:    [3][3]Mark{{X, X, X}, {O, O, E}, {E, E, E}},
			terminal: true,
			utility:  1,
			outcome:  XWins,
		},
		{
			name:     "O win",
			cells:    [3][3]Mark{{X, X, O}, {X, O, E}, {O, E, E}},
			terminal: true,
			utility:  -1,
			outcome:  OWins,
		},
		{
			name:     "Draw on a full board",
			cells:    [3][3]Mark{{X, O, X}, {X, O, O}, {O, X, X}},
			terminal: true,
			utility:  0,
			outcome:  Draw,
		},
		{
			name:    "Ongoing",
			cells:   [3][3]Mark{{X, O, E}, {E, E, E}, {E, E, E}},
			outcome: InProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := mustParse(t, tt.cells)

			assert.Equal(t, tt.terminal, board.IsTerminal())
			assert.Equal(t, tt.utility, board.Utility())
			assert.Equal(t, tt.outcome, board.Outcome())
		})
	}
}

func TestBoard_CountInvariantAlongAnyGame(t *testing.T) {
	// Given: the initial board
	board := NewBoard()

	// When: always playing the last legal move until the game ends
	for !board.IsTerminal() {
		moves := board.LegalMoves()

		var err error
		board, err = board.Apply(moves[len(moves)-1])
		require.NoError(t, err)

		// Then: every reachable board re-parses to the same position
		reparsed, err := ParseBoard(board.Cells())
		require.NoError(t, err)
		assert.Equal(t, board, reparsed)
	}
}

func TestBoard_JSON(t *testing.T) {
	t.Run("Encodes the grid and decodes through validation", func(t *testing.T) {
		// Given: a board with two moves
		board := mustParse(t, [3][3]Mark{{X, E, E}, {E, O, E}, {E, E, E}})

		// When: encoding it
		data, err := json.Marshal(board)
		require.NoError(t, err)

		// Then: the grid is a nested array of marks
		assert.JSONEq(t, `[["X","",""],["","O",""],["","",""]]`, string(data))

		// And: decoding restores the same board
		var decoded Board
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, board, decoded)
	})

	t.Run("Rejects an invalid grid", func(t *testing.T) {
		var decoded Board

		err := json.Unmarshal([]byte(`[["O","",""],["","",""],["","",""]]`), &decoded)

		require.ErrorIs(t, err, apperror.ErrInvalidState)
	})
}

func TestBoard_String(t *testing.T) {
	board := mustParse(t, [3][3]Mark{{X, E, E}, {E, O, E}, {E, E, E}})

	assert.Equal(t, "X..\n.O.\n...", board.String())
}

func TestBoard_ReachablePositions(t *testing.T) {
	// Given: every position reachable from the initial board
	seen := map[Board]bool{}

	var walk func(board Board)
	walk = func(board Board) {
		if seen[board] {
			return
		}
		seen[board] = true

		// Then: the counts of X and O marks respect the turn order
		_, err := ParseBoard(board.Cells())
		require.NoError(t, err)

		if board.IsTerminal() {
			winner, ok := board.Winner()
			switch {
			case ok && winner == PlayerX:
				assert.Equal(t, 1, board.Utility())
			case ok:
				assert.Equal(t, -1, board.Utility())
			default:
				assert.Equal(t, 0, board.Utility())
				assert.Empty(t, board.LegalMoves())
			}
			return
		}

		moves := board.LegalMoves()
		for _, move := range moves {
			next, err := board.Apply(move)
			require.NoError(t, err)
			assert.Len(t, next.LegalMoves(), len(moves)-1)

			walk(next)
		}
	}

	walk(NewBoard())

	// And: the game has the well-known number of distinct positions
	assert.Len(t, seen, 5478)
}
