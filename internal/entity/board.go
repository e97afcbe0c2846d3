package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
)

const (
	BorderMin = 0
	BorderMax = 2

	boardSize = 3
)

type Mark string

const (
	EmptyCell Mark = ""
	MarkX     Mark = "X"
	MarkO     Mark = "O"
)

type Player string

const (
	PlayerX Player = "X"
	PlayerO Player = "O"
)

func (that Player) Mark() Mark {
	return Mark(that)
}

func (that Player) Opponent() Player {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Player) IsValid() bool {
	return that == PlayerX || that == PlayerO
}

type Outcome string

const (
	XWins      Outcome = "x_wins"
	OWins      Outcome = "o_wins"
	Draw       Outcome = "draw"
	InProgress Outcome = "in_progress"
)

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) InRange() bool {
	return that.Row >= BorderMin && that.Row <= BorderMax &&
		that.Col >= BorderMin && that.Col <= BorderMax
}

func (that Move) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// lines lists every winning line in scan order: rows top to bottom, columns
// left to right, the main diagonal, then the anti-diagonal.
var lines = [8][3]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is an immutable tic-tac-toe position. The zero value is the empty
// board with X to move.
type Board struct {
	cells [boardSize][boardSize]Mark
	turn  Player
}

// NewBoard returns the empty grid with X to move.
func NewBoard() Board {
	return Board{turn: PlayerX}
}

// ParseBoard builds a board from cells coming from outside the process. The
// player to move is derived from the number of empty cells.
func ParseBoard(cells [boardSize][boardSize]Mark) (Board, error) {
	xCount, oCount, err := countMarks(cells)
	if err != nil {
		return Board{}, err
	}

	if xCount < oCount || xCount > oCount+1 {
		return Board{}, fmt.Errorf("%w: %d X marks and %d O marks", apperror.ErrInvalidState, xCount, oCount)
	}

	return Board{cells: cells, turn: turnFromCounts(xCount, oCount)}, nil
}

// ParseBoardWithTurn builds a board with an explicit player to move. Mark
// counts are not checked, so positions outside normal play can be analysed.
func ParseBoardWithTurn(cells [boardSize][boardSize]Mark, turn Player) (Board, error) {
	if !turn.IsValid() {
		return Board{}, fmt.Errorf("%w: unknown player to move %q", apperror.ErrInvalidState, turn)
	}

	if _, _, err := countMarks(cells); err != nil {
		return Board{}, err
	}

	return Board{cells: cells, turn: turn}, nil
}

func countMarks(cells [boardSize][boardSize]Mark) (int, int, error) {
	var xCount, oCount int

	for r := range cells {
		for c, cell := range cells[r] {
			switch cell {
			case MarkX:
				xCount++
			case MarkO:
				oCount++
			case EmptyCell:
			default:
				return 0, 0, fmt.Errorf("%w: unknown mark %q at (%d,%d)", apperror.ErrInvalidState, cell, r, c)
			}
		}
	}

	return xCount, oCount, nil
}

func turnFromCounts(xCount, oCount int) Player {
	if xCount > oCount {
		return PlayerO
	}
	return PlayerX
}

func (that Board) Cells() [boardSize][boardSize]Mark {
	return that.cells
}

func (that Board) At(row, col int) Mark {
	return that.cells[row][col]
}

// CurrentPlayer returns the player to move. Boards built without an explicit
// turn, such as the zero value, derive it from the mark counts.
func (that Board) CurrentPlayer() Player {
	if that.turn.IsValid() {
		return that.turn
	}

	xCount, oCount, _ := countMarks(that.cells)

	return turnFromCounts(xCount, oCount)
}

// LegalMoves returns the empty cells in row-major order.
func (that Board) LegalMoves() []Move {
	moves := make([]Move, 0, boardSize*boardSize)
	for r := range that.cells {
		for c, cell := range that.cells[r] {
			if cell == EmptyCell {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}

	return moves
}

// Apply places the current player's mark on move and returns the resulting board.
func (that Board) Apply(move Move) (Board, error) {
	if !move.InRange() {
		return that, fmt.Errorf("%w: cell %s is out of range", apperror.ErrInvalidMove, move)
	}

	if that.cells[move.Row][move.Col] != EmptyCell {
		return that, fmt.Errorf("%w: cell %s is already occupied", apperror.ErrInvalidMove, move)
	}

	player := that.CurrentPlayer()

	next := that
	next.cells[move.Row][move.Col] = player.Mark()
	next.turn = player.Opponent()

	return next, nil
}

// Winner reports the owner of the first complete line in scan order.
func (that Board) Winner() (Player, bool) {
	for _, line := range lines {
		a := that.cells[line[0].Row][line[0].Col]
		b := that.cells[line[1].Row][line[1].Col]
		c := that.cells[line[2].Row][line[2].Col]

		if a != EmptyCell && a == b && b == c {
			return Player(a), true
		}
	}

	return "", false
}

func (that Board) isFull() bool {
	for r := range that.cells {
		for _, cell := range that.cells[r] {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}

func (that Board) IsTerminal() bool {
	if _, ok := that.Winner(); ok {
		return true
	}

	return that.isFull()
}

// Utility scores a terminal board from X's side: 1 if X won, -1 if O won, 0 otherwise.
func (that Board) Utility() int {
	winner, ok := that.Winner()
	switch {
	case !ok:
		return 0
	case winner == PlayerX:
		return 1
	default:
		return -1
	}
}

func (that Board) Outcome() Outcome {
	if winner, ok := that.Winner(); ok {
		if winner == PlayerX {
			return XWins
		}
		return OWins
	}

	if that.isFull() {
		return Draw
	}

	return InProgress
}

func (that Board) String() string {
	var sb strings.Builder

	for r := range that.cells {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range that.cells[r] {
			if cell == EmptyCell {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(string(cell))
		}
	}

	return sb.String()
}

func (that Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.cells)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var cells [boardSize][boardSize]Mark
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	board, err := ParseBoard(cells)
	if err != nil {
		return err
	}

	*that = board

	return nil
}
