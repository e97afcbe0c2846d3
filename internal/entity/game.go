package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

// Game is a human-vs-solver session kept by the driver.
type Game struct {
	ID      string  `json:"id"`
	Board   Board   `json:"board"`
	Human   Player  `json:"human"`
	Turn    Player  `json:"player_turn,omitempty"`
	Status  string  `json:"status"`
	Outcome Outcome `json:"outcome"`
}

func NewGame(id string, human Player) *Game {
	game := &Game{
		ID:    id,
		Board: NewBoard(),
		Human: human,
	}
	game.UpdateStatus()

	return game
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsHumanTurn() bool {
	return that.IsOngoing() && that.Board.CurrentPlayer() == that.Human
}

// MakeTurn applies move for player and refreshes the game status.
func (that *Game) MakeTurn(player Player, move Move) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Board.CurrentPlayer() != player {
		return apperror.ErrNotYourTurn
	}

	next, err := that.Board.Apply(move)
	if err != nil {
		return fmt.Errorf("player %s: %w", player, err)
	}

	that.Board = next
	that.UpdateStatus()

	return nil
}

func (that *Game) UpdateStatus() {
	that.Outcome = that.Board.Outcome()

	if that.Board.IsTerminal() {
		that.Status = StatusFinished
		that.Turn = ""
		return
	}

	that.Status = StatusOngoing
	that.Turn = that.Board.CurrentPlayer()
}
