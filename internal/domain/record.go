package domain

import "time"

// GameRecord is a finished game as it is persisted and listed in history.
type GameRecord struct {
	GameID          string    `json:"gameId"`
	PlayerID        string    `json:"playerId"`
	PlayerName      string    `json:"playerName"`
	BoardSize       int       `json:"boardSize"`
	AIFirst         bool      `json:"aiFirst"`
	Difficulty      string    `json:"difficulty"`
	Winner          string    `json:"winner"`
	Reason          string    `json:"reason"`
	TotalMoves      int       `json:"totalMoves"`
	DurationSeconds int       `json:"durationSeconds"`
	CreatedAt       time.Time `json:"createdAt"`
	FinishedAt      time.Time `json:"finishedAt"`
	Moves           []Move    `json:"moves,omitempty"`
}

// WinnerLabel is the value stored in GameRecord.Winner.
func WinnerLabel(winner PlayerID) string {
	if winner == Empty {
		return ReasonDraw
	}
	return winner.String()
}
