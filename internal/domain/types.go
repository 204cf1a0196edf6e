package domain

type PlayerID int

const (
	Empty PlayerID = 0
	AI    PlayerID = 1
	Human PlayerID = 2
)

const (
	DefaultBoardSize = 20
	MinBoardSize     = 5
	MaxBoardSize     = 50
	ToWin            = 5
)

func (p PlayerID) IsPlayer() bool {
	return p == AI || p == Human
}

// Opponent returns the other side; Empty has no opponent.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case AI:
		return Human
	case Human:
		return AI
	default:
		return Empty
	}
}

func (p PlayerID) String() string {
	switch p {
	case AI:
		return "ai"
	case Human:
		return "human"
	default:
		return "empty"
	}
}

// Symbol is the single-character rendering used by Board.String.
func (p PlayerID) Symbol() string {
	switch p {
	case AI:
		return "X"
	case Human:
		return "O"
	default:
		return "-"
	}
}

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// Reasons recorded when a game finishes.
const (
	ReasonFiveInARow = "five_in_a_row"
	ReasonDraw       = "draw"
	ReasonAbandoned  = "abandoned"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrIllegalMove   Error = "illegal move"
	ErrNothingToUndo Error = "nothing to undo"
	ErrInvalidBoard  Error = "invalid board"
	ErrGameOver      Error = "game is over"
	ErrNotYourTurn   Error = "not your turn"
	ErrGameNotFound  Error = "game not found"
	ErrNotAPlayer    Error = "not a player in this game"
)

var BotNames = map[string]string{
	"easy":   "Alice",
	"medium": "Bob",
	"hard":   "Charles",
}

func GetBotName(difficulty string) string {
	if name, ok := BotNames[difficulty]; ok {
		return name
	}
	return "BOT"
}
