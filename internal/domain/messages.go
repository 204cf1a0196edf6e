package domain

type ClientMessage struct {
	Type       string `json:"type"`
	JWT        string `json:"jwt,omitempty"`
	GameID     string `json:"gameId,omitempty"`
	Index      *int   `json:"index,omitempty"`
	BoardSize  int    `json:"boardSize,omitempty"`
	AIFirst    string `json:"aiFirst,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

type ServerMessage struct {
	Type       string  `json:"type"`
	Message    string  `json:"message,omitempty"`
	GameID     string  `json:"gameId,omitempty"`
	Opponent   string  `json:"opponent,omitempty"`
	BoardSize  int     `json:"boardSize,omitempty"`
	Index      *int    `json:"index,omitempty"`
	Player     int     `json:"player,omitempty"`
	Board      [][]int `json:"board,omitempty"`
	Moves      []Move  `json:"moves,omitempty"`
	NextTurn   int     `json:"nextTurn,omitempty"`
	Winner     string  `json:"winner,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	AIScore    int     `json:"aiScore,omitempty"`
	HumanScore int     `json:"humanScore,omitempty"`
	Difficulty string  `json:"difficulty,omitempty"`
	Status     string  `json:"status,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
