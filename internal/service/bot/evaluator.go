package bot

import "github.com/iamasit07/gomoku/backend/internal/domain"

const (
	// FiveScore is what a cell earns when placing there completes five.
	FiveScore = 256
	// WinSentinel marks a five that is already on the board.
	WinSentinel = 1024
)

// lineScores is indexed by [strength-1][open-end bonus].
var lineScores = [5][2]int{
	{0, 1},
	{2, 3},
	{4, 12},
	{10, 64},
	{FiveScore, FiveScore},
}

// Aggregation decides how the four axis scores of a cell are combined.
type Aggregation int

const (
	AggregateMax Aggregation = iota
	AggregateSum
)

func (a Aggregation) String() string {
	if a == AggregateSum {
		return "sum"
	}
	return "max"
}

// CellScore is the ScorePair of one cell plus the facts the decision needs.
// AIScore belongs to the side the engine plays for, HumanScore to its
// opponent.
type CellScore struct {
	Index      int             `json:"index"`
	AIScore    int             `json:"aiScore"`
	HumanScore int             `json:"humanScore"`
	AIFive     bool            `json:"aiFive,omitempty"`
	HumanFive  bool            `json:"humanFive,omitempty"`
	Occupant   domain.PlayerID `json:"occupant,omitempty"`
	Completed  domain.PlayerID `json:"completed,omitempty"`
}

func (s CellScore) Combined() int {
	return s.AIScore + s.HumanScore
}

// Eligible reports whether the cell can be selected: an empty cell or the
// end of a five already on the board.
func (s CellScore) Eligible() bool {
	return s.Occupant == domain.Empty || s.Completed != domain.Empty
}

// tableScore maps one alignment's shape to the score table.
func tableScore(run, total, openEnds int) (score, strength int) {
	row, col := total, 0
	if run >= total {
		row = min(run, domain.ToWin)
		col = max(openEnds-1, 0)
	}
	return lineScores[row-1][col], row
}

// scoreAlignment scores one window for p. ok is false when the alignment
// is discarded.
func scoreAlignment(w window, slot int, occupied bool, p domain.PlayerID) (score, strength int, ok bool) {
	total := 0
	for l := 1; l <= domain.ToWin; l++ {
		v := w[l]
		switch {
		case v == offBoard:
			return 0, 0, false
		case v == p:
			total++
		case occupied || v != domain.Empty:
			return 0, 0, false
		}
	}

	run, openEnds := 0, 0
	j := slot - 1
	for j >= 0 && w[j] == p {
		run++
		j--
	}
	if j >= 0 && w[j] == domain.Empty {
		openEnds++
	}
	j = slot
	for j < windowSize && w[j] == p {
		run++
		j++
	}
	if j < windowSize && w[j] == domain.Empty {
		openEnds++
	}

	score, strength = tableScore(run, total, openEnds)
	if strength == domain.ToWin && occupied {
		score = WinSentinel
	}
	return score, strength, true
}

// scoreAxis returns the best alignment score of the cell on one axis and
// whether any alignment reaches five.
func scoreAxis(board *domain.Board, index int, axis Axis, p domain.PlayerID) (int, bool) {
	row, col := board.RowCol(index)
	occupied := board.ValueAt(index) != domain.Empty

	alignments := domain.ToWin
	if occupied {
		alignments = 1
	}

	best, five := 0, false
	for k := 0; k < alignments; k++ {
		w := readWindow(board, row, col, axis, k, p)
		score, strength, ok := scoreAlignment(w, 5-k, occupied, p)
		if !ok {
			continue
		}
		if strength == domain.ToWin {
			five = true
		}
		best = max(best, score)
	}
	return best, five
}

// scorePlayer treats the cell as p and combines the four axes.
func scorePlayer(board *domain.Board, index int, p domain.PlayerID, agg Aggregation) (int, bool) {
	total, five := 0, false
	for _, axis := range Axes {
		score, f := scoreAxis(board, index, axis, p)
		five = five || f
		if agg == AggregateSum {
			total += score
		} else {
			total = max(total, score)
		}
	}
	return total, five
}

// ScoreCell computes the ScorePair of one cell. Empty cells are scored for
// both sides; an occupied cell only for its occupant.
func ScoreCell(board *domain.Board, index int, aiPlayer domain.PlayerID, agg Aggregation) CellScore {
	occupant := board.ValueAt(index)
	cs := CellScore{Index: index, Occupant: occupant}

	if occupant == domain.Empty {
		cs.AIScore, cs.AIFive = scorePlayer(board, index, aiPlayer, agg)
		cs.HumanScore, cs.HumanFive = scorePlayer(board, index, aiPlayer.Opponent(), agg)
		return cs
	}

	score, five := scorePlayer(board, index, occupant, agg)
	if five {
		cs.Completed = occupant
	}
	if occupant == aiPlayer {
		cs.AIScore = score
	} else {
		cs.HumanScore = score
	}
	return cs
}

// ScoreBoard scores every cell in ascending index order.
func ScoreBoard(board *domain.Board, aiPlayer domain.PlayerID, agg Aggregation) []CellScore {
	scores := make([]CellScore, board.Len())
	for i := range scores {
		scores[i] = ScoreCell(board, i, aiPlayer, agg)
	}
	return scores
}
