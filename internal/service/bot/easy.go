package bot

import (
	"math/rand"
	"sync"
	"time"

	"github.com/iamasit07/gomoku/backend/internal/domain"
)

// Easy wins or blocks fives like the evaluator and otherwise plays a random
// cell next to an existing stone.
type Easy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewEasy(rng *rand.Rand) *Easy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Easy{rng: rng}
}

func (e *Easy) Evaluate(board *domain.Board, aiPlayer domain.PlayerID) (Decision, error) {
	d, err := Evaluator{Aggregation: AggregateMax}.Evaluate(board, aiPlayer)
	if err != nil {
		return Decision{}, err
	}

	// a five to complete or to stop is never left to chance
	if d.Terminal || d.AIThreat >= FiveScore || d.HumanThreat >= FiveScore {
		return d, nil
	}

	candidates := neighbourCells(board)
	if len(candidates) == 0 {
		return d, nil
	}

	e.mu.Lock()
	index := candidates[e.rng.Intn(len(candidates))]
	e.mu.Unlock()

	cs := ScoreCell(board, index, aiPlayer, AggregateMax)
	return Decision{
		ChosenIndex: index,
		HasMove:     true,
		AIThreat:    cs.AIScore,
		HumanThreat: cs.HumanScore,
	}, nil
}

// neighbourCells lists the empty cells touching a stone, in index order.
// An empty board yields only the centre.
func neighbourCells(board *domain.Board) []int {
	if board.MoveCount() == 0 {
		return []int{board.Center()}
	}

	var cells []int
	for i := 0; i < board.Len(); i++ {
		if board.ValueAt(i) != domain.Empty {
			continue
		}
		if hasNeighbour(board, i) {
			cells = append(cells, i)
		}
	}
	return cells
}

func hasNeighbour(board *domain.Board, index int) bool {
	row, col := board.RowCol(index)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if board.At(row+dr, col+dc) != domain.Empty {
				return true
			}
		}
	}
	return false
}
