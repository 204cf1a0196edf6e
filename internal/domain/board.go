package domain

import (
	"fmt"
	"strings"
)

// Move is one entry of the board's move log.
type Move struct {
	Index  int      `json:"index"`
	Player PlayerID `json:"player"`
}

// Board is a square grid stored row-major in a flat slice, together with
// the chronological log of the moves that produced it.
type Board struct {
	size  int
	cells []PlayerID
	moves []Move
}

// ValidateSize checks size against the supported range.
func ValidateSize(size int) error {
	if size < MinBoardSize || size > MaxBoardSize {
		return fmt.Errorf("%w: size %d is outside %d..%d", ErrInvalidBoard, size, MinBoardSize, MaxBoardSize)
	}
	return nil
}

func NewBoard(size int) (*Board, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	return &Board{
		size:  size,
		cells: make([]PlayerID, size*size),
	}, nil
}

// ReplayBoard rebuilds a board by applying the move log in order.
func ReplayBoard(size int, moves []Move) (*Board, error) {
	b, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	for i, m := range moves {
		if err := b.Place(m.Index, m.Player); err != nil {
			return nil, fmt.Errorf("replay move %d: %w", i, err)
		}
	}
	return b, nil
}

// BoardFromCells builds a board from a flat occupancy array. The move log is
// synthesised in index order since the real order is unknown.
func BoardFromCells(size int, cells []int) (*Board, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	if len(cells) != size*size {
		return nil, fmt.Errorf("%w: expected %d cells, got %d", ErrInvalidBoard, size*size, len(cells))
	}
	b, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	for i, v := range cells {
		p := PlayerID(v)
		if p == Empty {
			continue
		}
		if err := b.Place(i, p); err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
	}
	return b, nil
}

func (b *Board) Size() int {
	return b.size
}

// Len is the number of cells on the board.
func (b *Board) Len() int {
	return len(b.cells)
}

func (b *Board) InRange(index int) bool {
	return index >= 0 && index < len(b.cells)
}

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

func (b *Board) Index(row, col int) int {
	return row*b.size + col
}

func (b *Board) RowCol(index int) (int, int) {
	return index / b.size, index % b.size
}

// ValueAt returns the occupant of a cell; out of range reads as Empty.
func (b *Board) ValueAt(index int) PlayerID {
	if !b.InRange(index) {
		return Empty
	}
	return b.cells[index]
}

func (b *Board) At(row, col int) PlayerID {
	if !b.InBounds(row, col) {
		return Empty
	}
	return b.cells[b.Index(row, col)]
}

// Place puts a stone for player on an empty cell and records the move.
func (b *Board) Place(index int, player PlayerID) error {
	if !player.IsPlayer() {
		return fmt.Errorf("%w: unknown player %d", ErrIllegalMove, player)
	}
	if !b.InRange(index) {
		return fmt.Errorf("%w: index %d out of range", ErrIllegalMove, index)
	}
	if b.cells[index] != Empty {
		return fmt.Errorf("%w: cell %d is occupied", ErrIllegalMove, index)
	}
	b.cells[index] = player
	b.moves = append(b.moves, Move{Index: index, Player: player})
	return nil
}

// UndoLastTurn removes the two most recent moves (the human's and the reply)
// so it is the human's turn again.
func (b *Board) UndoLastTurn() error {
	if len(b.moves) < 2 {
		return ErrNothingToUndo
	}
	for i := 0; i < 2; i++ {
		last := b.moves[len(b.moves)-1]
		b.moves = b.moves[:len(b.moves)-1]
		b.cells[last.Index] = Empty
	}
	return nil
}

func (b *Board) Moves() []Move {
	return append([]Move(nil), b.moves...)
}

func (b *Board) MoveCount() int {
	return len(b.moves)
}

func (b *Board) LastMove() (Move, bool) {
	if len(b.moves) == 0 {
		return Move{}, false
	}
	return b.moves[len(b.moves)-1], true
}

func (b *Board) EmptyCount() int {
	return len(b.cells) - len(b.moves)
}

func (b *Board) IsFull() bool {
	return b.EmptyCount() == 0
}

// Center is the opening cell used when the AI moves first.
func (b *Board) Center() int {
	return (b.size / 2) * (1 + b.size)
}

// this creates a deep copy of the board
func (b *Board) Copy() *Board {
	clone := &Board{size: b.size}
	clone.cells = append([]PlayerID(nil), b.cells...)
	clone.moves = append([]Move(nil), b.moves...)
	return clone
}

// Cells returns the flat occupancy array as plain ints.
func (b *Board) Cells() []int {
	out := make([]int, len(b.cells))
	for i, c := range b.cells {
		out[i] = int(c)
	}
	return out
}

// Rows returns the board as a row-major 2-D slice for wire messages.
func (b *Board) Rows() [][]int {
	rows := make([][]int, b.size)
	for r := range rows {
		rows[r] = make([]int, b.size)
		for c := range rows[r] {
			rows[r][c] = int(b.cells[b.Index(r, c)])
		}
	}
	return rows
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			sb.WriteString(b.At(r, c).Symbol())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
