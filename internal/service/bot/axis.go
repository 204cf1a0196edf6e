package bot

import "github.com/iamasit07/gomoku/backend/internal/domain"

// Axis is a line direction expressed as a row/col step.
type Axis struct {
	Name    string
	RowStep int
	ColStep int
}

var Axes = [4]Axis{
	{Name: "vertical", RowStep: 1, ColStep: 0},
	{Name: "horizontal", RowStep: 0, ColStep: 1},
	{Name: "diagonal", RowStep: 1, ColStep: 1},
	{Name: "anti-diagonal", RowStep: 1, ColStep: -1},
}

const (
	windowSize = 7
	// offBoard marks a window slot that falls outside the grid.
	offBoard domain.PlayerID = -1
)

// window is the seven-slot view of one alignment. Slots 1..5 are the
// candidate five, slots 0 and 6 are the padding read for open ends.
type window [windowSize]domain.PlayerID

// readWindow fills the window for alignment k around (row, col). The
// scanned cell lands on slot 5-k and is read as p.
func readWindow(board *domain.Board, row, col int, axis Axis, k int, p domain.PlayerID) window {
	var w window
	for l := 0; l < windowSize; l++ {
		d := -5 + k + l
		if d == 0 {
			w[l] = p
			continue
		}
		r, c := row+d*axis.RowStep, col+d*axis.ColStep
		if !board.InBounds(r, c) {
			w[l] = offBoard
			continue
		}
		w[l] = board.At(r, c)
	}
	return w
}
