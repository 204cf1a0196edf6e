package domain

var lineDirections = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// HasFive reports whether player owns at least ToWin stones in a row.
func (b *Board) HasFive(player PlayerID) bool {
	for _, m := range b.moves {
		if m.Player != player {
			continue
		}
		row, col := b.RowCol(m.Index)
		for _, dir := range lineDirections {
			total := 1 + b.countInDirection(row, col, dir[0], dir[1], player) +
				b.countInDirection(row, col, -dir[0], -dir[1], player)
			if total >= ToWin {
				return true
			}
		}
	}
	return false
}

// this counts the number of stones in a specific direction
func (b *Board) countInDirection(row, col, deltaRow, deltaCol int, player PlayerID) int {
	count := 0
	r, c := row+deltaRow, col+deltaCol
	for b.InBounds(r, c) && b.At(r, c) == player {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}
