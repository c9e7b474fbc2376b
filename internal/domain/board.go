package domain

// Board dimensions. Rows and columns are 1-indexed.
const (
	Rows = 8
	Cols = 9
)

// Pos is a board coordinate.
type Pos struct {
	Row, Col int
}

// InBounds reports whether (row, col) is on the board.
func InBounds(row, col int) bool {
	return row >= 1 && row <= Rows && col >= 1 && col <= Cols
}

// KeyCell returns the cell a side defends.
func KeyCell(side Side) Pos {
	if side == SideB {
		return Pos{Row: Rows, Col: 5}
	}
	return Pos{Row: 1, Col: 5}
}

// Cell holds at most one die.
type Cell struct {
	die      Die
	occupied bool
}

// Die returns the die on the cell, if any.
func (c Cell) Die() (Die, bool) { return c.die, c.occupied }

// Occupied reports whether a die is on the cell.
func (c Cell) Occupied() bool { return c.occupied }

func (c *Cell) place(d Die) {
	c.die = d
	c.occupied = true
}

func (c *Cell) clear() {
	c.die = Die{}
	c.occupied = false
}

// Board is the 8x9 grid. It is a plain value: assigning a Board copies it.
type Board struct {
	cells [Rows][Cols]Cell
}

// NewBoard returns an empty board.
func NewBoard() *Board { return &Board{} }

func (b *Board) cell(row, col int) *Cell { return &b.cells[row-1][col-1] }

// Clear removes every die.
func (b *Board) Clear() {
	for r := range b.cells {
		for c := range b.cells[r] {
			b.cells[r][c].clear()
		}
	}
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	cp := *b
	return &cp
}

// PlaceDie puts d on (row, col), replacing whatever was there.
func (b *Board) PlaceDie(d Die, row, col int) {
	b.cell(row, col).place(d)
}

// RemoveDie empties (row, col).
func (b *Board) RemoveDie(row, col int) {
	if InBounds(row, col) {
		b.cell(row, col).clear()
	}
}

// RollStep tumbles the die on (row, col) one cell in dir and moves it
// there, capturing anything on the target cell. It reports false for an
// unknown direction or a target off the board.
func (b *Board) RollStep(row, col int, dir Direction) bool {
	tr, tc := row, col
	switch dir {
	case Up:
		tr++
	case Down:
		tr--
	case Left:
		tc--
	case Right:
		tc++
	default:
		return false
	}
	if !InBounds(row, col) || !InBounds(tr, tc) {
		return false
	}
	from := b.cell(row, col)
	d := from.die
	d.Roll(dir)
	b.cell(tr, tc).place(d)
	from.clear()
	return true
}

// DieAt returns the die on (row, col), if any.
func (b *Board) DieAt(row, col int) (Die, bool) {
	if !InBounds(row, col) {
		return Die{}, false
	}
	return b.cell(row, col).Die()
}

func (b *Board) IsOccupied(row, col int) bool {
	return InBounds(row, col) && b.cell(row, col).occupied
}

// IsSide reports whether (row, col) holds a die owned by side.
func (b *Board) IsSide(row, col int, side Side) bool {
	d, ok := b.DieAt(row, col)
	return ok && d.side == side
}

// IsKeyDie reports whether (row, col) holds a key die.
func (b *Board) IsKeyDie(row, col int) bool {
	d, ok := b.DieAt(row, col)
	return ok && d.IsKey()
}

// TopFace returns the top face of the die on (row, col), or 0 when empty.
func (b *Board) TopFace(row, col int) int {
	d, ok := b.DieAt(row, col)
	if !ok {
		return 0
	}
	return d.top
}

// NameOf returns the label of the die on (row, col), or "" when empty.
func (b *Board) NameOf(row, col int) string {
	d, ok := b.DieAt(row, col)
	if !ok {
		return ""
	}
	return d.Label()
}

// Count returns the number of dice owned by side. Unowned counts every die.
func (b *Board) Count(side Side) int {
	n := 0
	for r := range b.cells {
		for c := range b.cells[r] {
			cl := b.cells[r][c]
			if cl.occupied && (side == Unowned || cl.die.side == side) {
				n++
			}
		}
	}
	return n
}

// Each visits every cell in scan order: rows 8 down to 1, columns 1 to 9.
// Returning false stops the walk. Search tie-breaks depend on this order.
func (b *Board) Each(fn func(p Pos, c Cell) bool) {
	for row := Rows; row >= 1; row-- {
		for col := 1; col <= Cols; col++ {
			if !fn(Pos{row, col}, *b.cell(row, col)) {
				return
			}
		}
	}
}

// dice lists the positions of side's dice in scan order.
func (b *Board) dice(side Side) []Pos {
	var out []Pos
	b.Each(func(p Pos, c Cell) bool {
		if c.occupied && c.die.side == side {
			out = append(out, p)
		}
		return true
	})
	return out
}

// FindKeyDie locates side's key die, first in scan order.
func (b *Board) FindKeyDie(side Side) (Pos, bool) {
	var at Pos
	found := false
	b.Each(func(p Pos, c Cell) bool {
		if c.occupied && c.die.side == side && c.die.IsKey() {
			at, found = p, true
			return false
		}
		return true
	})
	return at, found
}

// openingRow is the (top, right) pair for columns 1..9 of each home row.
var openingRow = [Cols][2]int{
	{5, 6}, {1, 5}, {2, 1}, {6, 2}, {1, 1}, {6, 2}, {2, 1}, {1, 5}, {5, 6},
}

// SetupOpening clears the board and lays out both sides' nine dice.
func (b *Board) SetupOpening() {
	b.Clear()
	for i, tr := range openingRow {
		b.PlaceDie(NewDie(tr[0], tr[1], SideA), 1, i+1)
		b.PlaceDie(NewDie(tr[0], tr[1], SideB), Rows, i+1)
	}
}
