package domain

// Ordering picks which straight run of a move comes first.
type Ordering uint8

const (
	FrontalFirst Ordering = iota + 1 // along the row axis, then the column axis
	LateralFirst                     // along the column axis, then the row axis
)

func (o Ordering) String() string {
	switch o {
	case FrontalFirst:
		return "frontally"
	case LateralFirst:
		return "laterally"
	default:
		return "unknown"
	}
}

// Move is one turn's intent: roll the die on From to To.
type Move struct {
	From     Pos
	To       Pos
	Ordering Ordering
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

// openRun reports whether a straight run from one cell to another along a
// single axis is clear for side. budget is the number of steps left in
// the whole move when the run starts. Only the last step of the whole
// move may land on a die, and only on an opponent's.
func openRun(b *Board, from, to Pos, budget int, side Side) bool {
	dr, dc := sign(to.Row-from.Row), sign(to.Col-from.Col)
	cur := from
	for cur != to {
		cur = Pos{cur.Row + dr, cur.Col + dc}
		if b.IsOccupied(cur.Row, cur.Col) {
			return budget == 1 && cur == to && !b.IsSide(cur.Row, cur.Col, side)
		}
		budget--
	}
	return true
}

// LegalOrderings reports which orderings can carry the die of side on
// from to to. A straight move has only the ordering along its axis.
func LegalOrderings(b *Board, from, to Pos, side Side) (frontal, lateral bool) {
	if !InBounds(from.Row, from.Col) || !InBounds(to.Row, to.Col) {
		return false, false
	}
	d, ok := b.DieAt(from.Row, from.Col)
	if !ok || d.side != side {
		return false, false
	}
	rows, cols := abs(to.Row-from.Row), abs(to.Col-from.Col)
	budget := d.top
	if budget != rows+cols {
		return false, false
	}
	if rows > 0 {
		corner := Pos{to.Row, from.Col}
		frontal = openRun(b, from, corner, budget, side) &&
			(cols == 0 || openRun(b, corner, to, cols, side))
	}
	if cols > 0 {
		corner := Pos{from.Row, to.Col}
		lateral = openRun(b, from, corner, budget, side) &&
			(rows == 0 || openRun(b, corner, to, rows, side))
	}
	return frontal, lateral
}

// CanMoveToSpace reports whether the die of side on (dieRow, dieCol) can
// legally roll to (spaceRow, spaceCol). The board is not changed.
func CanMoveToSpace(b *Board, dieRow, dieCol, spaceRow, spaceCol int, side Side) bool {
	f, l := LegalOrderings(b, Pos{dieRow, dieCol}, Pos{spaceRow, spaceCol}, side)
	return f || l
}

// ChooseOrdering picks an open ordering for the move, flipping a coin
// when both are open.
func ChooseOrdering(b *Board, from, to Pos, side Side, rng Rand) (Ordering, bool) {
	f, l := LegalOrderings(b, from, to, side)
	switch {
	case f && l:
		if rng.Intn(2) == 0 {
			return FrontalFirst, true
		}
		return LateralFirst, true
	case f:
		return FrontalFirst, true
	case l:
		return LateralFirst, true
	}
	return 0, false
}

// rollRun rolls the die on from one step at a time to to, which must
// share a row or a column with it.
func rollRun(b *Board, from, to Pos) {
	var dir Direction
	switch {
	case to.Row > from.Row:
		dir = Up
	case to.Row < from.Row:
		dir = Down
	case to.Col > from.Col:
		dir = Right
	case to.Col < from.Col:
		dir = Left
	default:
		return
	}
	dr, dc := sign(to.Row-from.Row), sign(to.Col-from.Col)
	for cur := from; cur != to; cur = (Pos{cur.Row + dr, cur.Col + dc}) {
		b.RollStep(cur.Row, cur.Col, dir)
	}
}

// ApplyMove rolls the die along both runs of m and returns the die it
// captured, if any. Legality must already have been checked.
func ApplyMove(b *Board, m Move) (Die, bool) {
	captured, took := b.DieAt(m.To.Row, m.To.Col)
	corner := Pos{m.To.Row, m.From.Col}
	if m.Ordering == LateralFirst {
		corner = Pos{m.From.Row, m.To.Col}
	}
	rollRun(b, m.From, corner)
	rollRun(b, corner, m.To)
	return captured, took
}

// HasLegalMove reports whether side can move any die anywhere.
func HasLegalMove(b *Board, side Side) bool {
	for _, p := range b.dice(side) {
		if len(destinations(b, p, side)) > 0 {
			return true
		}
	}
	return false
}

// destinations lists every cell the die on p can legally reach.
func destinations(b *Board, p Pos, side Side) []Pos {
	pips := b.TopFace(p.Row, p.Col)
	var out []Pos
	for dr := -pips; dr <= pips; dr++ {
		rest := pips - abs(dr)
		for _, dc := range []int{-rest, rest} {
			to := Pos{p.Row + dr, p.Col + dc}
			if CanMoveToSpace(b, p.Row, p.Col, to.Row, to.Col, side) {
				out = append(out, to)
			}
			if rest == 0 {
				break
			}
		}
	}
	return out
}
