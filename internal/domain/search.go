package domain

import "errors"

// Rand is the source of every random choice the engine makes.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Strategy names the rule of the cascade that produced a move.
type Strategy uint8

const (
	StrategyNone Strategy = iota
	StrategyKeyDieCapture
	StrategyKeySpaceCapture
	StrategyBlockKeyDie
	StrategyBlockKeySpace
	StrategyDieCapture
	StrategyRandom
)

func (s Strategy) String() string {
	switch s {
	case StrategyKeyDieCapture:
		return "keyDieCapture"
	case StrategyKeySpaceCapture:
		return "keySpaceCapture"
	case StrategyBlockKeyDie:
		return "blockKeyDie"
	case StrategyBlockKeySpace:
		return "blockKeySpace"
	case StrategyDieCapture:
		return "dieCapture"
	case StrategyRandom:
		return "random"
	default:
		return "none"
	}
}

// ErrNoLegalMove is returned when a side has nothing it can move.
var ErrNoLegalMove = errors.New("no legal move")

// FindMove runs the move cascade for side and returns the first move it
// finds together with the rule that found it. The board is not changed.
func FindMove(b *Board, side Side, rng Rand) (Move, Strategy, error) {
	rules := []struct {
		strategy Strategy
		find     func(*Board, Side) (Move, bool)
	}{
		{StrategyKeyDieCapture, captureKeyDie},
		{StrategyKeySpaceCapture, captureKeySpace},
		{StrategyBlockKeyDie, blockKeyDie},
		{StrategyBlockKeySpace, blockKeySpace},
		{StrategyDieCapture, captureAnyDie},
	}
	for _, r := range rules {
		if m, ok := r.find(b, side); ok {
			return withOrdering(b, m, side, rng), r.strategy, nil
		}
	}
	m, err := randomMove(b, side, rng)
	if err != nil {
		return Move{}, StrategyNone, err
	}
	return withOrdering(b, m, side, rng), StrategyRandom, nil
}

func withOrdering(b *Board, m Move, side Side, rng Rand) Move {
	m.Ordering, _ = ChooseOrdering(b, m.From, m.To, side, rng)
	return m
}

// reach returns the first die of side, in scan order, that can move to target.
func reach(b *Board, side Side, target Pos) (Move, bool) {
	for _, p := range b.dice(side) {
		if CanMoveToSpace(b, p.Row, p.Col, target.Row, target.Col, side) {
			return Move{From: p, To: target}, true
		}
	}
	return Move{}, false
}

func captureKeyDie(b *Board, side Side) (Move, bool) {
	key, ok := b.FindKeyDie(side.Opponent())
	if !ok {
		return Move{}, false
	}
	return reach(b, side, key)
}

func captureKeySpace(b *Board, side Side) (Move, bool) {
	return reach(b, side, KeyCell(side.Opponent()))
}

func captureAnyDie(b *Board, side Side) (Move, bool) {
	for _, enemy := range b.dice(side.Opponent()) {
		if m, ok := reach(b, side, enemy); ok {
			return m, true
		}
	}
	return Move{}, false
}

// between lists the cells strictly between a and b, which share a row or
// a column, in increasing order along that axis.
func between(a, b Pos) []Pos {
	var out []Pos
	switch {
	case a.Row == b.Row:
		lo, hi := a.Col, b.Col
		if lo > hi {
			lo, hi = hi, lo
		}
		for c := lo + 1; c < hi; c++ {
			out = append(out, Pos{a.Row, c})
		}
	case a.Col == b.Col:
		lo, hi := a.Row, b.Row
		if lo > hi {
			lo, hi = hi, lo
		}
		for r := lo + 1; r < hi; r++ {
			out = append(out, Pos{r, a.Col})
		}
	}
	return out
}

// threats lists opponent dice, in scan order, that could land on target
// on their next turn.
func threats(b *Board, side Side, target Pos) []Pos {
	var out []Pos
	opp := side.Opponent()
	for _, p := range b.dice(opp) {
		if CanMoveToSpace(b, p.Row, p.Col, target.Row, target.Col, opp) {
			out = append(out, p)
		}
	}
	return out
}

// counter tries to take out or shut off one threat against target: capture
// the threatening die, else put a die on a cell between the two, else try
// each of the extra cells.
func counter(b *Board, side Side, threat, target Pos, extra []Pos) (Move, bool) {
	if m, ok := reach(b, side, threat); ok {
		return m, true
	}
	own := b.dice(side)
	for _, block := range between(threat, target) {
		for _, p := range own {
			if CanMoveToSpace(b, p.Row, p.Col, block.Row, block.Col, side) {
				return Move{From: p, To: block}, true
			}
		}
	}
	for _, block := range extra {
		if b.IsOccupied(block.Row, block.Col) {
			continue
		}
		for _, p := range own {
			if CanMoveToSpace(b, p.Row, p.Col, block.Row, block.Col, side) {
				return Move{From: p, To: block}, true
			}
		}
	}
	return Move{}, false
}

func blockKeyDie(b *Board, side Side) (Move, bool) {
	key, ok := b.FindKeyDie(side)
	if !ok {
		return Move{}, false
	}
	for _, t := range threats(b, side, key) {
		if m, ok := counter(b, side, t, key, nil); ok {
			return m, true
		}
		if m, ok := escape(b, side, key, t); ok {
			return m, true
		}
	}
	return Move{}, false
}

// escape steps the key die one cell off the line it shares with threat:
// row-1 then row+1 for a threat on its row, col+1 then col-1 for a threat
// on its column.
func escape(b *Board, side Side, key, threat Pos) (Move, bool) {
	var cells []Pos
	if threat.Row == key.Row {
		cells = append(cells, Pos{key.Row - 1, key.Col}, Pos{key.Row + 1, key.Col})
	}
	if threat.Col == key.Col {
		cells = append(cells, Pos{key.Row, key.Col + 1}, Pos{key.Row, key.Col - 1})
	}
	for _, e := range cells {
		if CanMoveToSpace(b, key.Row, key.Col, e.Row, e.Col, side) {
			return Move{From: key, To: e}, true
		}
	}
	return Move{}, false
}

func blockKeySpace(b *Board, side Side) (Move, bool) {
	key := KeyCell(side)
	var column []Pos
	for r := 1; r <= Rows; r++ {
		if r != key.Row {
			column = append(column, Pos{r, key.Col})
		}
	}
	for _, t := range threats(b, side, key) {
		if m, ok := counter(b, side, t, key, column); ok {
			return m, true
		}
	}
	return Move{}, false
}

// randomMove draws untried rows at random and returns the first legal move
// found for a die in that row, trying every split of the die's pips
// between the row and column axes.
func randomMove(b *Board, side Side, rng Rand) (Move, error) {
	if !HasLegalMove(b, side) {
		return Move{}, ErrNoLegalMove
	}
	rows := make([]int, Rows)
	for i := range rows {
		rows[i] = i + 1
	}
	for len(rows) > 0 {
		i := rng.Intn(len(rows))
		row := rows[i]
		rows = append(rows[:i], rows[i+1:]...)
		for col := 1; col <= Cols; col++ {
			if !b.IsSide(row, col, side) {
				continue
			}
			pips := b.TopFace(row, col)
			for dr := pips; dr >= 0; dr-- {
				dc := pips - dr
				for _, to := range []Pos{
					{row + dr, col + dc},
					{row - dr, col + dc},
					{row + dr, col - dc},
					{row - dr, col - dc},
				} {
					if CanMoveToSpace(b, row, col, to.Row, to.Col, side) {
						return Move{From: Pos{row, col}, To: to}, nil
					}
				}
			}
		}
	}
	return Move{}, ErrNoLegalMove
}
