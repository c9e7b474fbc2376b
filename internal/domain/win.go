package domain

import "log"

// Outcome is the result of checking the board for a finished round.
type Outcome uint8

const (
	NoWinner Outcome = iota
	SideAWinsKeySpace
	SideBWinsKeySpace
	SideBWinsKeyDie
	SideAWinsKeyDie
	// Stalemate ends a round in which neither side can move. Nobody is
	// credited.
	Stalemate
)

// Winner returns the winning side, or Unowned while play continues.
func (o Outcome) Winner() Side {
	switch o {
	case SideAWinsKeySpace, SideAWinsKeyDie:
		return SideA
	case SideBWinsKeySpace, SideBWinsKeyDie:
		return SideB
	default:
		return Unowned
	}
}

// ByKeyDie reports whether the round was won by capturing a key die.
func (o Outcome) ByKeyDie() bool {
	return o == SideAWinsKeyDie || o == SideBWinsKeyDie
}

func (o Outcome) String() string {
	switch o {
	case SideAWinsKeySpace:
		return "Human wins by capturing the key space"
	case SideBWinsKeySpace:
		return "Computer wins by capturing the key space"
	case SideAWinsKeyDie:
		return "Human wins by capturing the key die"
	case SideBWinsKeyDie:
		return "Computer wins by capturing the key die"
	case Stalemate:
		return "Neither side can move, the round is drawn"
	default:
		return "No winner yet"
	}
}

// Evaluate inspects the board for a finished round.
func Evaluate(b *Board) Outcome {
	if a := KeyCell(SideA); b.IsSide(a.Row, a.Col, SideB) {
		return SideBWinsKeySpace
	}
	if k := KeyCell(SideB); b.IsSide(k.Row, k.Col, SideA) {
		return SideAWinsKeySpace
	}
	_, hasA := b.FindKeyDie(SideA)
	_, hasB := b.FindKeyDie(SideB)
	switch {
	case hasA && !hasB:
		return SideAWinsKeyDie
	case hasB && !hasA:
		return SideBWinsKeyDie
	case !hasA && !hasB:
		log.Printf("domain: both key dice are missing from the board, continuing without a winner")
	}
	return NoWinner
}
