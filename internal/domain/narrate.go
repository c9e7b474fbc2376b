package domain

import (
	"fmt"
	"strings"
)

var (
	pickReason = map[Strategy]string{
		StrategyKeyDieCapture:   "it was within distance of the %s's key die.",
		StrategyKeySpaceCapture: "it was within distance of the %s's key space.",
		StrategyBlockKeyDie:     "the key die was in danger of being captured, and the capture needed to be blocked.",
		StrategyBlockKeySpace:   "the key space was in danger of being captured, and the capture needed to be blocked.",
		StrategyDieCapture:      "it was within distance of a %s's die that was able to be captured.",
		StrategyRandom:          "no decisive move could be found, so the move was chosen at random.",
	}
	rollReason = map[Strategy]string{
		StrategyKeyDieCapture:   "those movements reach the coordinates of the key die.",
		StrategyKeySpaceCapture: "those movements reach the coordinates of the key space.",
		StrategyBlockKeyDie:     "those movements block a key die capture.",
		StrategyBlockKeySpace:   "those movements block a key space capture.",
		StrategyDieCapture:      "those movements reach the coordinates of the die to capture.",
		StrategyRandom:          "the die is able to move that way without any problems.",
	}
)

// rolls describes the runs of a move, e.g. "frontally by 2 and laterally by 1".
func rolls(m Move) string {
	rows, cols := abs(m.To.Row-m.From.Row), abs(m.To.Col-m.From.Col)
	if m.Ordering == LateralFirst {
		s := fmt.Sprintf("laterally by %d", cols)
		if rows != 0 {
			s += fmt.Sprintf(" and frontally by %d", rows)
		}
		return s
	}
	s := fmt.Sprintf("frontally by %d", rows)
	if cols != 0 {
		s += fmt.Sprintf(" and laterally by %d", cols)
	}
	return s
}

func reason(format string, opponent Side) string {
	if strings.Contains(format, "%s") {
		return fmt.Sprintf(format, strings.ToLower(opponent.Name()))
	}
	return format
}

// Narrate explains a computer move in plain English.
func Narrate(r MoveRecord) string {
	m := r.Move
	var b strings.Builder
	fmt.Fprintf(&b, "The %s picked %s at (%d,%d) to roll because %s\n",
		strings.ToLower(r.Side.Name()), r.Before, m.From.Row, m.From.Col, reason(pickReason[r.Strategy], r.Side.Opponent()))
	fmt.Fprintf(&b, "It rolled it %s because %s\n", rolls(m), rollReason[r.Strategy])
	fmt.Fprintf(&b, "The die is now %s at (%d,%d).", r.After, m.To.Row, m.To.Col)
	return b.String()
}

// Advise explains a recommended move in plain English.
func Advise(r MoveRecord) string {
	m := r.Move
	var b strings.Builder
	fmt.Fprintf(&b, "The computer recommends moving %s at (%d,%d) because %s\n",
		r.Before, m.From.Row, m.From.Col, reason(pickReason[r.Strategy], r.Side.Opponent()))
	fmt.Fprintf(&b, "It recommends rolling %s because %s", rolls(m), rollReason[r.Strategy])
	return b.String()
}

// Describe is a one line summary of any move, human or computer.
func Describe(r MoveRecord) string {
	s := fmt.Sprintf("%s rolled %s from (%d,%d) to (%d,%d), now %s",
		r.Side.Name(), r.Before, r.Move.From.Row, r.Move.From.Col, r.Move.To.Row, r.Move.To.Col, r.After)
	if r.Captured != "" {
		s += ", capturing " + r.Captured
	}
	return s + "."
}
