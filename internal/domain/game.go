package domain

import (
	"errors"
	"fmt"
	"io"
)

// Human and Computer are the sides the two kinds of player control.
const (
	Human    = SideA
	Computer = SideB
)

// Errors returned by game operations.
var (
	ErrOutOfBounds         = errors.New("out of bounds")
	ErrNoDie               = errors.New("no die on that cell")
	ErrNotYourDie          = errors.New("die belongs to the other player")
	ErrIllegalMove         = errors.New("illegal move")
	ErrOrderingUnavailable = errors.New("die cannot roll in that order")
	ErrGameOver            = errors.New("game over")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrRoundNotStarted     = errors.New("round not started")
)

// Toss is the pair of die throws that decided who moves first.
type Toss struct {
	Human, Computer int
}

// MoveRecord describes a move that was made or recommended.
type MoveRecord struct {
	Side     Side
	Move     Move
	Strategy Strategy
	Before   string // label before the move
	After    string // label after the move
	Captured string // label of the captured die, if any
}

// Game holds one tournament of Duell: the board of the current round,
// whose turn it is and the running win counts.
type Game struct {
	Board   Board
	Turn    Side
	Outcome Outcome
	Over    bool
	Moves   int
	WinsA   int
	WinsB   int
	Last    *MoveRecord

	passes int // consecutive passes
	rng    Rand
}

// New returns a game with the opening layout on the board. The first
// player is not decided until StartRound or TossForFirst.
func New(rng Rand) Game {
	g := Game{rng: rng}
	g.SetupRound()
	return g
}

// SetRand replaces the random source.
func (g *Game) SetRand(rng Rand) { g.rng = rng }

// SetupRound clears the board and lays out the opening position. Win
// counts carry over.
func (g *Game) SetupRound() {
	g.Board.SetupOpening()
	g.Turn = Unowned
	g.Outcome = NoWinner
	g.Over = false
	g.Moves = 0
	g.Last = nil
	g.passes = 0
}

// TossForFirst throws a die for each player. The higher throw moves first;
// on a tie nobody is chosen and ok is false.
func (g *Game) TossForFirst() (t Toss, ok bool) {
	t = Toss{Human: g.rng.Intn(6) + 1, Computer: g.rng.Intn(6) + 1}
	switch {
	case t.Human > t.Computer:
		g.Turn = Human
	case t.Computer > t.Human:
		g.Turn = Computer
	default:
		return t, false
	}
	return t, true
}

// StartRound sets up a fresh round and tosses until someone moves first.
func (g *Game) StartRound() Toss {
	g.SetupRound()
	for {
		if t, ok := g.TossForFirst(); ok {
			return t
		}
	}
}

func (g *Game) checkTurn(side Side) error {
	if g.Over {
		return ErrGameOver
	}
	if g.Turn == Unowned {
		return ErrRoundNotStarted
	}
	if side != g.Turn {
		return ErrNotYourTurn
	}
	return nil
}

// LegalOrderings reports which orderings the side to move may use for m.
func (g *Game) LegalOrderings(from, to Pos) (frontal, lateral bool) {
	return LegalOrderings(&g.Board, from, to, g.Turn)
}

// ApplyHumanMove validates m for the human side and plays it. An illegal
// move leaves the game untouched.
func (g *Game) ApplyHumanMove(m Move) (MoveRecord, error) {
	if err := g.checkTurn(Human); err != nil {
		return MoveRecord{}, err
	}
	if !InBounds(m.From.Row, m.From.Col) || !InBounds(m.To.Row, m.To.Col) {
		return MoveRecord{}, ErrOutOfBounds
	}
	d, ok := g.Board.DieAt(m.From.Row, m.From.Col)
	if !ok {
		return MoveRecord{}, ErrNoDie
	}
	if d.Side() != Human {
		return MoveRecord{}, ErrNotYourDie
	}
	frontal, lateral := LegalOrderings(&g.Board, m.From, m.To, Human)
	if !frontal && !lateral {
		return MoveRecord{}, ErrIllegalMove
	}
	switch m.Ordering {
	case FrontalFirst:
		if !frontal {
			return MoveRecord{}, ErrOrderingUnavailable
		}
	case LateralFirst:
		if !lateral {
			return MoveRecord{}, ErrOrderingUnavailable
		}
	default:
		// No preference given: take whichever is open.
		m.Ordering = LateralFirst
		if frontal {
			m.Ordering = FrontalFirst
		}
	}
	return g.play(m, StrategyNone), nil
}

// ComputerTakeTurn runs the move cascade for side and plays the result.
func (g *Game) ComputerTakeTurn(side Side) (MoveRecord, error) {
	if err := g.checkTurn(side); err != nil {
		return MoveRecord{}, err
	}
	m, strategy, err := FindMove(&g.Board, side, g.rng)
	if err != nil {
		return MoveRecord{}, fmt.Errorf("%s turn: %w", side, err)
	}
	return g.play(m, strategy), nil
}

// Pass hands the turn to the opponent. It is only allowed when side has
// no legal move. When both sides pass in a row the round ends in a
// stalemate.
func (g *Game) Pass(side Side) error {
	if err := g.checkTurn(side); err != nil {
		return err
	}
	if HasLegalMove(&g.Board, side) {
		return ErrIllegalMove
	}
	g.passes++
	if g.passes >= 2 {
		g.Outcome = Stalemate
		g.Over = true
		return nil
	}
	g.Turn = side.Opponent()
	return nil
}

// RecommendMove runs the move cascade for side without playing it.
func (g *Game) RecommendMove(side Side) (MoveRecord, error) {
	if g.Over {
		return MoveRecord{}, ErrGameOver
	}
	m, strategy, err := FindMove(&g.Board, side, g.rng)
	if err != nil {
		return MoveRecord{}, fmt.Errorf("%s recommendation: %w", side, err)
	}
	scratch := g.Board.Clone()
	return record(scratch, side, m, strategy), nil
}

// record applies m to b and describes it.
func record(b *Board, side Side, m Move, strategy Strategy) MoveRecord {
	rec := MoveRecord{Side: side, Move: m, Strategy: strategy, Before: b.NameOf(m.From.Row, m.From.Col)}
	if captured, ok := ApplyMove(b, m); ok {
		rec.Captured = captured.Label()
	}
	rec.After = b.NameOf(m.To.Row, m.To.Col)
	return rec
}

func (g *Game) play(m Move, strategy Strategy) MoveRecord {
	rec := record(&g.Board, g.Turn, m, strategy)
	g.passes = 0
	g.Moves++
	g.Last = &rec
	g.Outcome = Evaluate(&g.Board)
	switch g.Outcome.Winner() {
	case SideA:
		g.WinsA++
		g.Over = true
	case SideB:
		g.WinsB++
		g.Over = true
	default:
		g.Turn = g.Turn.Opponent()
	}
	return rec
}

// CheckWinCondition evaluates the current board.
func (g *Game) CheckWinCondition() Outcome { return Evaluate(&g.Board) }

// DieLabelAt returns the label of the die on (row, col), or "" when empty.
func (g *Game) DieLabelAt(row, col int) string { return g.Board.NameOf(row, col) }

// IsOccupied reports whether a die is on (row, col).
func (g *Game) IsOccupied(row, col int) bool { return g.Board.IsOccupied(row, col) }

// Snapshot captures the state a save file records.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{Board: g.Board, WinsA: g.WinsA, WinsB: g.WinsB, Next: g.Turn}
}

// Save writes the game in the save file layout.
func (g *Game) Save(w io.Writer) error { return WriteSave(w, g.Snapshot()) }

// Resume replaces the game state with the save read from r. On error the
// game is left exactly as it was.
func (g *Game) Resume(r io.Reader) error {
	s, err := ReadSave(r)
	if err != nil {
		return err
	}
	g.Restore(s)
	return nil
}

// Restore installs a snapshot.
func (g *Game) Restore(s Snapshot) {
	g.Board = s.Board
	g.WinsA, g.WinsB = s.WinsA, s.WinsB
	g.Turn = s.Next
	g.Moves = 0
	g.Last = nil
	g.passes = 0
	g.Outcome = Evaluate(&g.Board)
	g.Over = g.Outcome != NoWinner
}
