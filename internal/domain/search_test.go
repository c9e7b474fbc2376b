package domain

import (
	"errors"
	"testing"
)

// seqRand replays vals in a loop, reduced modulo n.
type seqRand struct {
	vals []int
	i    int
}

func (s *seqRand) Intn(n int) int {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func one(side Side) Die   { return NewDie(1, 5, side) }
func three(side Side) Die { return NewDie(3, 1, side) }
func six(side Side) Die   { return NewDie(6, 2, side) }
func key(side Side) Die   { return NewDie(1, 1, side) }

func mustFind(t *testing.T, b *Board, side Side) (Move, Strategy) {
	t.Helper()
	m, s, err := FindMove(b, side, &seqRand{})
	if err != nil {
		t.Fatalf("FindMove: %v", err)
	}
	return m, s
}

func TestKeyDieCaptureBeatsOpportunisticCapture(t *testing.T) {
	b := NewBoard()
	b.PlaceDie(key(SideA), 1, 1)
	b.PlaceDie(key(SideB), 5, 5)
	b.PlaceDie(six(SideB), 3, 2)
	b.PlaceDie(two(SideA), 3, 5)
	b.PlaceDie(one(SideA), 3, 3)

	m, s := mustFind(t, b, SideA)
	if s != StrategyKeyDieCapture {
		t.Fatalf("strategy = %v, want keyDieCapture", s)
	}
	if m.From != (Pos{3, 5}) || m.To != (Pos{5, 5}) || m.Ordering != FrontalFirst {
		t.Fatalf("move = %+v, want (3,5)->(5,5) frontally", m)
	}

	// Without the key die only the ordinary capture is left.
	b.RemoveDie(5, 5)
	m, s = mustFind(t, b, SideA)
	if s != StrategyDieCapture || m.From != (Pos{3, 3}) || m.To != (Pos{3, 2}) || m.Ordering != LateralFirst {
		t.Fatalf("got %v %+v, want dieCapture (3,3)->(3,2) laterally", s, m)
	}
}

func TestScanOrderBreaksTies(t *testing.T) {
	b := NewBoard()
	b.PlaceDie(key(SideB), 4, 5)
	b.PlaceDie(two(SideA), 2, 5)
	b.PlaceDie(two(SideA), 6, 5)
	m, s := mustFind(t, b, SideA)
	if s != StrategyKeyDieCapture || m.From != (Pos{6, 5}) {
		t.Fatalf("got %v from %v, want the row 6 die first", s, m.From)
	}
}

func TestKeySpaceCapture(t *testing.T) {
	b := NewBoard()
	b.PlaceDie(key(SideB), 8, 9)
	b.PlaceDie(two(SideA), 6, 5)
	m, s := mustFind(t, b, SideA)
	if s != StrategyKeySpaceCapture || m.From != (Pos{6, 5}) || m.To != (Pos{8, 5}) {
		t.Fatalf("got %v %+v, want keySpaceCapture (6,5)->(8,5)", s, m)
	}
}

func TestBlockKeyDieByCapturingThreat(t *testing.T) {
	b := NewBoard()
	b.PlaceDie(key(SideA), 1, 1)
	b.PlaceDie(key(SideB), 6, 5)
	b.PlaceDie(two(SideA), 4, 5)
	b.PlaceDie(one(SideB), 4, 6)
	m, s := mustFind(t, b, SideB)
	if s != StrategyBlockKeyDie || m.From != (Pos{4, 6}) || m.To != (Pos{4, 5}) {
		t.Fatalf("got %v %+v, want blockKeyDie (4,6)->(4,5)", s, m)
	}
}

func TestBlockKeyDieByInterposing(t *testing.T) {
	b := NewBoard()
	b.PlaceDie(key(SideA), 1, 1)
	b.PlaceDie(key(SideB), 7, 5)
	b.PlaceDie(three(SideA), 4, 5)
	b.PlaceDie(two(SideB), 5, 7)
	if !CanMoveToSpace(b, 4, 5, 7, 5, SideA) {
		t.Fatalf("fixture: side A should threaten the key die")
	}
	m, s := mustFind(t, b, SideB)
	if s != StrategyBlockKeyDie || m.From != (Pos{5, 7}) || m.To != (Pos{5, 5}) {
		t.Fatalf("got %v %+v, want blockKeyDie (5,7)->(5,5)", s, m)
	}
}

func TestBlockKeySpace(t *testing.T) {
	b := NewBoard()
	b.PlaceDie(key(SideA), 1, 9)
	b.PlaceDie(key(SideB), 8, 9)
	b.PlaceDie(two(SideB), 3, 5)
	b.PlaceDie(one(SideA), 3, 4)
	m, s := mustFind(t, b, SideA)
	if s != StrategyBlockKeySpace || m.From != (Pos{3, 4}) || m.To != (Pos{3, 5}) {
		t.Fatalf("got %v %+v, want blockKeySpace (3,4)->(3,5)", s, m)
	}
}

func TestBlockKeySpaceColumnFallback(t *testing.T) {
	b := NewBoard()
	b.PlaceDie(key(SideA), 4, 9)
	b.PlaceDie(key(SideB), 8, 9)
	// Threat arrives on (1,5) from the side, along row 1.
	b.PlaceDie(two(SideB), 1, 7)
	// Only this die can help: it reaches (2,5) but nothing on row 1.
	b.PlaceDie(one(SideA), 2, 4)
	m, s := mustFind(t, b, SideA)
	if s != StrategyBlockKeySpace || m.From != (Pos{2, 4}) || m.To != (Pos{2, 5}) {
		t.Fatalf("got %v %+v, want blockKeySpace (2,4)->(2,5)", s, m)
	}
}

func TestRandomMoveFallback(t *testing.T) {
	b := NewBoard()
	b.PlaceDie(key(SideB), 8, 9)
	b.PlaceDie(two(SideA), 4, 4)
	m, s := mustFind(t, b, SideA)
	if s != StrategyRandom {
		t.Fatalf("strategy = %v, want random", s)
	}
	if m.From != (Pos{4, 4}) || m.To != (Pos{6, 4}) {
		t.Fatalf("move = %+v, want (4,4)->(6,4)", m)
	}
}

func TestRandomMoveIsPure(t *testing.T) {
	b := NewBoard()
	b.SetupOpening()
	before := *b
	for i := 0; i < 8; i++ {
		m, _, err := FindMove(b, SideB, &seqRand{vals: []int{i, i + 3}})
		if err != nil {
			t.Fatalf("FindMove: %v", err)
		}
		if !CanMoveToSpace(b, m.From.Row, m.From.Col, m.To.Row, m.To.Col, SideB) {
			t.Fatalf("search returned illegal move %+v", m)
		}
	}
	if *b != before {
		t.Fatalf("search must not change the board")
	}
}

func TestFindMoveReportsNoLegalMove(t *testing.T) {
	b := NewBoard()
	b.PlaceDie(key(SideB), 8, 9)
	if _, _, err := FindMove(b, SideA, &seqRand{}); !errors.Is(err, ErrNoLegalMove) {
		t.Fatalf("expected ErrNoLegalMove, got %v", err)
	}
}

func TestStrategyNames(t *testing.T) {
	names := map[Strategy]string{
		StrategyKeyDieCapture:   "keyDieCapture",
		StrategyKeySpaceCapture: "keySpaceCapture",
		StrategyBlockKeyDie:     "blockKeyDie",
		StrategyBlockKeySpace:   "blockKeySpace",
		StrategyDieCapture:      "dieCapture",
		StrategyRandom:          "random",
	}
	for s, want := range names {
		if s.String() != want {
			t.Fatalf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}

func TestEscapeOrderForRowThreat(t *testing.T) {
	b := NewBoard()
	b.PlaceDie(key(SideA), 4, 5)
	b.PlaceDie(six(SideB), 4, 8)

	m, ok := escape(b, SideA, Pos{4, 5}, Pos{4, 8})
	if !ok || m.From != (Pos{4, 5}) || m.To != (Pos{3, 5}) {
		t.Fatalf("escape = %+v %v, want (4,5)->(3,5)", m, ok)
	}
	b.PlaceDie(six(SideA), 3, 5)
	m, ok = escape(b, SideA, Pos{4, 5}, Pos{4, 8})
	if !ok || m.To != (Pos{5, 5}) {
		t.Fatalf("escape = %+v %v, want (4,5)->(5,5)", m, ok)
	}
	b.PlaceDie(six(SideA), 5, 5)
	if m, ok := escape(b, SideA, Pos{4, 5}, Pos{4, 8}); ok {
		t.Fatalf("boxed in key die escaped to %v", m.To)
	}
}

func TestEscapeOrderForColumnThreat(t *testing.T) {
	b := NewBoard()
	b.PlaceDie(key(SideA), 4, 5)
	b.PlaceDie(six(SideB), 7, 5)

	m, ok := escape(b, SideA, Pos{4, 5}, Pos{7, 5})
	if !ok || m.To != (Pos{4, 6}) {
		t.Fatalf("escape = %+v %v, want (4,5)->(4,6)", m, ok)
	}
	b.PlaceDie(six(SideA), 4, 6)
	m, ok = escape(b, SideA, Pos{4, 5}, Pos{7, 5})
	if !ok || m.To != (Pos{4, 4}) {
		t.Fatalf("escape = %+v %v, want (4,5)->(4,4)", m, ok)
	}
}

func TestEscapeOnlyForAlignedThreat(t *testing.T) {
	b := NewBoard()
	b.PlaceDie(key(SideA), 4, 5)
	if _, ok := escape(b, SideA, Pos{4, 5}, Pos{6, 6}); ok {
		t.Fatalf("a diagonal threat has no line to step off")
	}
}

func TestBlockKeyDiePrefersInterposingOverEscape(t *testing.T) {
	b := NewBoard()
	b.PlaceDie(key(SideA), 4, 5)
	b.PlaceDie(key(SideB), 8, 9)
	b.PlaceDie(three(SideB), 4, 8)
	m, s := mustFind(t, b, SideA)
	if s != StrategyBlockKeyDie || m.From != (Pos{4, 5}) || m.To != (Pos{4, 6}) {
		t.Fatalf("got %v %+v, want the key die to block on (4,6)", s, m)
	}
}
