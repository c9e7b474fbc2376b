package domain

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func sampleSnapshot() Snapshot {
	b := NewBoard()
	b.SetupOpening()
	ApplyMove(b, Move{From: Pos{1, 1}, To: Pos{4, 3}, Ordering: FrontalFirst})
	return Snapshot{Board: *b, WinsA: 2, WinsB: 3, Next: SideB}
}

func encode(t *testing.T, s Snapshot) string {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteSave(&buf, s); err != nil {
		t.Fatalf("WriteSave: %v", err)
	}
	return buf.String()
}

func TestSaveRoundTrip(t *testing.T) {
	want := sampleSnapshot()
	got, err := ReadSave(strings.NewReader(encode(t, want)))
	if err != nil {
		t.Fatalf("ReadSave: %v", err)
	}
	if got.Board != want.Board {
		t.Fatalf("board did not survive the round trip")
	}
	if got.WinsA != 2 || got.WinsB != 3 || got.Next != SideB {
		t.Fatalf("got wins %d/%d next %v", got.WinsA, got.WinsB, got.Next)
	}
}

func TestSaveLayout(t *testing.T) {
	text := encode(t, sampleSnapshot())
	for _, want := range []string{"Board:\n", "Computer Wins: 3", "Human Wins: 2", "Next Player: Computer"} {
		if !strings.Contains(text, want) {
			t.Fatalf("save text missing %q:\n%s", want, text)
		}
	}
	lines := strings.Split(text, "\n")
	// Row 8 is written first and row 1 last.
	if f := strings.Fields(lines[1]); len(f) != Cols || f[0] != "C56" {
		t.Fatalf("first board row = %q", lines[1])
	}
	if f := strings.Fields(lines[8]); f[0] != "0" || f[4] != "H11" {
		t.Fatalf("last board row = %q", lines[8])
	}
}

func TestReadSaveRejectsMalformedInput(t *testing.T) {
	good := encode(t, sampleSnapshot())
	cases := []struct {
		name     string
		old, new string
		want     error
	}{
		{"header", "Board:", "Bored:", ErrBadHeader},
		{"short row", "C56 \t", "", ErrBadRow},
		{"bad face", "C62", "C77", ErrBadDieToken},
		{"bad owner", "C62", "X12", ErrBadDieToken},
		{"win count", "Computer Wins: 3", "Computer Wins: x", ErrBadWinCount},
		{"duplicate wins", "Human Wins: 2", "Computer Wins: 2", ErrBadWinCount},
		{"next player", "Next Player: Computer", "Next Player: Nobody", ErrBadNextPlayer},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			text := strings.Replace(good, c.old, c.new, 1)
			if _, err := ReadSave(strings.NewReader(text)); !errors.Is(err, c.want) {
				t.Fatalf("error = %v, want %v", err, c.want)
			}
		})
	}
	if _, err := ReadSave(strings.NewReader("")); !errors.Is(err, ErrBadHeader) {
		t.Fatalf("empty input: %v", err)
	}
}

func TestWriteSaveNeedsNextPlayer(t *testing.T) {
	s := sampleSnapshot()
	s.Next = Unowned
	if err := WriteSave(&bytes.Buffer{}, s); !errors.Is(err, ErrBadNextPlayer) {
		t.Fatalf("error = %v, want ErrBadNextPlayer", err)
	}
}

func TestResumeFailureLeavesGameUnchanged(t *testing.T) {
	g := New(&seqRand{vals: []int{4, 1}})
	g.StartRound()
	before := g
	if err := g.Resume(strings.NewReader("Board:\nnonsense\n")); err == nil {
		t.Fatalf("expected an error")
	}
	if g != before {
		t.Fatalf("failed resume changed the game")
	}
}

func TestResumeInstallsSave(t *testing.T) {
	g := New(&seqRand{})
	if err := g.Resume(strings.NewReader(encode(t, sampleSnapshot()))); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if g.Turn != Computer || g.WinsA != 2 || g.WinsB != 3 || !g.IsOccupied(4, 3) || g.Over {
		t.Fatalf("resumed game = %+v", g)
	}
}

func TestReadSaveRejectsImpossibleBoards(t *testing.T) {
	full := strings.Repeat("H56 ", Cols)
	empty := strings.Repeat("0 ", Cols)
	tail := "Computer Wins: 0\nHuman Wins: 0\nNext Player: Human\n"
	cases := map[string][]string{
		"too many dice": {full, full, empty, empty, empty, empty, empty, "C11 " + strings.Repeat("0 ", Cols-1)},
		"two key dice":  {"C11 C11 " + strings.Repeat("0 ", Cols-2), empty, empty, empty, empty, empty, empty, "H11 " + strings.Repeat("0 ", Cols-1)},
	}
	for name, rows := range cases {
		t.Run(name, func(t *testing.T) {
			text := "Board:\n" + strings.Join(rows, "\n") + "\n" + tail
			_, err := ReadSave(strings.NewReader(text))
			if !errors.Is(err, ErrImpossibleBoard) || !errors.Is(err, ErrBadRow) {
				t.Fatalf("error = %v, want ErrImpossibleBoard wrapped in ErrBadRow", err)
			}
		})
	}
}

func TestReadSaveAcceptsCapturedDice(t *testing.T) {
	// A finished round may have lost its key die.
	empty := strings.Repeat("0 ", Cols)
	rows := []string{"C56 " + strings.Repeat("0 ", Cols-1), empty, empty, empty, empty, empty, empty, "H11 " + strings.Repeat("0 ", Cols-1)}
	text := "Board:\n" + strings.Join(rows, "\n") + "\nComputer Wins: 0\nHuman Wins: 1\nNext Player: Human\n"
	s, err := ReadSave(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ReadSave: %v", err)
	}
	if s.Board.Count(Unowned) != 2 {
		t.Fatalf("dice = %d, want 2", s.Board.Count(Unowned))
	}
}
