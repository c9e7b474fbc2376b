package domain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Save file errors, one per section of the file.
var (
	ErrBadHeader     = errors.New("save file: bad header")
	ErrBadRow        = errors.New("save file: bad board row")
	ErrBadDieToken   = errors.New("save file: bad die token")
	ErrBadWinCount   = errors.New("save file: bad win count")
	ErrBadNextPlayer = errors.New("save file: bad next player")
	// ErrImpossibleBoard is wrapped together with ErrBadRow when the rows
	// parse but hold more dice than a side owns.
	ErrImpossibleBoard = errors.New("save file: impossible board")
)

const saveHeader = "Board:"

// Snapshot is everything a save file records.
type Snapshot struct {
	Board Board
	WinsA int
	WinsB int
	Next  Side
}

// WriteSave writes s in the save file layout: a header, board rows from
// row 8 down to row 1, both win counts and the next player.
func WriteSave(w io.Writer, s Snapshot) error {
	if s.Next != SideA && s.Next != SideB {
		return ErrBadNextPlayer
	}
	bw := bufio.NewWriter(w)
	bw.WriteString(saveHeader + "\n ")
	for row := Rows; row >= 1; row-- {
		bw.WriteString("\t")
		for col := 1; col <= Cols; col++ {
			tok := s.Board.NameOf(row, col)
			if tok == "" {
				tok = "0"
			}
			bw.WriteString(tok + " \t")
		}
		bw.WriteString("\n")
	}
	fmt.Fprintf(bw, "\nComputer Wins: %d\n\n", s.WinsB)
	fmt.Fprintf(bw, "Human Wins: %d\n\n", s.WinsA)
	fmt.Fprintf(bw, "Next Player: %s\n", s.Next.Name())
	return bw.Flush()
}

// ReadSave parses a save file. Nothing outside the returned snapshot is
// touched, so a failed read leaves callers' state as it was.
func ReadSave(r io.Reader) (Snapshot, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("read save: %w", err)
	}

	var s Snapshot
	if len(lines) == 0 || lines[0] != saveHeader {
		return Snapshot{}, ErrBadHeader
	}
	lines = lines[1:]
	if len(lines) < Rows {
		return Snapshot{}, fmt.Errorf("%w: want %d rows, got %d", ErrBadRow, Rows, len(lines))
	}
	for i := 0; i < Rows; i++ {
		row := Rows - i
		toks := strings.Fields(lines[i])
		if len(toks) != Cols {
			return Snapshot{}, fmt.Errorf("%w: row %d has %d cells", ErrBadRow, row, len(toks))
		}
		for col, tok := range toks {
			if tok == "0" {
				continue
			}
			d, err := ParseLabel(tok)
			if err != nil {
				return Snapshot{}, fmt.Errorf("%w: (%d,%d) %q", ErrBadDieToken, row, col+1, tok)
			}
			s.Board.PlaceDie(d, row, col+1)
		}
	}
	if err := checkDice(&s.Board); err != nil {
		return Snapshot{}, err
	}
	lines = lines[Rows:]

	if len(lines) != 3 {
		return Snapshot{}, fmt.Errorf("%w: want two win lines and a next player line", ErrBadWinCount)
	}
	seen := map[Side]bool{}
	for _, line := range lines[:2] {
		side, n, err := parseWins(line)
		if err != nil {
			return Snapshot{}, err
		}
		if seen[side] {
			return Snapshot{}, fmt.Errorf("%w: %s listed twice", ErrBadWinCount, side)
		}
		seen[side] = true
		if side == SideA {
			s.WinsA = n
		} else {
			s.WinsB = n
		}
	}

	next, ok := strings.CutPrefix(lines[2], "Next Player:")
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrBadNextPlayer, lines[2])
	}
	switch strings.TrimSpace(next) {
	case SideA.Name():
		s.Next = SideA
	case SideB.Name():
		s.Next = SideB
	default:
		return Snapshot{}, fmt.Errorf("%w: %q", ErrBadNextPlayer, next)
	}
	return s, nil
}

// checkDice rejects boards no game can reach: a side owns at most one
// die per column of its home row and at most one key die. Fewer is fine,
// dice get captured.
func checkDice(b *Board) error {
	for _, side := range []Side{SideA, SideB} {
		if n := b.Count(side); n > Cols {
			return fmt.Errorf("%w: %w: %s has %d dice", ErrBadRow, ErrImpossibleBoard, side, n)
		}
		keys := 0
		for _, p := range b.dice(side) {
			if b.IsKeyDie(p.Row, p.Col) {
				keys++
			}
		}
		if keys > 1 {
			return fmt.Errorf("%w: %w: %s has %d key dice", ErrBadRow, ErrImpossibleBoard, side, keys)
		}
	}
	return nil
}

func parseWins(line string) (Side, int, error) {
	f := strings.Fields(line)
	if len(f) != 3 || f[1] != "Wins:" {
		return Unowned, 0, fmt.Errorf("%w: %q", ErrBadWinCount, line)
	}
	var side Side
	switch f[0] {
	case SideA.Name():
		side = SideA
	case SideB.Name():
		side = SideB
	default:
		return Unowned, 0, fmt.Errorf("%w: unknown player %q", ErrBadWinCount, f[0])
	}
	n, err := strconv.Atoi(f[2])
	if err != nil || n < 0 {
		return Unowned, 0, fmt.Errorf("%w: %q", ErrBadWinCount, line)
	}
	return side, n, nil
}
