package domain

import (
	"errors"
	"fmt"
)

// Side identifies who owns a die.
type Side uint8

const (
	Unowned Side = iota
	SideA        // starts on row 1, saved as "Human"
	SideB        // starts on row 8, saved as "Computer"
)

// Letter returns the single character used in die labels.
func (s Side) Letter() byte {
	switch s {
	case SideA:
		return 'H'
	case SideB:
		return 'C'
	default:
		return 'N'
	}
}

// Name returns the player name written to save files.
func (s Side) Name() string {
	switch s {
	case SideA:
		return "Human"
	case SideB:
		return "Computer"
	default:
		return "Nobody"
	}
}

func (s Side) String() string { return s.Name() }

// Opponent returns the other side. Unowned has no opponent.
func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return Unowned
	}
}

func sideFromLetter(c byte) Side {
	switch c {
	case 'H':
		return SideA
	case 'C':
		return SideB
	default:
		return Unowned
	}
}

// Direction is one of the four grid directions a die can tumble in.
// Up increases the row, Right increases the column.
type Direction uint8

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ErrBadLabel is returned when a die label cannot be turned back into a die.
var ErrBadLabel = errors.New("bad die label")

// Die is a six-faced die and the side that owns it. Front faces the
// owning player. Faces change only by rolling.
type Die struct {
	top, bottom int
	front, back int
	left, right int
	side        Side
}

// neutralDie is the canonical pose: 1 on top, 5 right, 3 facing the player.
func neutralDie(side Side) Die {
	return Die{top: 1, bottom: 6, front: 3, back: 4, left: 2, right: 5, side: side}
}

// NewDie builds a die showing top on top and right on its right face.
// A top and right of 1 makes the all-ones key die. Inputs that cannot
// describe a real orientation give an unowned die in the canonical pose.
func NewDie(top, right int, side Side) Die {
	if side != SideA && side != SideB {
		side = Unowned
	}
	if top == 1 && right == 1 {
		return Die{1, 1, 1, 1, 1, 1, side}
	}
	if top < 1 || top > 6 || right < 1 || right > 6 || right == top || right == 7-top {
		return neutralDie(Unowned)
	}

	d := neutralDie(side)
	d.rollToTop(top)
	for d.right != right {
		d.rotateLeft()
	}
	// Side B looks at the board from the far end.
	if side == SideB {
		d.rotateLeft()
		d.rotateLeft()
	}
	return d
}

// rollToTop brings v to the top of a die in the canonical pose.
func (d *Die) rollToTop(v int) {
	switch v {
	case 2:
		d.Roll(Right)
	case 3:
		d.Roll(Up)
	case 4:
		d.Roll(Down)
	case 5:
		d.Roll(Left)
	case 6:
		d.Roll(Up)
		d.Roll(Up)
	}
}

// rotateLeft turns the die a quarter about its vertical axis.
func (d *Die) rotateLeft() {
	d.front, d.left, d.back, d.right = d.left, d.back, d.right, d.front
}

// Roll tumbles the die one cell in dir. It reports false for an unknown
// direction and leaves the die untouched.
func (d *Die) Roll(dir Direction) bool {
	switch dir {
	case Up:
		d.top, d.front, d.bottom, d.back = d.front, d.bottom, d.back, d.top
	case Down:
		d.top, d.back, d.bottom, d.front = d.back, d.bottom, d.front, d.top
	case Left:
		d.top, d.right, d.bottom, d.left = d.right, d.bottom, d.left, d.top
	case Right:
		d.top, d.left, d.bottom, d.right = d.left, d.bottom, d.right, d.top
	default:
		return false
	}
	return true
}

func (d Die) Top() int    { return d.top }
func (d Die) Bottom() int { return d.bottom }
func (d Die) Front() int  { return d.front }
func (d Die) Back() int   { return d.back }
func (d Die) Left() int   { return d.left }
func (d Die) Right() int  { return d.right }
func (d Die) Side() Side  { return d.side }

// IsKey reports whether this is a key die.
func (d Die) IsKey() bool { return d.top == 1 && d.right == 1 }

// Label is the three character name of the die: side letter, top face,
// and the face on the owner's right. Side B sits across the board, so its
// right is the die's left.
func (d Die) Label() string {
	facing := d.right
	if d.side == SideB {
		facing = d.left
	}
	return fmt.Sprintf("%c%d%d", d.side.Letter(), d.top, facing)
}

// ParseLabel rebuilds a die from its label.
func ParseLabel(s string) (Die, error) {
	if len(s) != 3 {
		return Die{}, fmt.Errorf("%w: %q", ErrBadLabel, s)
	}
	side := sideFromLetter(s[0])
	top, facing := int(s[1]-'0'), int(s[2]-'0')
	if side == Unowned || top < 1 || top > 6 || facing < 1 || facing > 6 {
		return Die{}, fmt.Errorf("%w: %q", ErrBadLabel, s)
	}
	d := NewDie(top, facing, side)
	if d.side != side {
		return Die{}, fmt.Errorf("%w: %q has no matching orientation", ErrBadLabel, s)
	}
	return d, nil
}
