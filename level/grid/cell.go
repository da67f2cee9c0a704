package grid

import "fmt"

// Cell is the category of a single tile. The set is closed: every grid token
// maps to exactly one Cell and back.
type Cell uint8

const (
	Empty Cell = iota
	Wall
	Sand
	Water
	Start
	Goal
	CurrentUp
	CurrentDown
	CurrentLeft
	CurrentRight
	// Ref1..Ref9 are reserved numbered entity references. They are accepted
	// and round-tripped but never interpreted.
	Ref1
	Ref2
	Ref3
	Ref4
	Ref5
	Ref6
	Ref7
	Ref8
	Ref9
)

// IsCurrent reports whether the cell is a directional-current tile.
func (c Cell) IsCurrent() bool {
	return c >= CurrentUp && c <= CurrentRight
}

// IsHazard reports whether the cell is a sand or water tile.
func (c Cell) IsHazard() bool {
	return c == Sand || c == Water
}

// IsRef reports whether the cell is a reserved numbered reference.
func (c Cell) IsRef() bool {
	return c >= Ref1 && c <= Ref9
}

// CurrentDir returns the unit tile direction of a current cell, or (0,0) for
// any other cell.
func (c Cell) CurrentDir() (dx, dy int) {
	switch c {
	case CurrentUp:
		return 0, -1
	case CurrentDown:
		return 0, 1
	case CurrentLeft:
		return -1, 0
	case CurrentRight:
		return 1, 0
	}
	return 0, 0
}

// String returns the cell's token as a readable label.
func (c Cell) String() string {
	if t, err := c.Token(); err == nil {
		return string(t)
	}
	return fmt.Sprintf("Cell(%d)", uint8(c))
}

// cellTokens is the closed token alphabet. Serialization is the only place
// characters appear; all other logic works on Cell values.
var cellTokens = map[Cell]byte{
	Empty:        '.',
	Wall:         '#',
	Sand:         's',
	Water:        'w',
	Start:        'B',
	Goal:         'H',
	CurrentUp:    '^',
	CurrentDown:  'v',
	CurrentLeft:  '<',
	CurrentRight: '>',
	Ref1:         '1',
	Ref2:         '2',
	Ref3:         '3',
	Ref4:         '4',
	Ref5:         '5',
	Ref6:         '6',
	Ref7:         '7',
	Ref8:         '8',
	Ref9:         '9',
}

var tokenCells = func() map[byte]Cell {
	m := make(map[byte]Cell, len(cellTokens))
	for c, t := range cellTokens {
		m[t] = c
	}
	return m
}()

// CellForToken translates a grid character into its Cell, reporting whether
// the character is part of the alphabet.
func CellForToken(t byte) (Cell, bool) {
	c, ok := tokenCells[t]
	return c, ok
}

// Token returns the single-character encoding of the cell.
func (c Cell) Token() (byte, error) {
	t, ok := cellTokens[c]
	if !ok {
		return 0, fmt.Errorf("no token for cell %d", uint8(c))
	}
	return t, nil
}
