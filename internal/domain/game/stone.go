package game

import "fmt"

// StoneColor is the state of one board cell.
type StoneColor uint8

const (
	Empty StoneColor = iota
	Black
	White
)

// Other maps Black to White and back. Empty stays Empty.
func (c StoneColor) Other() StoneColor {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

func (c StoneColor) String() string {
	switch c {
	case Black:
		return "BLACK"
	case White:
		return "WHITE"
	default:
		return "EMPTY"
	}
}

// ParseStoneColor accepts the wire names and the SGF letters.
func ParseStoneColor(s string) (StoneColor, error) {
	switch s {
	case "BLACK", "black", "B", "b":
		return Black, nil
	case "WHITE", "white", "W", "w":
		return White, nil
	case "EMPTY", "empty", "":
		return Empty, nil
	}
	return Empty, fmt.Errorf("unknown stone colour %q", s)
}

func (c StoneColor) symbol() byte {
	switch c {
	case Black:
		return 'B'
	case White:
		return 'W'
	default:
		return '.'
	}
}

// Position is a (column, row) pair, zero based.
type Position struct {
	Col int `json:"col" bson:"col"`
	Row int `json:"row" bson:"row"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Col, p.Row)
}
