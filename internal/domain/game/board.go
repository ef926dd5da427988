package game

import (
	"fmt"
	"strings"

	errs "gogame/internal/errors"
)

// AllowedSizes lists the board sizes a game can be created with.
var AllowedSizes = []int{9, 13, 19}

// Board is a fixed size x size grid of stones. It is never resized.
type Board struct {
	size  int
	cells []StoneColor
}

// NewBoard creates an empty board. Only sizes from AllowedSizes are accepted.
func NewBoard(size int) (*Board, error) {
	if !IsAllowedSize(size) {
		return nil, fmt.Errorf("%w: got %d", errs.ErrInvalidBoardSize, size)
	}
	return &Board{size: size, cells: make([]StoneColor, size*size)}, nil
}

func IsAllowedSize(size int) bool {
	for _, s := range AllowedSizes {
		if s == size {
			return true
		}
	}
	return false
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) InBounds(p Position) bool {
	return p.Col >= 0 && p.Col < b.size && p.Row >= 0 && p.Row < b.size
}

// Get returns the stone at p or ErrOutOfBounds.
func (b *Board) Get(p Position) (StoneColor, error) {
	if !b.InBounds(p) {
		return Empty, fmt.Errorf("%w: %v", errs.ErrOutOfBounds, p)
	}
	return b.cells[p.Row*b.size+p.Col], nil
}

// At is Get for positions the caller already checked. Out of bounds reads as Empty.
func (b *Board) At(p Position) StoneColor {
	if !b.InBounds(p) {
		return Empty
	}
	return b.cells[p.Row*b.size+p.Col]
}

// Set writes c at p. Writes outside the board are silently dropped.
func (b *Board) Set(p Position, c StoneColor) {
	if !b.InBounds(p) {
		return
	}
	b.cells[p.Row*b.size+p.Col] = c
}

func (b *Board) Remove(p Position) {
	b.Set(p, Empty)
}

// IsEmpty is false for positions outside the board.
func (b *Board) IsEmpty(p Position) bool {
	return b.InBounds(p) && b.cells[p.Row*b.size+p.Col] == Empty
}

// Snapshot is an exact copy of every cell, empty ones included.
// Two snapshots are equal iff the boards hold the same stones.
type Snapshot string

func (b *Board) Snapshot() Snapshot {
	raw := make([]byte, len(b.cells))
	for i, c := range b.cells {
		raw[i] = byte(c)
	}
	return Snapshot(raw)
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]StoneColor, len(b.cells))
	copy(cells, b.cells)
	return &Board{size: b.size, cells: cells}
}

// Positions lists every cell in row-major order.
func (b *Board) Positions() []Position {
	out := make([]Position, 0, len(b.cells))
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			out = append(out, Position{Col: c, Row: r})
		}
	}
	return out
}

// String renders the board with column and row indices, one row per line.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < b.size; c++ {
		fmt.Fprintf(&sb, " %2d", c)
	}
	sb.WriteByte('\n')
	for r := 0; r < b.size; r++ {
		fmt.Fprintf(&sb, "%2d ", r)
		for c := 0; c < b.size; c++ {
			fmt.Fprintf(&sb, "  %c", b.cells[r*b.size+c].symbol())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
