// Package board holds stateless connectivity queries over a game board.
package board

import "gogame/internal/domain/game"

// PositionSet is the visited set shared between flood fills.
type PositionSet map[game.Position]struct{}

func (s PositionSet) Add(p game.Position) { s[p] = struct{}{} }

func (s PositionSet) Has(p game.Position) bool {
	_, ok := s[p]
	return ok
}

// up, down, left, right
var directions = [4]game.Position{{Col: 0, Row: -1}, {Col: 0, Row: 1}, {Col: -1, Row: 0}, {Col: 1, Row: 0}}

// Neighbors returns the in-bounds orthogonal neighbours of p in a fixed order.
func Neighbors(b *game.Board, p game.Position) []game.Position {
	out := make([]game.Position, 0, 4)
	for _, d := range directions {
		n := game.Position{Col: p.Col + d.Col, Row: p.Row + d.Row}
		if b.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// FloodFill collects the cells of colour connected to start, breadth first.
// It returns nil when start is not of colour or was already visited.
func FloodFill(b *game.Board, start game.Position, color game.StoneColor, visited PositionSet) []game.Position {
	if !b.InBounds(start) || b.At(start) != color || visited.Has(start) {
		return nil
	}
	visited.Add(start)
	queue := []game.Position{start}
	var region []game.Position
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		region = append(region, cur)
		for _, n := range Neighbors(b, cur) {
			if !visited.Has(n) && b.At(n) == color {
				visited.Add(n)
				queue = append(queue, n)
			}
		}
	}
	return region
}

// Group is the stone group containing start. Empty cells have no group.
func Group(b *game.Board, start game.Position, visited PositionSet) []game.Position {
	color := b.At(start)
	if color == game.Empty {
		return nil
	}
	return FloodFill(b, start, color, visited)
}

// EmptyRegion is the connected empty area containing start.
func EmptyRegion(b *game.Board, start game.Position, visited PositionSet) []game.Position {
	return FloodFill(b, start, game.Empty, visited)
}

// Liberties counts the distinct empty cells adjacent to the group.
func Liberties(b *game.Board, group []game.Position) int {
	libs := make(PositionSet)
	for _, stone := range group {
		for _, n := range Neighbors(b, stone) {
			if b.IsEmpty(n) {
				libs.Add(n)
			}
		}
	}
	return len(libs)
}

// BorderingColors returns the stone colours adjacent to an empty region.
func BorderingColors(b *game.Board, region []game.Position) map[game.StoneColor]struct{} {
	colors := make(map[game.StoneColor]struct{}, 2)
	for _, p := range region {
		for _, n := range Neighbors(b, p) {
			if c := b.At(n); c != game.Empty {
				colors[c] = struct{}{}
			}
		}
	}
	return colors
}

// Owner is the single colour bordering region, or Empty when the region is neutral.
func Owner(b *game.Board, region []game.Position) game.StoneColor {
	colors := BorderingColors(b, region)
	if len(colors) != 1 {
		return game.Empty
	}
	for c := range colors {
		return c
	}
	return game.Empty
}
