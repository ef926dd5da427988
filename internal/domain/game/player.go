package game

import "fmt"

// GamePlayer identifies one side of a game. Exactly two exist per game and they
// are compared by pointer.
type GamePlayer struct {
	Name  string
	Color StoneColor
}

func NewPlayer(name string, color StoneColor) *GamePlayer {
	if name == "" {
		name = "Player"
	}
	return &GamePlayer{Name: name, Color: color}
}

func (p *GamePlayer) String() string {
	if p == nil {
		return "(none)"
	}
	return fmt.Sprintf("%s(%s)", p.Name, p.Color)
}

// Move is a stone placement by a player.
type Move struct {
	Position Position
	Player   *GamePlayer
}

// Phase of a game.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseNegotiation
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseNegotiation:
		return "NEGOTIATION"
	case PhaseFinished:
		return "FINISHED"
	default:
		return "PLAYING"
	}
}
