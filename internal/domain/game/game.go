package game

import "time"

// Statuses of a persisted game.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
)

// FinishReason tells how a game ended.
type FinishReason string

const (
	ReasonResign     FinishReason = "resign"
	ReasonScore      FinishReason = "score"
	ReasonDisconnect FinishReason = "disconnect"
)

// GameRecord is the persisted header of one game.
type GameRecord struct {
	ID          string     `json:"id" bson:"game_id"`
	BoardSize   int        `json:"board_size" bson:"board_size"`
	PlayerBlack string     `json:"player_black" bson:"player_black"`
	PlayerWhite string     `json:"player_white" bson:"player_white"`
	Status      string     `json:"status" bson:"status"`
	Winner      string     `json:"winner,omitempty" bson:"winner,omitempty"`
	WinnerColor string     `json:"winner_color,omitempty" bson:"winner_color,omitempty"`
	Reason      string     `json:"reason,omitempty" bson:"reason,omitempty"`
	StartedAt   time.Time  `json:"started_at" bson:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
}

// SessionSummary is a read-only view of a live session.
type SessionSummary struct {
	ID            string `json:"id"`
	BoardSize     int    `json:"board_size"`
	Mode          string `json:"mode"`
	Phase         string `json:"phase"`
	Started       bool   `json:"started"`
	CurrentColor  string `json:"current_color"`
	PlayerBlack   string `json:"player_black"`
	PlayerWhite   string `json:"player_white"`
	BlackCaptures int    `json:"black_captures"`
	WhiteCaptures int    `json:"white_captures"`
}
