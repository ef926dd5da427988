package game

import "time"

// MoveKind distinguishes the actions stored in a game log.
type MoveKind string

const (
	KindMove   MoveKind = "MOVE"
	KindPass   MoveKind = "PASS"
	KindResign MoveKind = "RESIGN"
)

// MoveRecord is one accepted action in the game log.
type MoveRecord struct {
	GameID   string    `json:"game_id" bson:"game_id"`
	Number   int       `json:"move_number" bson:"move_number"`
	Kind     MoveKind  `json:"type" bson:"type"`
	Color    string    `json:"color" bson:"color"`
	Col      int       `json:"col" bson:"col"`
	Row      int       `json:"row" bson:"row"`
	PlayedAt time.Time `json:"played_at" bson:"played_at"`
}

func PlacementRecord(m Move) MoveRecord {
	return MoveRecord{Kind: KindMove, Color: m.Player.Color.String(), Col: m.Position.Col, Row: m.Position.Row}
}

func PassRecord(p *GamePlayer) MoveRecord {
	return MoveRecord{Kind: KindPass, Color: p.Color.String(), Col: -1, Row: -1}
}

func ResignRecord(p *GamePlayer) MoveRecord {
	return MoveRecord{Kind: KindResign, Color: p.Color.String(), Col: -1, Row: -1}
}
