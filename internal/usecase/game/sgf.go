package game

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gogame/internal/domain/game"
	"gogame/internal/domain/sgf"
)

// PrepareSgf builds the root node for a new game record.
func PrepareSgf(rec game.GameRecord) sgf.SGF {
	return sgf.SGF{
		Root: &sgf.GameTree{
			Nodes: []sgf.Node{
				{
					Properties: map[string][]string{
						"FF": {"4"},
						"GM": {"1"},
						"SZ": {strconv.Itoa(rec.BoardSize)},
						"PB": {rec.PlayerBlack},
						"PW": {rec.PlayerWhite},
						"DT": {rec.StartedAt.Format("2006-01-02")},
						"RE": {""},
						"KM": {"0.0"},
						"RU": {"Japanese"},
					},
				},
			},
		},
	}
}

// MoveNode turns a placement or a pass into an SGF node. Resignations have no node.
func MoveNode(m game.MoveRecord) (sgf.Node, bool) {
	color, err := game.ParseStoneColor(m.Color)
	if err != nil || color == game.Empty {
		return sgf.Node{}, false
	}
	key := "B"
	if color == game.White {
		key = "W"
	}
	switch m.Kind {
	case game.KindMove:
		return sgf.Node{Properties: map[string][]string{key: {Coordinate(m.Col, m.Row)}}}, true
	case game.KindPass:
		return sgf.Node{Properties: map[string][]string{key: {""}}}, true
	}
	return sgf.Node{}, false
}

// Coordinate is the SGF point for a zero based column and row.
func Coordinate(col, row int) string {
	return string([]byte{byte('a' + col), byte('a' + row)})
}

func SerializeSGF(s *sgf.SGF) string {
	var builder strings.Builder
	builder.WriteString("(")
	serializeGameTree(&builder, s.Root)
	builder.WriteString(")")
	return builder.String()
}

func serializeGameTree(builder *strings.Builder, tree *sgf.GameTree) {
	for _, node := range tree.Nodes {
		builder.WriteString(";")

		used := make(map[string]bool)
		for _, key := range sgf.RootOrder {
			if values, ok := node.Properties[key]; ok {
				used[key] = true
				writeProperty(builder, key, values)
			}
		}

		rest := make([]string, 0, len(node.Properties))
		for key := range node.Properties {
			if !used[key] {
				rest = append(rest, key)
			}
		}
		sort.Strings(rest)
		for _, key := range rest {
			writeProperty(builder, key, node.Properties[key])
		}
	}

	for _, child := range tree.Children {
		builder.WriteString("(")
		serializeGameTree(builder, child)
		builder.WriteString(")")
	}
}

func writeProperty(builder *strings.Builder, key string, values []string) {
	for _, v := range values {
		fmt.Fprintf(builder, "%s[%s]", key, v)
	}
}

// AppendMoveToSgf adds one node to the end of a serialized main line.
func AppendMoveToSgf(sgfText string, m game.MoveRecord) string {
	node, ok := MoveNode(m)
	if !ok {
		return sgfText
	}
	sgfText = strings.TrimSuffix(sgfText, ")")
	var builder strings.Builder
	builder.WriteString(sgfText)
	serializeGameTree(&builder, &sgf.GameTree{Nodes: []sgf.Node{node}})
	builder.WriteString(")")
	return builder.String()
}

// SetSgfResult replaces the value of the first RE property.
func SetSgfResult(sgfText, result string) string {
	start := strings.Index(sgfText, "RE[")
	if start < 0 {
		return sgfText
	}
	start += len("RE[")
	end := strings.IndexByte(sgfText[start:], ']')
	if end < 0 {
		return sgfText
	}
	return sgfText[:start] + result + sgfText[start+end:]
}

// ResultToken is the SGF RE value: "B+R", "W+", "0" for a draw, "Void" when
// the game was abandoned.
func ResultToken(winner *game.GamePlayer, reason game.FinishReason) string {
	if reason == game.ReasonDisconnect {
		return "Void"
	}
	if winner == nil {
		return "0"
	}
	token := "B+"
	if winner.Color == game.White {
		token = "W+"
	}
	if reason == game.ReasonResign {
		token += "R"
	}
	return token
}
