package sgf

// GameTree is one SGF tree: the main line of nodes and its variations.
type GameTree struct {
	Nodes    []Node
	Children []*GameTree
}

// Node is a set of SGF properties such as B[pd] or C[...]. Properties may repeat.
type Node struct {
	Properties map[string][]string
}

// SGF is the root of an SGF document.
type SGF struct {
	Root *GameTree
}

// RootOrder is the order root properties are written in.
var RootOrder = []string{"FF", "GM", "SZ", "PB", "PW", "DT", "RE", "KM", "RU", "C", "B", "W"}
