package diff

import (
	"fmt"

	"github.com/rolledback/safediff/internal/models"
)

// Kind classifies one node of a Delta tree.
type Kind int

const (
	Unchanged Kind = iota
	Added
	Removed
	Modified
)

var kindNames = [...]string{"unchanged", "added", "removed", "modified"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// NodeType says what a Delta node describes.
type NodeType int

const (
	GroupNode NodeType = iota
	EntryNode
	HistoryNode
)

var nodeNames = [...]string{"group", "entry", "history"}

func (n NodeType) String() string {
	if int(n) < len(nodeNames) {
		return nodeNames[n]
	}
	return fmt.Sprintf("node(%d)", int(n))
}

func (n NodeType) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// FieldDelta is one field whose value differs between the two sides.
// A nil Old or New means the field is absent on that side.
type FieldDelta struct {
	Name string
	Old  *string
	New  *string
}

// Delta mirrors the group hierarchy. Added and Removed nodes carry a copy of
// their payload in Group, Entry or History; Modified nodes carry field deltas
// and child deltas.
type Delta struct {
	Kind Kind
	Node NodeType
	ID   string
	Name string
	// Index is the position of a history node in its entry's history.
	Index int

	Group   *models.Group
	Entry   *models.Entry
	History *models.HistoryEntry

	Fields   []FieldDelta
	Children []*Delta
}

// HistoryName is the path segment used for the history version at index i.
func HistoryName(i int) string {
	return fmt.Sprintf("history[%d]", i)
}
