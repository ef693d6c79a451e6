package models

import "time"

// Well-known entry field names.
const (
	FieldTitle    = "title"
	FieldUsername = "username"
	FieldPassword = "password"
	FieldURL      = "url"
	FieldNotes    = "notes"
)

// Group is one container node of a database snapshot. IDs are unique among
// the entries and subgroups of a single group.
type Group struct {
	ID      string
	Name    string
	Entries []Entry
	Groups  []*Group
}

// Entry is a record of field values plus its prior versions, oldest first.
type Entry struct {
	ID      string
	Fields  Fields
	History []HistoryEntry
}

// HistoryEntry is one recorded prior state of an Entry.
type HistoryEntry struct {
	Fields     Fields
	ModifiedAt time.Time
}

// Name is the entry title, or its ID when the title is missing or empty.
func (e *Entry) Name() string {
	if title, ok := e.Fields.Get(FieldTitle); ok && title != "" {
		return title
	}
	return e.ID
}

func (e *Entry) Clone() *Entry {
	c := &Entry{ID: e.ID, Fields: e.Fields.Clone()}
	if e.History != nil {
		c.History = make([]HistoryEntry, len(e.History))
		for i := range e.History {
			c.History[i] = *e.History[i].Clone()
		}
	}
	return c
}

func (h *HistoryEntry) Clone() *HistoryEntry {
	return &HistoryEntry{Fields: h.Fields.Clone(), ModifiedAt: h.ModifiedAt}
}

// Clone returns a deep copy of the whole subtree rooted at g.
func (g *Group) Clone() *Group {
	c := &Group{ID: g.ID, Name: g.Name}
	if g.Entries != nil {
		c.Entries = make([]Entry, len(g.Entries))
		for i := range g.Entries {
			c.Entries[i] = *g.Entries[i].Clone()
		}
	}
	if g.Groups != nil {
		c.Groups = make([]*Group, len(g.Groups))
		for i, sub := range g.Groups {
			c.Groups[i] = sub.Clone()
		}
	}
	return c
}

// Subgroup returns the direct child group with the given ID, creating it
// when absent. Loaders use it to build trees from flat record lists.
func (g *Group) Subgroup(id, name string) *Group {
	for _, sub := range g.Groups {
		if sub.ID == id {
			return sub
		}
	}
	sub := &Group{ID: id, Name: name, Entries: []Entry{}, Groups: []*Group{}}
	g.Groups = append(g.Groups, sub)
	return sub
}
