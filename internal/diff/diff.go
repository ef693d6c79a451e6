package diff

import (
	"time"

	"github.com/rolledback/safediff/internal/models"
)

// FieldModifiedAt is the pseudo field reporting a changed history timestamp.
const FieldModifiedAt = "modified_at"

// Diff compares two snapshots and returns the Delta of their roots. The
// roots are always treated as the same group regardless of their IDs.
// Neither tree is modified.
func Diff(a, b *models.Group) *Delta {
	if a == nil {
		a = &models.Group{}
	}
	if b == nil {
		b = &models.Group{}
	}
	return diffGroup(a, b)
}

func diffGroup(a, b *models.Group) *Delta {
	d := &Delta{Kind: Unchanged, Node: GroupNode, ID: b.ID, Name: b.Name}

	if a.Name != b.Name {
		d.Fields = append(d.Fields, FieldDelta{Name: "name", Old: strPtr(a.Name), New: strPtr(b.Name)})
	}

	d.Children = append(d.Children, diffEntries(a.Entries, b.Entries)...)
	d.Children = append(d.Children, diffGroups(a.Groups, b.Groups)...)

	d.settle()
	return d
}

// diffEntries matches entries by ID. Matched and added entries follow b's
// order, removed entries follow a's order after them.
func diffEntries(a, b []models.Entry) []*Delta {
	inA := make(map[string]int, len(a))
	for i := range a {
		inA[a[i].ID] = i
	}
	inB := make(map[string]struct{}, len(b))

	var out []*Delta
	for i := range b {
		inB[b[i].ID] = struct{}{}
		if j, found := inA[b[i].ID]; found {
			out = append(out, diffEntry(&a[j], &b[i]))
		} else {
			out = append(out, wholeEntry(Added, &b[i]))
		}
	}
	for i := range a {
		if _, found := inB[a[i].ID]; !found {
			out = append(out, wholeEntry(Removed, &a[i]))
		}
	}
	return out
}

func diffGroups(a, b []*models.Group) []*Delta {
	inA := make(map[string]*models.Group, len(a))
	for _, g := range a {
		inA[g.ID] = g
	}
	inB := make(map[string]struct{}, len(b))

	var out []*Delta
	for _, g := range b {
		inB[g.ID] = struct{}{}
		if ga, found := inA[g.ID]; found {
			out = append(out, diffGroup(ga, g))
		} else {
			out = append(out, wholeGroup(Added, g))
		}
	}
	for _, g := range a {
		if _, found := inB[g.ID]; !found {
			out = append(out, wholeGroup(Removed, g))
		}
	}
	return out
}

func diffEntry(a, b *models.Entry) *Delta {
	d := &Delta{
		Kind:   Unchanged,
		Node:   EntryNode,
		ID:     b.ID,
		Name:   b.Name(),
		Fields: diffFields(&a.Fields, &b.Fields),
	}
	d.Children = diffHistory(a.History, b.History)
	d.settle()
	return d
}

// diffHistory pairs versions by position, oldest first. Versions have no
// identity of their own, so an insertion in the middle shows up as changes
// to every later position.
func diffHistory(a, b []models.HistoryEntry) []*Delta {
	var out []*Delta

	i := 0
	for ; i < len(a) && i < len(b); i++ {
		d := &Delta{
			Kind:   Unchanged,
			Node:   HistoryNode,
			Name:   HistoryName(i),
			Index:  i,
			Fields: diffFields(&a[i].Fields, &b[i].Fields),
		}
		if !a[i].ModifiedAt.Equal(b[i].ModifiedAt) {
			d.Fields = append(d.Fields, FieldDelta{
				Name: FieldModifiedAt,
				Old:  timePtr(a[i].ModifiedAt),
				New:  timePtr(b[i].ModifiedAt),
			})
		}
		d.settle()
		out = append(out, d)
	}

	for j := i; j < len(a); j++ {
		out = append(out, wholeHistory(Removed, j, &a[j]))
	}
	for j := i; j < len(b); j++ {
		out = append(out, wholeHistory(Added, j, &b[j]))
	}
	return out
}

// diffFields reports every key whose value differs, including a key present
// on one side only. Keys follow b's order, then a-only keys in a's order.
func diffFields(a, b *models.Fields) []FieldDelta {
	var out []FieldDelta
	for _, k := range b.Keys() {
		newV, _ := b.Get(k)
		oldV, inA := a.Get(k)
		if inA && oldV == newV {
			continue
		}
		fd := FieldDelta{Name: k, New: strPtr(newV)}
		if inA {
			fd.Old = strPtr(oldV)
		}
		out = append(out, fd)
	}
	for _, k := range a.Keys() {
		if b.Has(k) {
			continue
		}
		oldV, _ := a.Get(k)
		out = append(out, FieldDelta{Name: k, Old: strPtr(oldV)})
	}
	return out
}

// wholeGroup copies g once and builds the Added or Removed subtree over that
// copy, so every node's payload points into a single clone.
func wholeGroup(kind Kind, g *models.Group) *Delta {
	return wholeGroupOf(kind, g.Clone())
}

func wholeGroupOf(kind Kind, g *models.Group) *Delta {
	d := &Delta{Kind: kind, Node: GroupNode, ID: g.ID, Name: g.Name, Group: g}
	for i := range g.Entries {
		d.Children = append(d.Children, wholeEntryOf(kind, &g.Entries[i]))
	}
	for _, sub := range g.Groups {
		d.Children = append(d.Children, wholeGroupOf(kind, sub))
	}
	return d
}

func wholeEntry(kind Kind, e *models.Entry) *Delta {
	return wholeEntryOf(kind, e.Clone())
}

func wholeEntryOf(kind Kind, e *models.Entry) *Delta {
	d := &Delta{Kind: kind, Node: EntryNode, ID: e.ID, Name: e.Name(), Entry: e}
	for i := range e.History {
		d.Children = append(d.Children, historyNode(kind, i, &e.History[i]))
	}
	return d
}

func wholeHistory(kind Kind, i int, h *models.HistoryEntry) *Delta {
	return historyNode(kind, i, h.Clone())
}

func historyNode(kind Kind, i int, h *models.HistoryEntry) *Delta {
	return &Delta{Kind: kind, Node: HistoryNode, Name: HistoryName(i), Index: i, History: h}
}

// settle marks a matched node Modified when it or any child differs.
func (d *Delta) settle() {
	if len(d.Fields) > 0 {
		d.Kind = Modified
		return
	}
	for _, c := range d.Children {
		if c.Kind != Unchanged {
			d.Kind = Modified
			return
		}
	}
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	return strPtr(t.UTC().Format(time.RFC3339))
}
