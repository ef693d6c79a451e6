package diff

// Stats counts classified groups and entries. History versions are not
// counted on their own; they make their entry Modified.
type Stats struct {
	Added     int `json:"added" yaml:"added"`
	Removed   int `json:"removed" yaml:"removed"`
	Modified  int `json:"modified" yaml:"modified"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
}

func (s Stats) HasChanges() bool {
	return s.Added+s.Removed+s.Modified > 0
}

// Summarise walks the whole Delta tree, root included.
func Summarise(d *Delta) Stats {
	var s Stats
	summarise(d, &s)
	return s
}

func summarise(d *Delta, s *Stats) {
	if d == nil || d.Node == HistoryNode {
		return
	}
	switch d.Kind {
	case Added:
		s.Added++
	case Removed:
		s.Removed++
	case Modified:
		s.Modified++
	default:
		s.Unchanged++
	}
	for _, c := range d.Children {
		summarise(c, s)
	}
}
