package display

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/rolledback/safediff/internal/diff"
	"github.com/rolledback/safediff/internal/stack"
)

// Report is the structured form of a Delta used for JSON and YAML output.
type Report struct {
	Stats   diff.Stats `json:"stats" yaml:"stats"`
	Changes []Change   `json:"changes" yaml:"changes"`
}

type Change struct {
	Path   string        `json:"path" yaml:"path"`
	Kind   diff.Kind     `json:"kind" yaml:"kind"`
	Node   diff.NodeType `json:"node" yaml:"node"`
	Fields []FieldChange `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// FieldChange holds one field value pair. For added nodes only New is set,
// for removed nodes only Old.
type FieldChange struct {
	Name string  `json:"name" yaml:"name"`
	Old  *string `json:"old" yaml:"old"`
	New  *string `json:"new" yaml:"new"`
}

// BuildReport flattens a Delta in rendering order. Unchanged nodes are only
// listed when opts.UseVerbose is set. Password values go through the same
// Masker as the text output.
func BuildReport(delta *diff.Delta, opts Options) (*Report, error) {
	r := &Report{Changes: []Change{}}
	if delta == nil {
		return r, nil
	}
	r.Stats = diff.Summarise(delta)

	b := reportBuilder{path: stack.Empty(), masker: NewMasker(opts), verbose: opts.UseVerbose, report: r}
	if err := b.add(delta); err != nil {
		return nil, err
	}
	return r, nil
}

type reportBuilder struct {
	path    *stack.Stack
	masker  Masker
	verbose bool
	report  *Report
}

func (b *reportBuilder) add(n *diff.Delta) error {
	return b.path.Enter(segment(n, b.path.Len() == 0), func() error {
		if n.Kind != diff.Unchanged || b.verbose {
			c := Change{Path: b.path.String(), Kind: n.Kind, Node: n.Node}
			switch n.Kind {
			case diff.Modified:
				for _, f := range n.Fields {
					c.Fields = append(c.Fields, FieldChange{
						Name: f.Name,
						Old:  b.masker.Value(f.Name, f.Old),
						New:  b.masker.Value(f.Name, f.New),
					})
				}
			case diff.Added, diff.Removed:
				for _, f := range payloadFields(n) {
					fc := FieldChange{Name: f.name}
					if n.Kind == diff.Added {
						fc.New = b.masker.Value(f.name, f.value)
					} else {
						fc.Old = b.masker.Value(f.name, f.value)
					}
					c.Fields = append(c.Fields, fc)
				}
			}
			b.report.Changes = append(b.report.Changes, c)
		}
		for _, child := range n.Children {
			if err := b.add(child); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Report) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return errors.Wrap(enc.Encode(r), "encode json report")
}

func (r *Report) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "encode yaml report")
	}
	return errors.Wrap(enc.Close(), "encode yaml report")
}
