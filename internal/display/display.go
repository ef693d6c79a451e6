// Package display turns a diff.Delta into text lines for a terminal or a
// structured report.
//
// Every node pushes its name on a path stack on entry and pops it on exit,
// so each line carries the full location of the node, e.g.
//
//	~ Root/Work/VPN
//	    password: **** → ****
//	+ Root/Email
//	    title: Email
package display

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/rolledback/safediff/internal/diff"
	"github.com/rolledback/safediff/internal/models"
	"github.com/rolledback/safediff/internal/stack"
)

const (
	absentValue = "(absent)"
	rootName    = "Root"
	fieldIndent = "    "
)

type Display struct {
	Delta *diff.Delta
	Path  *stack.Stack
	Options

	masker Masker
}

func New(delta *diff.Delta, opts Options) *Display {
	return &Display{Delta: delta, Path: stack.Empty(), Options: opts}
}

// Render writes the whole Delta to s.
func (d *Display) Render(s Sink) error {
	if d.Delta == nil {
		return nil
	}
	if d.Path == nil {
		d.Path = stack.Empty()
	}
	d.masker = NewMasker(d.Options)
	return d.render(s, d.Delta)
}

func (d *Display) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := d.Render(NewTerminalSink(&buf, d.UseColor)); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

func (d *Display) String() string {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return fmt.Sprintf("render failed: %v", err)
	}
	return buf.String()
}

func (d *Display) render(s Sink, n *diff.Delta) error {
	return d.Path.Enter(segment(n, d.Path.Len() == 0), func() error {
		switch n.Kind {
		case diff.Added:
			if err := d.whole(s, StyleAdd, "+", n); err != nil {
				return err
			}
		case diff.Removed:
			if err := d.whole(s, StyleRemove, "-", n); err != nil {
				return err
			}
		case diff.Modified:
			if err := s.Line(StyleChange, "~ "+d.Path.String()); err != nil {
				return err
			}
			for _, f := range n.Fields {
				line := fmt.Sprintf("%s%s: %s → %s", fieldIndent, f.Name, d.value(f.Name, f.Old), d.value(f.Name, f.New))
				if err := s.Line(StyleChange, line); err != nil {
					return err
				}
			}
		default:
			if !d.UseVerbose {
				return nil
			}
			if err := s.Line(StyleDefault, "  "+d.Path.String()); err != nil {
				return err
			}
		}

		for _, c := range n.Children {
			if err := d.render(s, c); err != nil {
				return err
			}
		}
		return nil
	})
}

// whole prints an added or removed node with its payload fields.
func (d *Display) whole(s Sink, style Style, marker string, n *diff.Delta) error {
	if err := s.Line(style, marker+" "+d.Path.String()); err != nil {
		return err
	}
	for _, f := range payloadFields(n) {
		if err := s.Line(style, fmt.Sprintf("%s%s: %s", fieldIndent, f.name, d.value(f.name, f.value))); err != nil {
			return err
		}
	}
	return nil
}

func (d *Display) value(field string, v *string) string {
	v = d.masker.Value(field, v)
	if v == nil {
		return absentValue
	}
	return *v
}

type namedValue struct {
	name  string
	value *string
}

// payloadFields lists the fields of an Added or Removed entry or history
// version in their stored order.
func payloadFields(n *diff.Delta) []namedValue {
	var fields *models.Fields
	var out []namedValue
	switch {
	case n.Entry != nil:
		fields = &n.Entry.Fields
	case n.History != nil:
		fields = &n.History.Fields
	default:
		return nil
	}
	for _, k := range fields.Keys() {
		out = append(out, namedValue{name: k, value: fields.Lookup(k)})
	}
	if n.History != nil && !n.History.ModifiedAt.IsZero() {
		ts := n.History.ModifiedAt.UTC().Format(time.RFC3339)
		out = append(out, namedValue{name: diff.FieldModifiedAt, value: &ts})
	}
	return out
}

func segment(n *diff.Delta, root bool) string {
	if root && n.Name == "" {
		return rootName
	}
	return n.Name
}
