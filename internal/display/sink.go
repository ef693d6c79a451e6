package display

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

type Style int

const (
	StyleDefault Style = iota
	StyleAdd
	StyleRemove
	StyleChange
)

// Sink receives rendered lines. Styles are hints; a sink may ignore them.
type Sink interface {
	Line(style Style, text string) error
}

// TerminalSink writes one line per call, coloured when useColor is set.
type TerminalSink struct {
	w        io.Writer
	useColor bool
}

func NewTerminalSink(w io.Writer, useColor bool) *TerminalSink {
	return &TerminalSink{w: w, useColor: useColor}
}

func (s *TerminalSink) Line(style Style, text string) error {
	if s.useColor {
		text = colorize(style, text)
	}
	_, err := fmt.Fprintln(s.w, text)
	return err
}

func colorize(style Style, text string) string {
	switch style {
	case StyleAdd:
		return pterm.FgGreen.Sprint(text)
	case StyleRemove:
		return pterm.FgRed.Sprint(text)
	case StyleChange:
		return pterm.FgYellow.Sprint(text)
	default:
		return text
	}
}

// StyledLine is one line captured by a RecordingSink.
type StyledLine struct {
	Style Style
	Text  string
}

// RecordingSink keeps every line in memory.
type RecordingSink struct {
	Lines []StyledLine
}

func (s *RecordingSink) Line(style Style, text string) error {
	s.Lines = append(s.Lines, StyledLine{Style: style, Text: text})
	return nil
}

// Texts returns the captured lines without their styles.
func (s *RecordingSink) Texts() []string {
	out := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		out[i] = l.Text
	}
	return out
}
