// Package stack tracks the descent path through a tree walk so each reported
// node can be printed with its full location.
package stack

import (
	"iter"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrEmptyStack means Pop was called more often than Push. It only happens
// when a walk breaks its push/pop pairing.
var ErrEmptyStack = errors.New("pop from empty path stack")

const Separator = "/"

type Stack struct {
	segments []string
}

func Empty() *Stack {
	return &Stack{}
}

func (s *Stack) Push(name string) {
	s.segments = append(s.segments, name)
}

func (s *Stack) Pop() (string, error) {
	if len(s.segments) == 0 {
		return "", errors.WithStack(ErrEmptyStack)
	}
	last := s.segments[len(s.segments)-1]
	s.segments = s.segments[:len(s.segments)-1]
	return last, nil
}

func (s *Stack) Len() int {
	return len(s.segments)
}

// All yields the segments in descent order.
func (s *Stack) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, seg := range s.segments {
			if !yield(seg) {
				return
			}
		}
	}
}

func (s *Stack) String() string {
	return strings.Join(s.segments, Separator)
}

// Enter pushes name, runs fn and pops again on every way out of fn,
// including a panic. An unbalanced pop panics with ErrEmptyStack.
func (s *Stack) Enter(name string, fn func() error) error {
	s.Push(name)
	defer func() {
		if _, err := s.Pop(); err != nil {
			panic(err)
		}
	}()
	return fn()
}
