package stack

import (
	"slices"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmpty(t *testing.T) {
	s := Empty()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.String())

	_, err := s.Pop()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyStack))
}

func TestPushPop(t *testing.T) {
	s := Empty()
	s.Push("root")
	s.Push("Group A")
	s.Push("Entry X")

	assert.Equal(t, "root/Group A/Entry X", s.String())
	assert.Equal(t, []string{"root", "Group A", "Entry X"}, slices.Collect(s.All()))

	last, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, "Entry X", last)
	assert.Equal(t, "root/Group A", s.String())
}

func TestAll_StopsEarly(t *testing.T) {
	s := Empty()
	s.Push("a")
	s.Push("b")
	s.Push("c")

	var seen []string
	for seg := range s.All() {
		seen = append(seen, seg)
		if seg == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestEnter_PopsOnEveryExit(t *testing.T) {
	s := Empty()
	s.Push("root")

	var inside string
	err := s.Enter("child", func() error {
		inside = s.String()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "root/child", inside)
	assert.Equal(t, 1, s.Len())

	boom := errors.New("boom")
	err = s.Enter("child", func() error { return boom })
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 1, s.Len())

	assert.Panics(t, func() {
		_ = s.Enter("child", func() error { panic("render failed") })
	})
	assert.Equal(t, 1, s.Len())
}

func TestEnter_Nested(t *testing.T) {
	s := Empty()
	var paths []string
	err := s.Enter("root", func() error {
		return s.Enter("a", func() error {
			paths = append(paths, s.String())
			return s.Enter("b", func() error {
				paths = append(paths, s.String())
				return nil
			})
		})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"root/a", "root/a/b"}, paths)
	assert.Equal(t, 0, s.Len())
}

func TestEnter_UnbalancedPopPanics(t *testing.T) {
	s := Empty()
	assert.PanicsWithError(t, ErrEmptyStack.Error(), func() {
		_ = s.Enter("x", func() error {
			_, _ = s.Pop()
			return nil
		})
	})
}
