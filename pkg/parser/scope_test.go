package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/codehl/pkg/token"
)

func TestScopeStack(t *testing.T) {
	s := NewScopeStack()
	assert.Equal(t, ScopeGlobal, s.Current().Type)
	assert.Equal(t, "", s.Path())
	assert.Equal(t, "", s.Component())

	s.Declare("React", "import", token.Token{Value: "React"})
	s.Push(ScopeClass, "Counter")
	s.Push(ScopeFunction, "")
	s.Declare("count", "let", token.Token{Value: "count"})

	assert.Equal(t, 2, s.Depth())
	assert.Equal(t, "Counter", s.Path())
	assert.Equal(t, "Counter", s.Component())

	b, sc, ok := s.Lookup("React")
	require.True(t, ok)
	assert.Equal(t, "import", b.Kind)
	assert.Equal(t, ScopeGlobal, sc.Type)

	_, sc, ok = s.Lookup("count")
	require.True(t, ok)
	assert.Equal(t, ScopeFunction, sc.Type)

	s.Pop()
	s.Pop()
	s.Pop()
	assert.Equal(t, 0, s.Depth())
	_, _, ok = s.Lookup("count")
	assert.False(t, ok)
}
