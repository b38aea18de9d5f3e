package simplec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopeFindLookup(t *testing.T) {
	s := NewScope()
	s.OpenScope() // outermost
	global := newSymbol("x", ScalarType(Int, 0))
	s.Insert(global)

	s.OpenScope() // nested
	local := newSymbol("y", ScalarType(Char, 0))
	s.Insert(local)

	require.Same(t, local, s.Find("y"), "Find only searches the innermost frame")
	require.Nil(t, s.Find("x"), "Find does not see the outer frame")
	require.Same(t, global, s.Lookup("x"), "Lookup walks outward to the outermost frame")
	require.Same(t, local, s.Lookup("y"))
	require.Nil(t, s.Lookup("z"))

	closed := s.CloseScope()
	require.Equal(t, []*Symbol{local}, closed)
	require.True(t, s.AtOutermost())
}

func TestScopeInsertOutermost(t *testing.T) {
	s := NewScope()
	s.OpenScope()
	s.OpenScope()
	s.OpenScope()

	fn := newSymbol("f", FunctionType(Int, 0, nil))
	s.InsertOutermost(fn)

	require.Nil(t, s.Find("f"), "a function symbol is never in the current nested frame")
	require.Same(t, fn, s.FindOutermost("f"))
	require.Same(t, fn, s.Lookup("f"), "Lookup still finds it by walking out to frame 0")
}

func TestScopeRemoveOutermost(t *testing.T) {
	s := NewScope()
	s.OpenScope()
	decl := newSymbol("f", FunctionType(Int, 0, nil))
	s.InsertOutermost(decl)

	s.OpenScope()
	s.RemoveOutermost("f")
	require.Nil(t, s.FindOutermost("f"), "RemoveOutermost acts on frame 0 regardless of current depth")
}
