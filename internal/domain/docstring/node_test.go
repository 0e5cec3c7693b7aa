package docstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/doccheck/internal/domain/syntax"
)

func sampleModule() *syntax.Module {
	return &syntax.Module{
		Docstring: syntax.Str("Module."),
		Body: []syntax.Stmt{
			&syntax.Simple{Kind: "import_statement", Line: 3},
			&syntax.ClassDef{Name: "A", Line: 5, Body: []syntax.Stmt{
				&syntax.FunctionDef{Name: "m", Line: 6, Body: []syntax.Stmt{
					&syntax.FunctionDef{Name: "inner", Line: 7, Async: true},
				}},
				&syntax.ClassDef{Name: "B", Line: 9},
			}},
			&syntax.Compound{Kind: "if_statement", Line: 11, Body: []syntax.Stmt{
				&syntax.FunctionDef{Name: "cond", Line: 12},
			}},
			&syntax.FunctionDef{Name: "last", Line: 14},
		},
	}
}

func TestDocumentables_PreOrder(t *testing.T) {
	var names []string
	var kinds []Kind
	for n := range Documentables("pkg/mod.py", sampleModule()) {
		names = append(names, n.Name)
		kinds = append(kinds, n.Kind)
	}

	assert.Equal(t, []string{"pkg/mod.py", "A", "m", "inner", "B", "cond", "last"}, names)
	assert.Equal(t, []Kind{KindModule, KindClass, KindFunction, KindAsyncFunction, KindClass, KindFunction, KindFunction}, kinds)
}

func TestDocumentables_ModuleNode(t *testing.T) {
	var first Node
	for n := range Documentables("x.py", &syntax.Module{}) {
		first = n
		break
	}
	assert.Equal(t, KindModule, first.Kind)
	assert.Equal(t, "x.py", first.Name)
	assert.Equal(t, 0, first.Line)
	assert.Nil(t, first.Docstring)
}

func TestDocumentables_StopsEarly(t *testing.T) {
	count := 0
	for range Documentables("m.py", sampleModule()) {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestDocumentables_FunctionFields(t *testing.T) {
	m := &syntax.Module{Body: []syntax.Stmt{
		&syntax.FunctionDef{
			Name: "f", Line: 2, Params: []string{"a", "b"},
			Decorators: []syntax.Decorator{syntax.NameDecorator("staticmethod")},
			Body:       []syntax.Stmt{&syntax.Return{HasValue: true}},
		},
	}}
	var got []Node
	for n := range Documentables("m.py", m) {
		got = append(got, n)
	}
	require.Len(t, got, 2)
	assert.Equal(t, []string{"a", "b"}, got[1].Params)
	assert.Len(t, got[1].Decorators, 1)
	assert.Len(t, got[1].Body, 1)
}

func TestClassifier(t *testing.T) {
	prop := Node{Kind: KindFunction, Name: "x", Decorators: []syntax.Decorator{syntax.NameDecorator("property")}}
	cached := Node{Kind: KindAsyncFunction, Name: "y", Decorators: []syntax.Decorator{
		syntax.NameDecorator("staticmethod"), syntax.NameDecorator("cached_property"),
	}}
	attr := Node{Kind: KindFunction, Name: "z", Decorators: []syntax.Decorator{syntax.OtherDecorator("functools.cached_property")}}
	private := Node{Kind: KindFunction, Name: "_p"}
	dunder := Node{Kind: KindFunction, Name: "__call__"}
	class := Node{Kind: KindClass, Name: "_Hidden"}

	assert.True(t, IsPropertyLike(prop))
	assert.True(t, IsPropertyLike(cached))
	assert.False(t, IsPropertyLike(attr))
	assert.False(t, IsPropertyLike(class))

	assert.True(t, IsInternal(private))
	assert.True(t, IsInternal(dunder))
	assert.False(t, IsInternal(class), "classes are never internal")

	assert.False(t, IsOrdinaryFunction(prop))
	assert.False(t, IsOrdinaryFunction(private))
	assert.False(t, IsOrdinaryFunction(class))
	assert.True(t, IsOrdinaryFunction(attr))
}
