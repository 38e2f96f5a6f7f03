package state

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/modal/internal/input/key"
)

// run presses a notation sequence and returns the produced values.
func run[T any](t *testing.T, st State[T], spec string) ([]T, bool) {
	t.Helper()
	var values []T
	cur := st
	for _, s := range key.MustParseSequence(spec) {
		tr, ok := Press(cur, s)
		if !ok {
			return values, false
		}
		if v, ok := tr.Value(); ok {
			values = append(values, v)
		}
		cur = tr.Next()
	}
	return values, true
}

func TestLeafAndNesting(t *testing.T) {
	st := New(
		Leaf(key.Rune('j'), "down"),
		Bind(key.Rune('g'),
			Leaf(key.Rune('g'), "first-line"),
			Leaf(key.Rune('e'), "word-end-back"),
		),
		Bind(key.Rune('['), Leaf(key.Rune('m'), "method-start")),
	)

	tr, ok := st.Press(key.Rune('j'))
	require.True(t, ok)
	v, ok := tr.Value()
	require.True(t, ok)
	assert.Equal(t, "down", v)
	assert.True(t, tr.Terminal())

	tr, ok = st.Press(key.Rune('g'))
	require.True(t, ok)
	_, ok = tr.Value()
	assert.False(t, ok)
	assert.False(t, tr.Terminal())

	values, ok := run(t, st, "gg")
	require.True(t, ok)
	assert.Equal(t, []string{"first-line"}, values)

	values, ok = run(t, st, "[m")
	require.True(t, ok)
	assert.Equal(t, []string{"method-start"}, values)

	_, ok = run(t, st, "gx")
	assert.False(t, ok)
}

func TestLeafSeq(t *testing.T) {
	st := New(LeafSeq("g<C-g>", 1), LeafSeq("x", 2))

	values, ok := run(t, st, "g<C-g>")
	require.True(t, ok)
	assert.Equal(t, []int{1}, values)

	values, ok = run(t, st, "x")
	require.True(t, ok)
	assert.Equal(t, []int{2}, values)
}

func TestUnionMergesPrefixes(t *testing.T) {
	motions := New(Bind(key.Rune('g'), Leaf(key.Rune('g'), "gg")), Leaf(key.Rune('w'), "word"))
	commands := New(Bind(key.Rune('g'), Leaf(key.Rune('u'), "gu")), Leaf(key.Rune('w'), "shadowed"))

	u := Union(motions, commands)

	values, ok := run(t, u, "gg")
	require.True(t, ok)
	assert.Equal(t, []string{"gg"}, values)

	values, ok = run(t, u, "gu")
	require.True(t, ok)
	assert.Equal(t, []string{"gu"}, values)

	values, ok = run(t, u, "w")
	require.True(t, ok)
	assert.Equal(t, []string{"word"}, values)
}

func TestUnionOfEmptyIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(Union[int]()))
	assert.True(t, IsEmpty(Union(Empty[int](), New[int]())))
	one := New(Leaf(key.Rune('a'), 1))
	assert.Same(t, one, Union(Empty[int](), one))
}

func TestConvert(t *testing.T) {
	inner := New(
		Leaf(key.Rune('w'), 1),
		Bind(key.Rune('i'), Leaf(key.Rune('w'), 2)),
	)
	conv := Convert(inner, func(n int) string { return strings.Repeat("d", n) })

	values, ok := run(t, conv, "w")
	require.True(t, ok)
	assert.Equal(t, []string{"d"}, values)

	values, ok = run(t, conv, "iw")
	require.True(t, ok)
	assert.Equal(t, []string{"dd"}, values)

	assert.Equal(t, inner.Keys(), conv.Keys())
}

func TestConvertKey(t *testing.T) {
	st := ConvertKey(func(s key.Stroke) (rune, bool) {
		return s.Rune, s.Rune != 'q'
	})

	tr, ok := st.Press(key.Rune('x'))
	require.True(t, ok)
	v, _ := tr.Value()
	assert.Equal(t, 'x', v)

	_, ok = st.Press(key.Rune('q'))
	assert.False(t, ok)

	_, ok = st.Press(key.Special(key.KeyEscape))
	assert.False(t, ok)
}

func TestLeafTransContinues(t *testing.T) {
	var root State[string]
	root = New(
		Bind(key.Rune('"'), Leaf(key.Rune('a'), "reg-a")),
		Leaf(key.Rune('x'), "delete"),
	)
	prefix := New(LeafTrans(key.Rune('"'), "register", Lazy(func() State[string] { return root })))

	values, ok := run(t, prefix, `"x`)
	require.True(t, ok)
	assert.Equal(t, []string{"register", "delete"}, values)
}

func TestDynamicLastWriterWins(t *testing.T) {
	d := NewDynamic(Leaf(key.Rune('b'), "()"))
	d.Add(Leaf(key.Rune('b'), "[]"), Leaf(key.Rune('q'), `""`))

	values, ok := run[string](t, d, "b")
	require.True(t, ok)
	assert.Equal(t, []string{"[]"}, values)
	assert.Equal(t, 2, d.Len())

	require.True(t, d.Remove(key.Rune('q')))
	require.False(t, d.Remove(key.Rune('q')))
	_, ok = run[string](t, d, "q")
	assert.False(t, ok)
}

func TestDynamicStaysLiveInsideUnion(t *testing.T) {
	d := NewDynamic[string]()
	u := Union(New(Leaf(key.Rune('x'), "x")), State[string](d))

	_, ok := u.Press(key.Rune('z'))
	require.False(t, ok)

	d.Add(Leaf(key.Rune('z'), "z"))
	tr, ok := u.Press(key.Rune('z'))
	require.True(t, ok)
	v, _ := tr.Value()
	assert.Equal(t, "z", v)
}

func TestVirtualStrokesMatch(t *testing.T) {
	st := New(Leaf(key.Rune('j'), 1))
	_, ok := st.Press(key.Rune('j').AsVirtual())
	assert.True(t, ok)
}

var runeGen = rapid.RuneFrom([]rune("abcdefghijklmnopqrstuvwxyz0123456789"))

var tableGen = rapid.MapOfN(runeGen, rapid.IntRange(0, 1000), 0, 12)

func build(table map[rune]int) State[int] {
	var bindings []Binding[int]
	for r, v := range table {
		bindings = append(bindings, Leaf(key.Rune(r), v))
	}
	return New(bindings...)
}

func TestUnionProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := tableGen.Draw(t, "a")
		b := tableGen.Draw(t, "b")
		u := Union(build(a), build(b))

		for r, want := range a {
			tr, ok := u.Press(key.Rune(r))
			if !ok {
				t.Fatalf("key %q of first operand missing", r)
			}
			if got, _ := tr.Value(); got != want {
				t.Fatalf("key %q: got %d, want first operand's %d", r, got, want)
			}
		}
		for r, want := range b {
			tr, ok := u.Press(key.Rune(r))
			if !ok {
				t.Fatalf("key %q of second operand missing", r)
			}
			if _, shared := a[r]; shared {
				continue
			}
			if got, _ := tr.Value(); got != want {
				t.Fatalf("key %q: got %d, want %d", r, got, want)
			}
		}
	})
}

func TestPressIsPure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		table := tableGen.Draw(t, "table")
		st := build(table)
		before := st.Keys()
		probes := rapid.SliceOfN(runeGen, 1, 20).Draw(t, "probes")

		for _, r := range probes {
			first, ok1 := st.Press(key.Rune(r))
			second, ok2 := st.Press(key.Rune(r))
			if ok1 != ok2 {
				t.Fatalf("press %q not repeatable", r)
			}
			v1, _ := first.Value()
			v2, _ := second.Value()
			if v1 != v2 {
				t.Fatalf("press %q: %d then %d", r, v1, v2)
			}
		}
		after := st.Keys()
		if len(before) != len(after) {
			t.Fatalf("state graph changed: %d keys then %d", len(before), len(after))
		}
	})
}

func TestThenChainsTables(t *testing.T) {
	objects := New(
		Leaf(key.Rune('w'), "word"),
		Bind(key.Rune('i'), Leaf(key.Rune('w'), "inner word")),
	)
	st := Then(objects, func(obj string) State[string] {
		return ConvertKey(func(s key.Stroke) (string, bool) {
			return obj + " " + string(s.Rune), true
		})
	})

	values, ok := run(t, st, "w)")
	require.True(t, ok)
	assert.Equal(t, []string{"word )"}, values)

	values, ok = run(t, st, `iw"`)
	require.True(t, ok)
	assert.Equal(t, []string{`inner word "`}, values)

	tr, ok := Press(st, key.Rune('w'))
	require.True(t, ok)
	_, hasValue := tr.Value()
	assert.False(t, hasValue)

	_, ok = run(t, st, "x")
	assert.False(t, ok)
}
