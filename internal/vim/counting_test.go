package vim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/state"
)

// countProbe records the count it was given.
type countProbe struct {
	count int
}

func (p *countProbe) Execute(Editor) error { return nil }

func (p *countProbe) WithCount(n int) Command {
	return &countProbe{count: MultiplyCount(p.count, n)}
}

func pressAll(t *testing.T, st state.State[Command], spec string) (Command, bool) {
	t.Helper()
	var last Command
	var got bool
	for _, s := range key.MustParseSequence(spec) {
		tr, ok := st.Press(s)
		require.True(t, ok, "stroke %s rejected", s)
		if v, ok := tr.Value(); ok {
			last, got = v, true
		}
		st = tr.Next()
	}
	return last, got
}

func TestCountingAppliesCount(t *testing.T) {
	table := CountingCommands(state.New(
		state.Leaf[Command](key.Rune('x'), &countProbe{}),
		state.LeafSeq[Command]("dd", &countProbe{}),
	))

	cmd, ok := pressAll(t, table, "12x")
	require.True(t, ok)
	assert.Equal(t, 12, cmd.(*countProbe).count)

	cmd, ok = pressAll(t, table, "3dd")
	require.True(t, ok)
	assert.Equal(t, 3, cmd.(*countProbe).count)

	cmd, ok = pressAll(t, table, "x")
	require.True(t, ok)
	assert.Equal(t, NoCount, cmd.(*countProbe).count)
}

func TestCountingLeadingZeroIsNotACount(t *testing.T) {
	table := CountingCommands(state.New(state.Leaf[Command](key.Rune('0'), &countProbe{count: -1})))

	tr, ok := table.Press(key.Rune('0'))
	require.True(t, ok)
	v, ok := tr.Value()
	require.True(t, ok)
	assert.Equal(t, -1, v.(*countProbe).count)

	cmd, ok := pressAll(t, CountingCommands(state.New(state.Leaf[Command](key.Rune('x'), &countProbe{}))), "10x")
	require.True(t, ok)
	assert.Equal(t, 10, cmd.(*countProbe).count)
}

func TestSequenceCountGoesToFirstCounted(t *testing.T) {
	probe := &countProbe{}
	seq := Sequence(SwitchRegister{Name: 'a'}, nil, probe)
	require.Len(t, seq.Commands, 2)

	counted := seq.WithCount(3).(*SequenceCommand)
	assert.Equal(t, 3, counted.Commands[1].(*countProbe).count)
	assert.Equal(t, 0, probe.count, "original sequence is unchanged")
}

func TestMultiplyCount(t *testing.T) {
	assert.Equal(t, 6, MultiplyCount(2, 3))
	assert.Equal(t, 3, MultiplyCount(NoCount, 3))
	assert.Equal(t, 2, MultiplyCount(2, NoCount))
	assert.Equal(t, 1, Count(NoCount))
}
