package vim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRangeOrders(t *testing.T) {
	r := NewRange(9, 3, Lines)
	assert.Equal(t, TextRange{Start: 3, End: 9, Type: Lines}, r)
	assert.Equal(t, 6, r.Len())
	assert.True(t, EmptyRange(4).IsEmpty())
}

func TestContentAppend(t *testing.T) {
	assert.Equal(t, TextOf("ab"), TextOf("a").Append(TextOf("b")))
	assert.Equal(t, LinesOf("a\nb\n"), TextOf("a").Append(LinesOf("b")))
	assert.Equal(t, LinesOf("a\nb\n"), LinesOf("a").Append(TextOf("b")))
	assert.Equal(t, BlockOf([]string{"a", "b"}), BlockOf([]string{"a"}).Append(TextOf("b")))
	assert.Equal(t, TextOf("b"), Content{}.Append(TextOf("b")))
}

func TestReplaceNewLines(t *testing.T) {
	assert.Equal(t, "a\r\nb\r\nc", ReplaceNewLines("a\nb\r\nc", "\r\n"))
	assert.Equal(t, "a\nb\nc", ReplaceNewLines("a\rb\r\nc", "\n"))
	assert.Equal(t, "plain", ReplaceNewLines("plain", "\r\n"))
}

func TestContentString(t *testing.T) {
	assert.Equal(t, "ab\ncd", BlockOf([]string{"ab", "cd"}).String())
	assert.True(t, BlockOf(nil).IsEmpty())
	assert.Equal(t, "x\n", LinesOf("x").Text)
	assert.Equal(t, "", LinesOf("").Text)
}
