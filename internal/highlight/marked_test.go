package highlight

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMarked(t *testing.T) {
	spec, err := ParseMarked("hello world", "<mark>hello</mark> w<MARK>o</MARK>rld")
	require.NoError(t, err)
	require.Equal(t, Composite{Offsets{Start: 0, Stop: 5}, Offsets{Start: 7, Stop: 8}}, spec)

	got, err := Highlight("hello world", spec, Options{})
	require.NoError(t, err)
	require.Equal(t, "<mark>hello</mark> w<mark>o</mark>rld", got)
}

func TestParseMarked_NestedKeepsOpeningOrder(t *testing.T) {
	spec, err := ParseMarked("abcd", "<mark>a<mark>bc</mark></mark>d")
	require.NoError(t, err)
	require.Equal(t, Composite{Offsets{Start: 0, Stop: 3}, Offsets{Start: 1, Stop: 3}}, spec)
}

func TestParseMarked_NoTags(t *testing.T) {
	spec, err := ParseMarked("abc", "abc")
	require.NoError(t, err)
	require.Empty(t, spec)
}

func TestParseMarked_ChangedText(t *testing.T) {
	_, err := ParseMarked("hello world", "<mark>help</mark> world")
	require.ErrorIs(t, err, ErrMarkedTextChanged)
	require.Contains(t, err.Error(), "removed")
	require.Contains(t, err.Error(), "inserted")
}

func TestParseMarked_Unbalanced(t *testing.T) {
	_, err := ParseMarked("abc", "a</mark>bc")
	require.ErrorIs(t, err, ErrUnbalancedMarks)

	_, err = ParseMarked("abc", "<mark>abc")
	require.ErrorIs(t, err, ErrUnbalancedMarks)
}
