package highlight

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	// ErrMarkedTextChanged is returned when a pre-marked string differs from
	// the text once its tags are removed.
	ErrMarkedTextChanged = errors.New("marked text changes the underlying text")

	// ErrUnbalancedMarks is returned for a closing tag without an opening tag
	// or an opening tag that is never closed.
	ErrUnbalancedMarks = errors.New("unbalanced mark tags")
)

var markTagRe = regexp.MustCompile(`(?i)</?mark>`)

// ParseMarked converts marked, a copy of text with <mark> and </mark> tags
// inserted, into the equivalent Spec. Any other difference between the two
// strings is an error.
func ParseMarked(text, marked string) (Spec, error) {
	var (
		stripped strings.Builder
		ranges   []Offsets
		open     []int // indexes into ranges
		pos      int
	)

	for _, loc := range markTagRe.FindAllStringIndex(marked, -1) {
		stripped.WriteString(marked[pos:loc[0]])
		pos = loc[1]

		if marked[loc[0]+1] == '/' {
			if len(open) == 0 {
				return nil, fmt.Errorf("%w: closing tag at byte %d", ErrUnbalancedMarks, loc[0])
			}
			ranges[open[len(open)-1]].Stop = stripped.Len()
			open = open[:len(open)-1]
			continue
		}
		open = append(open, len(ranges))
		ranges = append(ranges, Offsets{Start: stripped.Len()})
	}
	stripped.WriteString(marked[pos:])

	if len(open) > 0 {
		return nil, fmt.Errorf("%w: %d unclosed tag(s)", ErrUnbalancedMarks, len(open))
	}
	if got := stripped.String(); got != text {
		return nil, fmt.Errorf("%w: %s", ErrMarkedTextChanged, describeDiff(text, got))
	}

	spec := make(Composite, 0, len(ranges))
	for _, r := range ranges {
		spec = append(spec, r)
	}
	return spec, nil
}

// describeDiff summarizes the edits that turn want into got.
func describeDiff(want, got string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(want, got, false))

	var parts []string
	offset := 0
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			offset += len(d.Text)
		case diffmatchpatch.DiffDelete:
			parts = append(parts, fmt.Sprintf("removed %q at %d", d.Text, offset))
			offset += len(d.Text)
		case diffmatchpatch.DiffInsert:
			parts = append(parts, fmt.Sprintf("inserted %q at %d", d.Text, offset))
		}
	}
	return strings.Join(parts, ", ")
}
