package highlight

import (
	"cmp"
	"errors"
	"fmt"
	"html"
	"slices"
	"strings"
)

// ErrRangeOutOfBounds is returned by Render for a range that does not fit
// inside the text.
var ErrRangeOutOfBounds = errors.New("range out of bounds")

// BoundaryKind distinguishes opening and closing boundaries.
type BoundaryKind int

const (
	Start BoundaryKind = iota
	Stop
)

func (k BoundaryKind) String() string {
	if k == Start {
		return "start"
	}
	return "stop"
}

// Boundary is a single start or stop marker at a byte index.
type Boundary struct {
	Kind      BoundaryKind
	Index     int
	ClassName string // only set on Start

	// ordering keys
	group int // 0 = closing, 1 = zero-length pair, 2 = opening
	rank  int // secondary key within group
	seq   int // range position, breaks remaining ties
}

// Boundaries flattens ranges into boundaries in document order. At an equal
// index, ranges that opened earlier close first, then zero-length ranges emit
// their start and stop back to back, then new ranges open outermost first.
// This keeps back-to-back and nested ranges from interleaving.
func Boundaries(ranges []Range) []Boundary {
	bs := make([]Boundary, 0, 2*len(ranges))
	for i, r := range ranges {
		if r.Start == r.Stop {
			bs = append(bs,
				Boundary{Kind: Start, Index: r.Start, ClassName: r.ClassName, group: 1, rank: 2 * i, seq: i},
				Boundary{Kind: Stop, Index: r.Stop, group: 1, rank: 2*i + 1, seq: i},
			)
			continue
		}
		bs = append(bs,
			// longer ranges open first
			Boundary{Kind: Start, Index: r.Start, ClassName: r.ClassName, group: 2, rank: -r.Stop, seq: i},
			// later-opening ranges close first
			Boundary{Kind: Stop, Index: r.Stop, group: 0, rank: -r.Start, seq: -i},
		)
	}

	slices.SortStableFunc(bs, func(a, b Boundary) int {
		return cmp.Or(
			cmp.Compare(a.Index, b.Index),
			cmp.Compare(a.group, b.group),
			cmp.Compare(a.rank, b.rank),
			cmp.Compare(a.seq, b.seq),
		)
	})
	return bs
}

// Markup produces the text injected at boundaries.
type Markup interface {
	// Escape makes literal text safe for the output format.
	Escape(text string) string
	// Open returns the opening token for a range with the given class names.
	Open(className string) string
	// Close returns the closing token.
	Close() string
	// Break returns the zero-width break marker used by the wrap fix.
	Break() string
}

// HTML renders ranges as elements named Tag, e.g. <mark>.
type HTML struct {
	Tag string
}

// DefaultTag is the element used when HTML.Tag is empty.
const DefaultTag = "mark"

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func (h HTML) tag() string {
	if h.Tag == "" {
		return DefaultTag
	}
	return h.Tag
}

func (h HTML) Escape(text string) string {
	return htmlEscaper.Replace(text)
}

func (h HTML) Open(className string) string {
	if className == "" {
		return "<" + h.tag() + ">"
	}
	return "<" + h.tag() + ` class="` + html.EscapeString(className) + `">`
}

func (h HTML) Close() string {
	return "</" + h.tag() + ">"
}

func (h HTML) Break() string {
	return "<wbr>"
}

// Options controls rendering.
type Options struct {
	// Markup defaults to HTML{Tag: "mark"}.
	Markup Markup

	// WrapFix inserts a zero-width break after every space in text content,
	// for rendering engines that wrap spaces in block elements differently
	// than in editable controls.
	WrapFix bool
}

type segment struct {
	text     string
	boundary *Boundary
}

// Render replays ranges against text and returns the marked up result.
// Output depends only on its arguments.
func Render(text string, ranges []Range, opts Options) (string, error) {
	for _, r := range ranges {
		if r.Start < 0 || r.Stop > len(text) || r.Start > r.Stop {
			return "", fmt.Errorf("%w: [%d,%d) in text of length %d", ErrRangeOutOfBounds, r.Start, r.Stop, len(text))
		}
	}

	markup := opts.Markup
	if markup == nil {
		markup = HTML{}
	}

	bs := Boundaries(ranges)
	segs := make([]segment, 0, 2*len(bs)+1)
	pos := 0
	for i := range bs {
		if bs[i].Index > pos {
			segs = append(segs, segment{text: text[pos:bs[i].Index]})
			pos = bs[i].Index
		}
		segs = append(segs, segment{boundary: &bs[i]})
	}
	if pos < len(text) {
		segs = append(segs, segment{text: text[pos:]})
	}

	duplicateTrailingNewline(segs)

	var sb strings.Builder
	sb.Grow(len(text) + len(bs)*16)
	for _, seg := range segs {
		switch {
		case seg.boundary == nil:
			escaped := markup.Escape(seg.text)
			if opts.WrapFix {
				escaped = strings.ReplaceAll(escaped, " ", " "+markup.Break())
			}
			sb.WriteString(escaped)
		case seg.boundary.Kind == Start:
			sb.WriteString(markup.Open(seg.boundary.ClassName))
		default:
			sb.WriteString(markup.Close())
		}
	}
	return sb.String(), nil
}

// duplicateTrailingNewline doubles a final newline, optionally followed by a
// single closing boundary. Editable controls reserve an empty last line after a
// trailing newline and the overlay has to match that height.
func duplicateTrailingNewline(segs []segment) {
	last := len(segs) - 1
	if last >= 0 && segs[last].boundary != nil && segs[last].boundary.Kind == Stop {
		last--
	}
	if last < 0 || segs[last].boundary != nil {
		return
	}
	if strings.HasSuffix(segs[last].text, "\n") {
		segs[last].text += "\n"
	}
}

// Highlight resolves spec against text, removes staggered ranges and renders
// the result.
func Highlight(text string, spec Spec, opts Options) (string, error) {
	ranges, err := Resolve(text, spec)
	if err != nil {
		return "", err
	}
	return Render(text, RemoveStaggered(ranges), opts)
}
