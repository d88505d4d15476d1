package highlight

import (
	"fmt"
	"regexp"
)

// Resolve converts spec into ranges over text. Ranges are returned in
// resolution order and may stagger; see RemoveStaggered.
func Resolve(text string, spec Spec) ([]Range, error) {
	switch s := spec.(type) {
	case nil, Empty:
		return nil, nil
	case Literal:
		return resolveLiteral(text, s.Text), nil
	case Pattern:
		return resolvePattern(text, s)
	case Offsets:
		return []Range{{Start: s.Start, Stop: s.Stop}}, nil
	case Derived:
		if s == nil {
			return nil, nil
		}
		return Resolve(text, s(text))
	case Composite:
		var ranges []Range
		for i, item := range s {
			r, err := Resolve(text, item)
			if err != nil {
				return nil, fmt.Errorf("composite item %d: %w", i, err)
			}
			ranges = append(ranges, r...)
		}
		return ranges, nil
	case Styled:
		ranges, err := Resolve(text, s.Inner)
		if err != nil {
			return nil, err
		}
		for i := range ranges {
			ranges[i].ClassName = prependClass(s.ClassName, ranges[i].ClassName)
		}
		return ranges, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnrecognizedSpec, spec)
	}
}

func resolveLiteral(text, lit string) []Range {
	if lit == "" {
		return nil
	}
	// (?i) folds runes in place, so offsets index the original text even when
	// lowercasing would change its byte length.
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(lit))

	var ranges []Range
	for _, loc := range re.FindAllStringIndex(text, -1) {
		ranges = append(ranges, Range{Start: loc[0], Stop: loc[1]})
	}
	return ranges
}

func resolvePattern(text string, p Pattern) ([]Range, error) {
	if p.Matcher == nil {
		return nil, nil
	}
	n := 1
	if p.Global {
		n = -1
	}
	locs, err := p.Matcher.FindAll(text, n)
	if err != nil {
		return nil, err
	}

	ranges := make([]Range, 0, len(locs))
	for _, loc := range locs {
		ranges = append(ranges, Range{Start: loc[0], Stop: loc[1]})
	}
	return ranges, nil
}

func prependClass(cls, existing string) string {
	switch {
	case cls == "":
		return existing
	case existing == "":
		return cls
	default:
		return cls + " " + existing
	}
}

// RemoveStaggered drops every range that staggers with a range accepted
// before it. Disjoint and identical ranges are kept, as are ranges that
// strictly contain or sit strictly inside an accepted one. A later range
// sharing one endpoint with a longer accepted range is dropped. The result
// preserves input order.
func RemoveStaggered(ranges []Range) []Range {
	accepted := make([]Range, 0, len(ranges))
	for _, candidate := range ranges {
		staggered := false
		for _, r := range accepted {
			if candidate.Staggers(r) {
				staggered = true
				break
			}
		}
		if !staggered {
			accepted = append(accepted, candidate)
		}
	}
	return accepted
}
