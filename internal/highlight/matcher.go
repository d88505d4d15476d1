package highlight

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// DefaultMatchTimeout bounds a single ECMAScript match attempt.
const DefaultMatchTimeout = 2 * time.Second

// Matcher finds regular expression matches in text.
type Matcher interface {
	// FindAll returns up to n non-overlapping matches as byte offset pairs,
	// left to right. n < 0 means all matches.
	FindAll(text string, n int) ([][2]int, error)

	// String returns the source of the expression.
	String() string
}

// re2Matcher adapts Go's regexp package.
type re2Matcher struct {
	re *regexp.Regexp
}

// RE2 returns a Matcher backed by Go's regexp engine.
func RE2(re *regexp.Regexp) Matcher {
	return re2Matcher{re: re}
}

func (m re2Matcher) FindAll(text string, n int) ([][2]int, error) {
	locs := m.re.FindAllStringIndex(text, n)
	out := make([][2]int, 0, len(locs))
	for _, loc := range locs {
		out = append(out, [2]int{loc[0], loc[1]})
	}
	return out, nil
}

func (m re2Matcher) String() string {
	return m.re.String()
}

// ecmaMatcher adapts regexp2, whose offsets are rune indices.
type ecmaMatcher struct {
	re *regexp2.Regexp
}

// ECMAScript returns a Matcher backed by regexp2. Use it for patterns written
// for JavaScript (lookbehind, backreferences, JS escapes).
func ECMAScript(re *regexp2.Regexp) Matcher {
	return ecmaMatcher{re: re}
}

func (m ecmaMatcher) FindAll(text string, n int) ([][2]int, error) {
	if n == 0 {
		return nil, nil
	}

	offsets := runeOffsets(text)
	runeCount := len(offsets) - 1

	var out [][2]int
	pos := 0
	for pos <= runeCount {
		// startAt is a byte offset; Match.Index and Match.Length are runes.
		match, err := m.re.FindStringMatchStartingAt(text, offsets[pos])
		if err != nil {
			return out, fmt.Errorf("matching %q: %w", m.re.String(), err)
		}
		if match == nil {
			break
		}

		start, stop := match.Index, match.Index+match.Length
		out = append(out, [2]int{offsets[start], offsets[stop]})
		if n > 0 && len(out) >= n {
			break
		}

		// Zero-width matches must still move the cursor forward.
		pos = stop
		if match.Length == 0 {
			pos++
		}
	}
	return out, nil
}

func (m ecmaMatcher) String() string {
	return m.re.String()
}

// runeOffsets maps rune index i to its byte offset; the final entry is len(text).
func runeOffsets(text string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}

// CompilePattern compiles a JavaScript style regular expression with its flag
// string, e.g. ("o", "g") for /o/g. Supported flags are g, i and m.
func CompilePattern(expr, flags string) (Pattern, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	global := false
	for _, f := range flags {
		switch f {
		case 'g':
			global = true
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		default:
			return Pattern{}, fmt.Errorf("unsupported pattern flag %q in %q", f, flags)
		}
	}

	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return Pattern{}, fmt.Errorf("compiling pattern %q: %w", expr, err)
	}
	re.MatchTimeout = DefaultMatchTimeout

	return Pattern{Matcher: ECMAScript(re), Global: global}, nil
}

// CompileRE2Pattern compiles expr with Go's regexp engine. The flag string
// has the same meaning as for CompilePattern.
//
// Unlike the ECMAScript engine, RE2 never reports an empty match directly
// after a previous match: a* over "baaac" yields [0,0) [1,4) [5,5), where
// CompilePattern also yields [4,4).
func CompileRE2Pattern(expr, flags string) (Pattern, error) {
	var prefix strings.Builder
	global := false
	for _, f := range flags {
		switch f {
		case 'g':
			global = true
		case 'i', 'm':
			prefix.WriteRune(f)
		default:
			return Pattern{}, fmt.Errorf("unsupported pattern flag %q in %q", f, flags)
		}
	}
	if prefix.Len() > 0 {
		expr = "(?" + prefix.String() + ")" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("compiling pattern %q: %w", expr, err)
	}
	return Pattern{Matcher: RE2(re), Global: global}, nil
}

// MustCompilePattern is like CompilePattern but panics on error.
func MustCompilePattern(expr, flags string) Pattern {
	p, err := CompilePattern(expr, flags)
	if err != nil {
		panic(err)
	}
	return p
}
