// Package highlight resolves highlight specifications into character ranges
// and renders text with markup injected at those ranges.
//
// A Spec describes what to highlight. Resolve turns a Spec plus the current
// text into ranges, RemoveStaggered drops ranges that cannot nest cleanly,
// and Render replays the surviving ranges against the text to produce markup.
// All offsets are byte offsets into the text.
package highlight

import "errors"

// ErrUnrecognizedSpec is returned when a Spec value is not one of the
// variants defined in this package.
var ErrUnrecognizedSpec = errors.New("unrecognized highlight spec")

// Spec is a tagged specification of what to highlight. The concrete variants
// are Literal, Pattern, Offsets, Derived, Composite, Styled and Empty.
// A nil Spec behaves like Empty.
type Spec interface {
	isSpec()
}

// Literal matches every non-overlapping, case-insensitive occurrence of Text.
type Literal struct {
	Text string
}

// Pattern matches a regular expression. When Global is false at most one
// match is produced.
type Pattern struct {
	Matcher Matcher
	Global  bool
}

// Offsets is an explicit, already-resolved range. Values are used verbatim.
type Offsets struct {
	Start int
	Stop  int
}

// Derived computes a Spec from the current text. The returned Spec is
// resolved recursively; a Derived that returns itself never terminates.
type Derived func(text string) Spec

// Composite is the union of the ranges of every item, in item order.
type Composite []Spec

// Styled tags every range produced by Inner with ClassName.
type Styled struct {
	Inner     Spec
	ClassName string
}

// Empty resolves to no ranges.
type Empty struct{}

func (Literal) isSpec()   {}
func (Pattern) isSpec()   {}
func (Offsets) isSpec()   {}
func (Derived) isSpec()   {}
func (Composite) isSpec() {}
func (Styled) isSpec()    {}
func (Empty) isSpec()     {}

// Range is a half-open interval [Start, Stop) of the text. ClassName holds
// space separated class names, newest first.
type Range struct {
	Start     int    `yaml:"start"`
	Stop      int    `yaml:"stop"`
	ClassName string `yaml:"class,omitempty"`
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.Stop - r.Start
}

// Staggers reports whether exactly one endpoint of r lies strictly inside
// accepted. It is directional: [0,3) staggers [0,5) but [0,5) does not
// stagger [0,3).
func (r Range) Staggers(accepted Range) bool {
	return oneEndInside(r, accepted)
}

// oneEndInside reports whether exactly one endpoint of r lies strictly inside
// the open interval (outer.Start, outer.Stop).
func oneEndInside(r, outer Range) bool {
	startInside := outer.Start < r.Start && r.Start < outer.Stop
	stopInside := outer.Start < r.Stop && r.Stop < outer.Stop
	return startInside != stopInside
}
