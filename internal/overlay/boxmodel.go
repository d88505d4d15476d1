package overlay

import "fmt"

// BoxModelFix selects how the overlay's box model is adjusted so highlights
// line up with text inside the editable control. Which fix applies is decided
// by the rendering layer (historically from the user agent).
type BoxModelFix string

const (
	// BoxModelNone copies the control's box model unchanged.
	BoxModelNone BoxModelFix = "none"
	// BoxModelMirroredPadding moves the content padding and border onto the
	// backdrop margin. Needed where text scrolled into a control's padding is
	// hidden (Firefox).
	BoxModelMirroredPadding BoxModelFix = "mirrored-padding"
	// BoxModelInset adds the 3px horizontal padding some controls reserve and
	// cannot remove (iOS).
	BoxModelInset BoxModelFix = "inset"
)

// insetPx is the unremovable horizontal padding applied by BoxModelInset.
const insetPx = 3

// ParseBoxModelFix parses a config value. The empty string means none.
func ParseBoxModelFix(s string) (BoxModelFix, error) {
	switch BoxModelFix(s) {
	case "", BoxModelNone:
		return BoxModelNone, nil
	case BoxModelMirroredPadding, BoxModelInset:
		return BoxModelFix(s), nil
	default:
		return "", fmt.Errorf("invalid box_model_fix %q (must be %s, %s or %s)", s, BoxModelNone, BoxModelMirroredPadding, BoxModelInset)
	}
}

// Edges holds pixel values for the four sides of a box.
type Edges struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// Add returns the side-by-side sum of e and o.
func (e Edges) Add(o Edges) Edges {
	return Edges{Top: e.Top + o.Top, Right: e.Right + o.Right, Bottom: e.Bottom + o.Bottom, Left: e.Left + o.Left}
}

// CSS formats e as a shorthand value, e.g. "1px 2px 3px 4px".
func (e Edges) CSS() string {
	return fmt.Sprintf("%gpx %gpx %gpx %gpx", e.Top, e.Right, e.Bottom, e.Left)
}

// BoxModel is the subset of layout properties copied from the editable
// control onto the overlay content.
type BoxModel struct {
	Padding Edges `yaml:"padding"`
	Border  Edges `yaml:"border"`
}

// Layout is the placement handed to the rendering collaborator.
type Layout struct {
	// BackdropMargin is added to the backdrop's margin.
	BackdropMargin Edges
	// Content is the box model of the element holding the markup.
	Content BoxModel
}

// Apply computes the overlay layout for a control with box model b.
func (f BoxModelFix) Apply(b BoxModel) Layout {
	switch f {
	case BoxModelMirroredPadding:
		return Layout{BackdropMargin: b.Padding.Add(b.Border)}
	case BoxModelInset:
		b.Padding.Left += insetPx
		b.Padding.Right += insetPx
		return Layout{Content: b}
	default:
		return Layout{Content: b}
	}
}
