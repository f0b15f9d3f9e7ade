package correction

// Default sticker bounds and encode quality
const (
	DefaultMaxWidth  = 1440
	DefaultMaxHeight = 810
	DefaultQuality   = 75
)

// Decision is the action taken for one original image
type Decision int

const (
	// DecisionUnhandled covers dimensions no rule applies to (degenerate images)
	DecisionUnhandled Decision = iota
	// DecisionResize downscales an original larger than the bounds on either axis
	DecisionResize
	// DecisionReplace copies an original that already fits over the resized variant
	DecisionReplace
)

func (d Decision) String() string {
	switch d {
	case DecisionResize:
		return "resize"
	case DecisionReplace:
		return "replace"
	default:
		return "unhandled"
	}
}

// Bounds is the largest size a resized sticker may have
type Bounds struct {
	Width  int
	Height int
}

// DefaultBounds returns the sticker display bounds
func DefaultBounds() Bounds {
	return Bounds{Width: DefaultMaxWidth, Height: DefaultMaxHeight}
}

// Decide picks the correction for an original of w x h pixels. An original
// larger than b on either axis is resized; any other non-empty original
// replaces the resized variant as-is.
func Decide(w, h int, b Bounds) Decision {
	switch {
	case w <= 0 || h <= 0:
		return DecisionUnhandled
	case w > b.Width || h > b.Height:
		return DecisionResize
	default:
		return DecisionReplace
	}
}
