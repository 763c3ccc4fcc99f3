package view

type ScrollKind string

const (
	ScrollNone   ScrollKind = "none"
	ScrollTop    ScrollKind = "top"
	ScrollAnchor ScrollKind = "anchor"
)

// HeaderOffset is the fixed header height subtracted when scrolling to an anchor.
const HeaderOffset = 85

// ProductsAnchor is the element id of the home product grid.
const ProductsAnchor = "products"

// Scroll is the side effect a transition asks the page to perform.
// Deferred means it must run after the next layout mounts.
type Scroll struct {
	Kind     ScrollKind `json:"kind"`
	Anchor   string     `json:"anchor,omitempty"`
	Offset   int        `json:"offset,omitempty"`
	Smooth   bool       `json:"smooth"`
	Deferred bool       `json:"deferred,omitempty"`
}

func noScroll() Scroll {
	return Scroll{Kind: ScrollNone}
}

func scrollTop() Scroll {
	return Scroll{Kind: ScrollTop, Smooth: true}
}

func scrollToAnchor(anchor string, deferred bool) Scroll {
	if anchor == "" {
		return Scroll{Kind: ScrollTop, Smooth: true, Deferred: deferred}
	}
	return Scroll{Kind: ScrollAnchor, Anchor: anchor, Offset: HeaderOffset, Smooth: true, Deferred: deferred}
}
