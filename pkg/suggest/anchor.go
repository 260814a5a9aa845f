package suggest

// Rect is a rectangle in renderer units (cells for a terminal).
type Rect struct {
	X, Y          int
	Width, Height int
}

// Placement is where the suggestion panel goes relative to the input.
type Placement struct {
	Rect
	Above bool
}

// Anchor places a panel of panelHeight over the input: same left edge and
// width, bottom edge gap units above the input, at most maxHeight tall. When
// there is no room above it drops below the input.
func Anchor(input Rect, panelHeight, maxHeight, gap int) Placement {
	height := panelHeight
	if maxHeight > 0 && height > maxHeight {
		height = maxHeight
	}
	offset := height + gap
	if maxHeight > 0 && offset > maxHeight {
		offset = maxHeight
	}
	if top := input.Y - offset; top >= 0 {
		return Placement{Rect: Rect{X: input.X, Y: top, Width: input.Width, Height: height}, Above: true}
	}
	return Placement{Rect: Rect{X: input.X, Y: input.Y + input.Height + gap, Width: input.Width, Height: height}}
}
