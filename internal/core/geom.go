// Package core holds the platform-neutral types shared by games and the
// terminal front end: screen buffer, input frames and small geometry helpers.
// It imports nothing outside the standard library.
package core

// Span is an inclusive integer interval [Lo, Hi] on one axis.
type Span struct {
	Lo, Hi int
}

// SpanOf returns the span starting at lo covering width cells.
func SpanOf(lo, width int) Span {
	return Span{Lo: lo, Hi: lo + width - 1}
}

// Around returns the span center-r..center+r.
func Around(center, r int) Span {
	return Span{Lo: center - r, Hi: center + r}
}

// Overlaps reports whether two inclusive spans share at least one cell.
func (s Span) Overlaps(o Span) bool {
	return s.Lo <= o.Hi && o.Lo <= s.Hi
}

// Contains reports whether v lies within the span.
func (s Span) Contains(v int) bool {
	return v >= s.Lo && v <= s.Hi
}

// Rect is an axis-aligned box; W and H are sizes, not inclusive ends.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

func (r Rect) Right() int { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
