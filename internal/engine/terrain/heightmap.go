package terrain

// CornerHeights is the (gw+1)×(gh+1) table of shared corner heights.
// Each corner is evaluated once, the first time a cell asks for it, and every
// later cell touching the same corner reads the stored value.
type CornerHeights struct {
	w, h  int // corners per row, corner rows
	vals  []float32
	done  []bool
	evals int
}

// NewCornerHeights allocates the corner table for a gw×gh cell grid.
func NewCornerHeights(gw, gh int) *CornerHeights {
	n := (gw + 1) * (gh + 1)
	return &CornerHeights{
		w:    gw + 1,
		h:    gh + 1,
		vals: make([]float32, n),
		done: make([]bool, n),
	}
}

// Resolve returns the height of corner (cx, cy), calling eval only on first use.
func (c *CornerHeights) Resolve(cx, cy int, eval func(cx, cy int) float32) float32 {
	i := cy*c.w + cx
	if !c.done[i] {
		c.vals[i] = eval(cx, cy)
		c.done[i] = true
		c.evals++
	}
	return c.vals[i]
}

// At returns a resolved corner height.
func (c *CornerHeights) At(cx, cy int) (float32, bool) {
	if cx < 0 || cy < 0 || cx >= c.w || cy >= c.h {
		return 0, false
	}
	i := cy*c.w + cx
	return c.vals[i], c.done[i]
}

// Size returns the corner table dimensions.
func (c *CornerHeights) Size() (w, h int) {
	return c.w, c.h
}

// Evaluations reports how many corners were computed (not read from the table).
func (c *CornerHeights) Evaluations() int {
	return c.evals
}
