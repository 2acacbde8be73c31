package domain

// Clock is a segmented countdown.
type Clock struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Segments int    `json:"segments"`
	Filled   int    `json:"filled"`
	Hidden   bool   `json:"hidden"`
}

// Adjust moves the fill by delta within [0, Segments].
func (c *Clock) Adjust(delta int) {
	c.Filled = clamp(c.Filled+delta, 0, c.Segments)
}

// Reset empties the clock.
func (c *Clock) Reset() {
	c.Filled = 0
}

// Full reports whether every segment is filled.
func (c Clock) Full() bool {
	return c.Segments > 0 && c.Filled >= c.Segments
}

func (c Clock) normalized() Clock {
	if c.Segments < 1 {
		c.Segments = 1
	}
	c.Filled = clamp(c.Filled, 0, c.Segments)
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
