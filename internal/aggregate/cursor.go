package aggregate

// Direction is a focus move.
type Direction int

// Focus moves.
const (
	Down Direction = iota
	Up
)

// Cursor is the focus position in the current merged list. It is always
// interpreted against the length of the list it is used with.
type Cursor struct {
	pos int
}

// Index returns the focused position for a list of length n.
func (c Cursor) Index(n int) int {
	if n <= 0 {
		return 0
	}
	if c.pos >= n {
		return n - 1
	}
	return c.pos
}

// Step moves the cursor one position with wraparound on a list of length n.
// On an empty list the cursor stays at 0.
func (c *Cursor) Step(d Direction, n int) {
	if n <= 0 {
		c.pos = 0
		return
	}
	cur := c.Index(n)
	switch d {
	case Down:
		c.pos = (cur + 1) % n
	case Up:
		if cur == 0 {
			c.pos = n - 1
		} else {
			c.pos = cur - 1
		}
	}
}

// Clamp pins the cursor to the last entry of a list of length n when it
// points past it, so a shrunken list does not leave a stale position behind.
func (c *Cursor) Clamp(n int) { c.pos = c.Index(n) }
