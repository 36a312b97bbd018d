package session

// Cursor is the selected row of the open list. It is always in [0, len];
// len itself means "after the last task".
type Cursor struct {
	pos int
}

// Pos returns the selected index.
func (c Cursor) Pos() int { return c.pos }

// MoveRelative moves by delta rows, clamped to [0, n].
func (c *Cursor) MoveRelative(delta, n int) {
	c.pos = min(max(c.pos+delta, 0), max(n, 0))
}

func (c *Cursor) MoveToStart() { c.pos = 0 }

// MoveToEnd selects the last task, or 0 for an empty list.
func (c *Cursor) MoveToEnd(n int) { c.pos = max(n-1, 0) }

// Set selects i, clamped to [0, n].
func (c *Cursor) Set(i, n int) {
	c.pos = min(max(i, 0), max(n, 0))
}

// Clamp re-selects after the list shrank to n tasks. The cursor lands on the
// last remaining task when it was beyond it, and on 0 for an empty list.
func (c *Cursor) Clamp(n int) {
	c.pos = max(min(c.pos, n-1), 0)
}

// PrioritySlot is the insert position for "move to priority slot k"
// (k counted from 0) in a list of n tasks.
func PrioritySlot(k, n int) int {
	return min(max(k, 0), n)
}
