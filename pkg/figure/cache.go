package figure

// Cache holds cells detached from the surface by delete and replace
// edits, keyed by the leaf name they last displayed. When the same name
// reappears in a later edit the cached cell is reinstalled with its
// recorded drawing intact instead of re-running the content producer.
type Cache struct {
	cells map[string][]*Cell
}

// NewCache returns an empty detached-cell cache.
func NewCache() *Cache {
	return &Cache{cells: make(map[string][]*Cell)}
}

// Put stores a detached cell under its current name.
func (c *Cache) Put(cell *Cell) {
	c.cells[cell.Name()] = append(c.cells[cell.Name()], cell)
}

// Pop removes and returns the most recently stored cell for name.
func (c *Cache) Pop(name string) (*Cell, bool) {
	stack := c.cells[name]
	if len(stack) == 0 {
		return nil, false
	}
	cell := stack[len(stack)-1]
	c.cells[name] = stack[:len(stack)-1]
	return cell, true
}

// Len returns the total number of cached cells.
func (c *Cache) Len() int {
	n := 0
	for _, stack := range c.cells {
		n += len(stack)
	}
	return n
}
