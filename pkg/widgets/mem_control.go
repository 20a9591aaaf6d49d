package widgets

import "sync"

// MemControl is an in-memory Control double for tests and headless use. It
// records pushed values and lets callers simulate user edits.
type MemControl struct {
	mu     sync.Mutex
	value  any
	pushes []any
	onEdit func(value any)
	closed bool
}

// NewMemControl constructs a control seeded with value.
func NewMemControl(value any) *MemControl {
	return &MemControl{value: value}
}

// SetValue records a pushed value.
func (c *MemControl) SetValue(value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.pushes = append(c.pushes, value)
	return nil
}

// OnEdit registers the edit callback.
func (c *MemControl) OnEdit(fn func(value any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEdit = fn
}

// Close marks the control closed.
func (c *MemControl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Edit simulates a user edit, invoking the registered callback.
func (c *MemControl) Edit(value any) {
	c.mu.Lock()
	fn := c.onEdit
	c.value = value
	c.mu.Unlock()
	if fn != nil {
		fn(value)
	}
}

// Value returns the control's current value.
func (c *MemControl) Value() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Pushes returns every value pushed through SetValue in order.
func (c *MemControl) Pushes() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.pushes))
	copy(out, c.pushes)
	return out
}

// Closed reports whether Close was called.
func (c *MemControl) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
