package state

// Viewport tracks a cursor and the first visible line over a list of n
// entries. Every method takes the current length because the lists it
// scrolls are replaced wholesale by server pushes.
type Viewport struct {
	Cursor int
	Offset int
}

// Home moves the cursor to the first entry.
func (v *Viewport) Home(n int) bool {
	if n == 0 {
		v.Cursor = 0
		return false
	}
	old := v.Cursor
	v.Cursor = 0
	return old != v.Cursor
}

// End moves the cursor to the last entry.
func (v *Viewport) End(n int) bool {
	if n == 0 {
		v.Cursor = 0
		return false
	}
	old := v.Cursor
	v.Cursor = n - 1
	return old != v.Cursor
}

// PageUp moves the cursor up by one page.
func (v *Viewport) PageUp(n, maxVisible int) bool {
	return v.Move(n, -pageSize(n, maxVisible))
}

// PageDown moves the cursor down by one page.
func (v *Viewport) PageDown(n, maxVisible int) bool {
	return v.Move(n, pageSize(n, maxVisible))
}

// Move shifts the cursor by delta, clamped to [0,n).
func (v *Viewport) Move(n, delta int) bool {
	if n == 0 {
		v.Cursor = 0
		return false
	}
	old := v.Cursor
	if v.Cursor < 0 {
		v.Cursor = 0
	}
	v.Cursor += delta
	if v.Cursor < 0 {
		v.Cursor = 0
	}
	if v.Cursor >= n {
		v.Cursor = n - 1
	}
	return v.Cursor != old
}

// Clamp keeps cursor and offset inside a list that may have shrunk.
func (v *Viewport) Clamp(n int) {
	if n == 0 {
		v.Cursor = 0
		v.Offset = 0
		return
	}
	if v.Cursor < 0 {
		v.Cursor = 0
	}
	if v.Cursor >= n {
		v.Cursor = n - 1
	}
	if v.Offset > n-1 {
		v.Offset = 0
	}
}

func pageSize(n, maxVisible int) int {
	if n == 0 {
		return 0
	}
	size := maxVisible
	if size <= 0 || size > n {
		size = n
	}
	if size < 1 {
		size = 1
	}
	return size
}

// EnsureVisible adjusts the offset so the cursor stays on screen.
func (v *Viewport) EnsureVisible(n, maxVisible int) {
	if n == 0 {
		v.Cursor = 0
		v.Offset = 0
		return
	}
	if v.Cursor < 0 {
		v.Cursor = 0
	}
	if v.Cursor >= n {
		v.Cursor = n - 1
	}
	if maxVisible <= 0 {
		v.Offset = 0
		return
	}
	maxOffset := n - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.Offset > maxOffset {
		v.Offset = maxOffset
	}
	if v.Offset < 0 {
		v.Offset = 0
	}
	if v.Cursor < v.Offset {
		v.Offset = v.Cursor
	}
	if upper := v.Offset + maxVisible - 1; v.Cursor > upper {
		v.Offset = v.Cursor - maxVisible + 1
		if v.Offset > maxOffset {
			v.Offset = maxOffset
		}
	}
}
