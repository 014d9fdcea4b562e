package state

// Clamp bounds an index to [0, total). An empty list yields 0.
func Clamp(index, total int) int {
	if total <= 0 || index < 0 {
		return 0
	}
	if index >= total {
		return total - 1
	}
	return index
}

// Wrap moves index by delta, wrapping past either end of the list.
func Wrap(index, delta, total int) int {
	if total <= 0 {
		return 0
	}
	next := (Clamp(index, total) + delta) % total
	if next < 0 {
		next += total
	}
	return next
}

// PageSize returns how far a page key moves the selection.
func PageSize(maxVisible, total int) int {
	if total <= 0 {
		return 0
	}
	size := maxVisible
	if size <= 0 || size > total {
		size = total
	}
	return size
}

// Viewport tracks the first visible row of a scrolling list.
type Viewport struct {
	Offset int
}

// Follow adjusts the offset so that cursor stays inside a window of
// maxVisible rows. A non-positive maxVisible shows everything.
func (v *Viewport) Follow(cursor, total, maxVisible int) {
	if total <= 0 || maxVisible <= 0 {
		v.Offset = 0
		return
	}
	cursor = Clamp(cursor, total)
	maxOffset := total - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.Offset > maxOffset {
		v.Offset = maxOffset
	}
	if v.Offset < 0 {
		v.Offset = 0
	}
	if cursor < v.Offset {
		v.Offset = cursor
	}
	if cursor > v.Offset+maxVisible-1 {
		v.Offset = cursor - maxVisible + 1
	}
}

// Window returns the half-open range of rows currently visible.
func (v *Viewport) Window(total, maxVisible int) (start, end int) {
	if total <= 0 {
		return 0, 0
	}
	start = v.Offset
	if start < 0 || start >= total {
		start = 0
	}
	end = total
	if maxVisible > 0 && start+maxVisible < end {
		end = start + maxVisible
	}
	return start, end
}
