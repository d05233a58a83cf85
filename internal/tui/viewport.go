package tui

// viewport keeps the selected row inside the visible window of the list
type viewport struct {
	offset int
	height int
}

// chrome is the number of rows used by the prompt, status and help lines
const chrome = 3

func (v *viewport) setHeight(termHeight, configured int) {
	height := termHeight - chrome
	if configured > 0 && (height <= 0 || configured < height) {
		height = configured
	}
	if height < 1 {
		height = 1
	}
	v.height = height
}

// ensureVisible scrolls so that cursor is visible and the window does not run
// past the end of a list of the given length
func (v *viewport) ensureVisible(cursor, length int) {
	if cursor < 0 {
		v.offset = 0
		return
	}
	if cursor < v.offset {
		v.offset = cursor
	} else if cursor >= v.offset+v.height {
		v.offset = cursor - v.height + 1
	}

	if maxOffset := length - v.height; v.offset > maxOffset {
		v.offset = maxOffset
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

// window returns the [start, end) range of visible rows
func (v *viewport) window(length int) (int, int) {
	end := v.offset + v.height
	if end > length {
		end = length
	}
	return v.offset, end
}
