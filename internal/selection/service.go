package selection

// Service tracks the selected index within the filtered view
type Service struct {
	state *State
}

// NewService creates a new selection service over an empty view
func NewService() *Service {
	return &Service{
		state: &State{},
	}
}

// Index returns the selected index, or (-1, false) when the view is empty
func (s *Service) Index() (int, bool) {
	if s.state.Length == 0 {
		return -1, false
	}
	return s.state.Index, true
}

// Length returns the length of the view the index points into
func (s *Service) Length() int {
	return s.state.Length
}

// SetLength updates the view length. An index that had no valid value, or
// falls outside the new range, becomes 0.
func (s *Service) SetLength(length int) {
	if length < 0 {
		length = 0
	}
	s.state.Length = length
	if s.state.Index < 0 || s.state.Index >= length {
		s.state.Index = 0
	}
}

// Reset moves the selection back to the first item
func (s *Service) Reset() {
	s.state.Index = 0
}

// Navigate moves the selection in a direction.
// Next and Previous wrap around; on an empty view nothing happens and false
// is returned.
func (s *Service) Navigate(direction Direction) bool {
	if s.state.Length == 0 {
		return false
	}

	switch direction {
	case DirectionNext:
		s.moveNext()
	case DirectionPrevious:
		s.movePrevious()
	case DirectionFirst:
		s.state.Index = 0
	case DirectionLast:
		s.state.Index = s.state.Length - 1
	default:
		return false
	}
	return true
}

// Internal navigation methods
func (s *Service) moveNext() {
	s.state.Index = (s.state.Index + 1) % s.state.Length
}

func (s *Service) movePrevious() {
	if s.state.Index == 0 {
		s.state.Index = s.state.Length - 1
		return
	}
	s.state.Index--
}
