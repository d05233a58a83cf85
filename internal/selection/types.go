package selection

// State holds all selection-related state
type State struct {
	Index  int // meaningless while Length is 0
	Length int // length of the filtered view
}

// Direction represents movement directions
type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
	DirectionFirst    Direction = "first"
	DirectionLast     Direction = "last"
)
