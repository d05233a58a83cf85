package domain

// Entry is a single line offered to the picker.
// Display is what gets matched and rendered; Path is set for walked files.
type Entry struct {
	Display string
	Path    string
}

// String returns the text the default scorer matches against
func (e Entry) String() string {
	return e.Display
}

// Result is what the picker hands back to the caller when it exits
type Result struct {
	Query     string
	Item      string
	Selected  bool
	Cancelled bool
}
