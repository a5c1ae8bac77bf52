package palette

// Visibility is the open/closed state of the palette.
type Visibility int

const (
	Closed Visibility = iota
	Open
)

func (v Visibility) String() string {
	if v == Open {
		return "open"
	}
	return "closed"
}

// State holds the palette visibility. The zero value is closed.
type State struct {
	v Visibility
}

// Open moves to open and reports whether that was a transition.
func (s *State) Open() bool {
	if s.v == Open {
		return false
	}
	s.v = Open
	return true
}

// Close moves to closed and reports whether that was a transition.
func (s *State) Close() bool {
	if s.v == Closed {
		return false
	}
	s.v = Closed
	return true
}

func (s *State) IsOpen() bool { return s.v == Open }

func (s *State) Current() Visibility { return s.v }
