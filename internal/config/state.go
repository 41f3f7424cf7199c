package config

// State is the process-wide mutable state: the debug flag.
//
// It is created once at load and passed by pointer to every component. All
// reads and the single setter run on the host's event goroutine, so it
// carries no lock.
type State struct {
	debug    bool
	onChange []func(debug bool)
}

// NewState returns a State with the debug flag set to debug.
func NewState(debug bool) *State { return &State{debug: debug} }

// Debug reports whether debug mode is on.
func (s *State) Debug() bool { return s.debug }

// ToggleDebug flips the flag, notifies listeners, and returns the new value.
func (s *State) ToggleDebug() bool {
	s.debug = !s.debug
	for _, fn := range s.onChange {
		fn(s.debug)
	}
	return s.debug
}

// OnDebugChange registers fn to run after every toggle.
func (s *State) OnDebugChange(fn func(debug bool)) {
	s.onChange = append(s.onChange, fn)
}
