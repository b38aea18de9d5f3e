package simplec

// Scope is a stack of lexical frames. Frame 0 is the outermost
// (file/global) scope; it is never popped until end of input and
// holds every function symbol regardless of current nesting depth,
// per spec.md §4.1.
type Scope struct {
	frames [][]*Symbol
}

// NewScope returns an empty scope stack. Callers must call OpenScope
// once before inserting anything, establishing the outermost frame.
func NewScope() *Scope {
	return &Scope{}
}

// OpenScope pushes a new, empty frame.
func (s *Scope) OpenScope() {
	s.frames = append(s.frames, nil)
}

// CloseScope pops the current frame and returns its symbols.
func (s *Scope) CloseScope() []*Symbol {
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top
}

// AtOutermost reports whether the current frame is the outermost one.
func (s *Scope) AtOutermost() bool {
	return len(s.frames) == 1
}

// Outermost returns the symbols declared in the outermost (global)
// frame, in insertion order.
func (s *Scope) Outermost() []*Symbol {
	return s.frames[0]
}

// Insert appends symbol to the current (innermost) frame.
func (s *Scope) Insert(symbol *Symbol) {
	top := len(s.frames) - 1
	s.frames[top] = append(s.frames[top], symbol)
}

// InsertOutermost appends symbol to the outermost frame regardless of
// current depth, per DeclareFunction/DefineFunction's rule that
// functions always live at file scope.
func (s *Scope) InsertOutermost(symbol *Symbol) {
	s.frames[0] = append(s.frames[0], symbol)
}

// Remove deletes the named symbol from the current frame, if present.
func (s *Scope) Remove(name string) {
	top := len(s.frames) - 1
	s.frames[top] = removeFrom(s.frames[top], name)
}

// RemoveOutermost deletes the named symbol from the outermost frame,
// if present. Used by DefineFunction, which always acts at file scope
// regardless of current nesting depth.
func (s *Scope) RemoveOutermost(name string) {
	s.frames[0] = removeFrom(s.frames[0], name)
}

func removeFrom(frame []*Symbol, name string) []*Symbol {
	for i, sym := range frame {
		if sym.Name == name {
			return append(frame[:i], frame[i+1:]...)
		}
	}
	return frame
}

// Find searches the current (innermost) frame only.
func (s *Scope) Find(name string) *Symbol {
	return findIn(s.frames[len(s.frames)-1], name)
}

// FindOutermost searches the outermost frame only.
func (s *Scope) FindOutermost(name string) *Symbol {
	return findIn(s.frames[0], name)
}

// Lookup searches the current frame, then each enclosing frame in
// turn, toward the outermost.
func (s *Scope) Lookup(name string) *Symbol {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if sym := findIn(s.frames[i], name); sym != nil {
			return sym
		}
	}
	return nil
}

func findIn(frame []*Symbol, name string) *Symbol {
	for _, sym := range frame {
		if sym.Name == name {
			return sym
		}
	}
	return nil
}
