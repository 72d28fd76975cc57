package parser

// parseStack holds a state stack and a value stack. Both stacks always have the same length and grow
// together.
type parseStack struct {
	states   []int
	values   []any
	maxDepth int
}

func newParseStack(initialDepth, maxDepth int) *parseStack {
	return &parseStack{
		states:   make([]int, 0, initialDepth),
		values:   make([]any, 0, initialDepth),
		maxDepth: maxDepth,
	}
}

func (s *parseStack) push(state int, v any) error {
	if len(s.states) == cap(s.states) {
		err := s.grow()
		if err != nil {
			return err
		}
	}
	s.states = append(s.states, state)
	s.values = append(s.values, v)
	return nil
}

// grow doubles the capacity of both stacks up to the maximum depth.
func (s *parseStack) grow() error {
	size := cap(s.states)
	if size >= s.maxDepth {
		return ErrStackExhausted
	}
	size *= 2
	if size == 0 {
		size = 1
	}
	if size > s.maxDepth {
		size = s.maxDepth
	}

	states := make([]int, len(s.states), size)
	copy(states, s.states)
	values := make([]any, len(s.values), size)
	copy(values, s.values)
	s.states = states
	s.values = values

	return nil
}

func (s *parseStack) pop(n int) {
	l := len(s.states)
	for i := l - n; i < l; i++ {
		s.values[i] = nil
	}
	s.states = s.states[:l-n]
	s.values = s.values[:l-n]
}

func (s *parseStack) top() int {
	return s.states[len(s.states)-1]
}

// topValues returns the top `n` values. The returned slice shares the storage of the stack.
func (s *parseStack) topValues(n int) []any {
	return s.values[len(s.values)-n:]
}

func (s *parseStack) depth() int {
	return len(s.states)
}
