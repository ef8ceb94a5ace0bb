package asm

const (
	STACK_LIMIT = 1024 // Maximum arithmetic stack depth
)

// Stack holds intermediate values of expression evaluation. The zero value
// is an empty stack.
type Stack struct {
	values []int64
}

// Push fails with ErrStackFull at STACK_LIMIT values.
func (s *Stack) Push(value int64) (err error) {
	if s.Depth() == STACK_LIMIT {
		err = ErrStackFull
		return
	}

	s.values = append(s.values, value)

	return
}

func (s *Stack) Pop() (value int64, err error) {
	value, err = s.Peek()
	if err == nil {
		s.values = s.values[:len(s.values)-1]
	}
	return
}

// Pair pops the operands of a binary operator, left first.
func (s *Stack) Pair() (left, right int64, err error) {
	if s.Depth() < 2 {
		err = ErrStackEmpty
		return
	}

	n := len(s.values)
	left, right = s.values[n-2], s.values[n-1]
	s.values = s.values[:n-2]

	return
}

func (s *Stack) Peek() (value int64, err error) {
	if s.Depth() == 0 {
		err = ErrStackEmpty
		return
	}

	value = s.values[len(s.values)-1]

	return
}

func (s *Stack) Depth() int {
	return len(s.values)
}

func (s *Stack) Reset() {
	s.values = s.values[:0]
}
