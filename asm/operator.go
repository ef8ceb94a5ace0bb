package asm

// UnaryOp is a prefix operator.
type UnaryOp int

//go:generate go tool stringer -linecomment -type=UnaryOp
const (
	UNARY_NOT   = UnaryOp(0) // !
	UNARY_NEG   = UnaryOp(1) // ~
	UNARY_MINUS = UnaryOp(2) // -
	UNARY_LOW   = UnaryOp(3) // <
	UNARY_HIGH  = UnaryOp(4) // >
)

// UNARY_PRIORITY binds tighter than every binary operator.
const UNARY_PRIORITY = 20

// Apply the operator.
func (op UnaryOp) Apply(a int64) int64 {
	switch op {
	case UNARY_NOT:
		return truth(a == 0)
	case UNARY_NEG:
		return ^a
	case UNARY_MINUS:
		return -a
	case UNARY_LOW:
		return a & 0xff
	case UNARY_HIGH:
		return (a >> 8) & 0xff
	}

	return a
}

// BinaryOp is an infix operator.
type BinaryOp int

//go:generate go tool stringer -linecomment -type=BinaryOp
const (
	BINARY_ADD = BinaryOp(0)  // +
	BINARY_SUB = BinaryOp(1)  // -
	BINARY_MUL = BinaryOp(2)  // *
	BINARY_DIV = BinaryOp(3)  // /
	BINARY_AND = BinaryOp(4)  // &
	BINARY_OR  = BinaryOp(5)  // |
	BINARY_XOR = BinaryOp(6)  // ^
	BINARY_SHL = BinaryOp(7)  // <<
	BINARY_SHR = BinaryOp(8)  // >>
	BINARY_EQ  = BinaryOp(9)  // ==
	BINARY_NE  = BinaryOp(10) // !=
	BINARY_LT  = BinaryOp(11) // <
	BINARY_LE  = BinaryOp(12) // <=
	BINARY_GT  = BinaryOp(13) // >
	BINARY_GE  = BinaryOp(14) // >=
)

// Priority is the binding strength; higher binds tighter.
func (op BinaryOp) Priority() int {
	switch op {
	case BINARY_MUL, BINARY_DIV:
		return 12
	case BINARY_ADD, BINARY_SUB:
		return 11
	case BINARY_SHL, BINARY_SHR:
		return 10
	case BINARY_LT, BINARY_LE, BINARY_GT, BINARY_GE:
		return 9
	case BINARY_EQ, BINARY_NE:
		return 8
	case BINARY_AND:
		return 7
	case BINARY_XOR:
		return 6
	case BINARY_OR:
		return 5
	}

	return 0
}

// Apply the operator to a and b.
func (op BinaryOp) Apply(a, b int64) (value int64, err error) {
	switch op {
	case BINARY_ADD:
		value = a + b
	case BINARY_SUB:
		value = a - b
	case BINARY_MUL:
		value = a * b
	case BINARY_DIV:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		value = a / b
	case BINARY_AND:
		value = a & b
	case BINARY_OR:
		value = a | b
	case BINARY_XOR:
		value = a ^ b
	case BINARY_SHL:
		value = a << (uint64(b) & 63)
	case BINARY_SHR:
		value = a >> (uint64(b) & 63)
	case BINARY_EQ:
		value = truth(a == b)
	case BINARY_NE:
		value = truth(a != b)
	case BINARY_LT:
		value = truth(a < b)
	case BINARY_LE:
		value = truth(a <= b)
	case BINARY_GT:
		value = truth(a > b)
	case BINARY_GE:
		value = truth(a >= b)
	}

	return
}

func truth(cond bool) int64 {
	if cond {
		return 1
	}
	return 0
}
