package parser

import (
	"errors"

	"github.com/ezrec/asm6510/asm"
	"github.com/ezrec/asm6510/translate"
)

var f = translate.From

var (
	ErrStringOpen  = errors.New(f("unterminated string"))
	ErrEvalOpen    = errors.New(f("unterminated $( expression"))
	ErrExpression  = errors.New(f("expression expected"))
	ErrCloseParen  = errors.New(f("')' expected"))
	ErrComma       = errors.New(f("',' expected"))
	ErrIdentifier  = errors.New(f("identifier expected"))
	ErrString      = errors.New(f("string expected"))
	ErrAssign      = errors.New(f("'=' expected"))
	ErrIndexX      = errors.New(f("illegal addressing mode, ',X' expected"))
	ErrIndexY      = errors.New(f("illegal addressing mode, ',Y' expected"))
	ErrIndex       = errors.New(f("illegal addressing mode, 'X' or 'Y' expected"))
	ErrMetaEmpty   = errors.New(f("empty directive"))
	ErrNotInteger  = errors.New(f("$( expression is not an integer"))
	ErrMessageArgs = errors.New(f("message needs at least one argument"))
)

// ErrNumber is a malformed number.
type ErrNumber string

func (err ErrNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrEscape is an unknown escape sequence in a string.
type ErrEscape rune

func (err ErrEscape) Error() string {
	return f("illegal escape sequence '\\%c'", rune(err))
}

// ErrCharacter is a character that starts no token.
type ErrCharacter rune

func (err ErrCharacter) Error() string {
	return f("illegal character '%c'", rune(err))
}

// ErrReserved is a name using the '__' prefix, reserved for macro internals.
type ErrReserved string

func (err ErrReserved) Error() string {
	return f("usage of '__' names is forbidden: %v", string(err))
}

// ErrMeta is an unknown directive.
type ErrMeta string

func (err ErrMeta) Error() string {
	return f("illegal directive '.%v'", string(err))
}

// ErrUnexpected is a token that cannot start a statement.
type ErrUnexpected string

func (err ErrUnexpected) Error() string {
	return f("unexpected %v", string(err))
}

// ErrLocalParam is a macro parameter with a local name.
type ErrLocalParam string

func (err ErrLocalParam) Error() string {
	return f("macro parameter '%v' may not be a local name", string(err))
}

// ErrEval wraps a failed $( ... ) expression.
type ErrEval struct {
	Expr string
	Err  error
}

func (err *ErrEval) Error() string {
	return f("$(%v): %v", err.Expr, err.Err)
}

func (err *ErrEval) Unwrap() error {
	return err.Err
}

// ErrSyntax is a parse failure at a source location.
type ErrSyntax struct {
	asm.Location
	Err error
}

func (err ErrSyntax) Error() string {
	return f("%v: %v", err.Location, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
