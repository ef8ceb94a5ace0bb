package parser

import (
	"fmt"
)

// Kind of a token.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	TOKEN_EOF       = Kind(0)  // end of file
	TOKEN_META      = Kind(1)  // directive
	TOKEN_WORD      = Kind(2)  // identifier
	TOKEN_OPCODE    = Kind(3)  // mnemonic
	TOKEN_LABEL     = Kind(4)  // label
	TOKEN_STRING    = Kind(5)  // string
	TOKEN_PC        = Kind(6)  // @
	TOKEN_IMMEDIATE = Kind(7)  // #
	TOKEN_NUMBER    = Kind(8)  // number
	TOKEN_ASSIGN    = Kind(9)  // =
	TOKEN_OPERATOR  = Kind(10) // operator
	TOKEN_OPEN      = Kind(11) // (
	TOKEN_CLOSE     = Kind(12) // )
	TOKEN_COMMA     = Kind(13) // ,
)

// Token is a lexical element of a source file.
type Token struct {
	Kind  Kind
	Line  int
	Text  string // Upper cased name, operator, or unescaped string.
	Value int64  // TOKEN_NUMBER
	Bytes []byte // TOKEN_STRING, converted to the target encoding.
}

func (tok Token) String() string {
	switch tok.Kind {
	case TOKEN_META:
		return fmt.Sprintf("'.%v'", tok.Text)
	case TOKEN_WORD, TOKEN_OPCODE, TOKEN_OPERATOR:
		return fmt.Sprintf("'%v'", tok.Text)
	case TOKEN_LABEL:
		return fmt.Sprintf("'%v:'", tok.Text)
	case TOKEN_STRING:
		return fmt.Sprintf("%q", tok.Text)
	case TOKEN_NUMBER:
		return fmt.Sprintf("%d", tok.Value)
	case TOKEN_EOF:
		return tok.Kind.String()
	}

	return fmt.Sprintf("'%v'", tok.Kind)
}
