package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ezrec/asm6510/opcode"
)

// lexer splits a whole source file into tokens.
type lexer struct {
	src     string
	pos     int
	line    int
	defines map[string]int64
	tokens  []Token
}

// tokenize returns all tokens of src, ending with TOKEN_EOF.
func tokenize(src string, defines map[string]int64) (tokens []Token, line int, err error) {
	lx := &lexer{src: src, line: 1, defines: defines}
	err = lx.run()
	return lx.tokens, lx.line, err
}

func (lx *lexer) peek(offset int) byte {
	if lx.pos+offset >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+offset]
}

func (lx *lexer) emit(kind Kind, text string) {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Line: lx.line, Text: text})
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

var twoCharOps = []string{"==", "!=", "<<", "<=", ">>", ">="}

func (lx *lexer) run() (err error) {
	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]
		switch {
		case ch == '\n':
			lx.line++
			lx.pos++
		case ch == ' ' || ch == '\t' || ch == '\r':
			lx.pos++
		case ch == ';':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		case ch == '.':
			lx.pos++
			word := lx.word()
			if len(word) == 0 {
				err = ErrMetaEmpty
				return
			}
			lx.emit(TOKEN_META, word)
		case ch == '@':
			lx.pos++
			lx.emit(TOKEN_PC, "@")
		case ch == '#':
			lx.pos++
			lx.emit(TOKEN_IMMEDIATE, "#")
		case ch == '(':
			lx.pos++
			lx.emit(TOKEN_OPEN, "(")
		case ch == ')':
			lx.pos++
			lx.emit(TOKEN_CLOSE, ")")
		case ch == ',':
			lx.pos++
			lx.emit(TOKEN_COMMA, ",")
		case ch == '"':
			err = lx.str(false)
		case ch == '$' && lx.peek(1) == '(':
			err = lx.eval()
		case ch == '$' || (ch >= '0' && ch <= '9'):
			err = lx.number()
		case ch == '=' && lx.peek(1) != '=':
			lx.pos++
			lx.emit(TOKEN_ASSIGN, "=")
		case strings.ContainsRune("=!~<>+-*/&|^", rune(ch)):
			op := string(ch)
			if lx.pos+1 < len(lx.src) {
				two := lx.src[lx.pos : lx.pos+2]
				for _, known := range twoCharOps {
					if two == known {
						op = two
					}
				}
			}
			lx.pos += len(op)
			lx.emit(TOKEN_OPERATOR, op)
		default:
			r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
			switch {
			case (ch == 'a' || ch == 'A') && lx.peek(1) == '"':
				lx.pos++
				err = lx.str(false)
			case (ch == 's' || ch == 'S') && lx.peek(1) == '"':
				lx.pos++
				err = lx.str(true)
			case r == '_' || unicode.IsLetter(r):
				err = lx.name()
			default:
				err = ErrCharacter(r)
			}
		}
		if err != nil {
			return
		}
	}

	lx.emit(TOKEN_EOF, "")

	return
}

// word consumes a run of word characters, upper cased.
func (lx *lexer) word() string {
	start := lx.pos
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !isWordRune(r) {
			break
		}
		lx.pos += size
	}
	return strings.ToUpper(lx.src[start:lx.pos])
}

// name lexes a label, mnemonic or identifier.
func (lx *lexer) name() (err error) {
	word := lx.word()
	if strings.HasPrefix(word, "__") {
		err = ErrReserved(word)
		return
	}

	switch {
	case lx.peek(0) == ':':
		lx.pos++
		lx.emit(TOKEN_LABEL, word)
	case opcode.IsMnemonic(word):
		lx.emit(TOKEN_OPCODE, word)
	default:
		lx.emit(TOKEN_WORD, word)
	}

	return
}

func digitBase(ch byte, base int) bool {
	var v int
	switch {
	case ch >= '0' && ch <= '9':
		v = int(ch - '0')
	case ch >= 'a' && ch <= 'z':
		v = int(ch-'a') + 10
	case ch >= 'A' && ch <= 'Z':
		v = int(ch-'A') + 10
	default:
		return false
	}
	return v < base
}

// number lexes $hex, 0xhex, 0ooctal, 0bbinary and decimal numbers.
func (lx *lexer) number() (err error) {
	base := 10
	switch {
	case lx.peek(0) == '$':
		base = 16
		lx.pos++
	case lx.peek(0) == '0':
		switch lx.peek(1) {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			lx.pos += 2
		}
	}

	start := lx.pos
	for lx.pos < len(lx.src) && digitBase(lx.src[lx.pos], base) {
		lx.pos++
	}

	digits := lx.src[start:lx.pos]
	value, perr := strconv.ParseInt(digits, base, 64)
	if perr != nil {
		err = ErrNumber(digits)
		return
	}

	lx.tokens = append(lx.tokens, Token{Kind: TOKEN_NUMBER, Line: lx.line, Text: digits, Value: value})

	return
}

// str lexes a double quoted string. Screen strings are converted to
// screen codes.
func (lx *lexer) str(screen bool) (err error) {
	lx.pos++

	var sb strings.Builder
	for {
		if lx.pos >= len(lx.src) {
			err = ErrStringOpen
			return
		}
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		lx.pos += size
		if r == '"' {
			break
		}
		if r == '\n' {
			lx.line++
		}
		if r != '\\' {
			sb.WriteRune(r)
			continue
		}
		if lx.pos >= len(lx.src) {
			err = ErrStringOpen
			return
		}
		esc := lx.src[lx.pos]
		lx.pos++
		switch esc {
		case 'r':
			sb.WriteByte('\r')
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '\\', '"':
			sb.WriteByte(esc)
		default:
			err = ErrEscape(esc)
			return
		}
	}

	text := sb.String()
	bytes := make([]byte, 0, len(text))
	for _, r := range text {
		ch := byte('?')
		if r < utf8.RuneSelf {
			ch = byte(r)
		}
		if screen {
			ch &= 0x3f
		}
		bytes = append(bytes, ch)
	}

	lx.tokens = append(lx.tokens, Token{Kind: TOKEN_STRING, Line: lx.line, Text: text, Bytes: bytes})

	return
}

// eval lexes $( ... ), replacing it by the number it computes.
func (lx *lexer) eval() (err error) {
	lx.pos += 2
	start := lx.pos
	line := lx.line
	depth := 1
	for depth > 0 {
		if lx.pos >= len(lx.src) {
			err = ErrEvalOpen
			return
		}
		switch lx.src[lx.pos] {
		case '(':
			depth++
		case ')':
			depth--
		case '\n':
			lx.line++
		}
		lx.pos++
	}

	expr := strings.TrimSpace(lx.src[start : lx.pos-1])
	value, err := evaluate(expr, lx.defines)
	if err != nil {
		return
	}

	lx.tokens = append(lx.tokens, Token{Kind: TOKEN_NUMBER, Line: line, Text: expr, Value: value})

	return
}
