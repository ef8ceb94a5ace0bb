// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package parser

import (
	"io"
	"log"
	"strings"

	"github.com/ezrec/asm6510/asm"
	"github.com/ezrec/asm6510/opcode"
)

// Parser reads assembly source.
type Parser struct {
	Verbose bool             // If set, log token counts.
	Defines map[string]int64 // Integers visible to $( ... ) expressions.
}

// Actions parses a complete source file into its lowered actions.
func (p *Parser) Actions(ids *asm.IDs, name string, input io.Reader) (acts []asm.Action, err error) {
	b := asm.NewBuilder(ids)
	err = p.Parse(b, name, input)
	if err != nil {
		return
	}

	acts, err = b.Actions()

	return
}

// Parse reads source and lowers every statement onto b.
func (p *Parser) Parse(b *asm.Builder, name string, input io.Reader) (err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	tokens, line, err := tokenize(string(data), p.Defines)
	if err != nil {
		err = ErrSyntax{Location: asm.Location{File: name, Line: line}, Err: err}
		return
	}

	if p.Verbose {
		log.Printf("%v: %d lines, %d tokens", name, line, len(tokens))
	}

	s := &state{b: b, name: name, tokens: tokens}
	for s.peek().Kind != TOKEN_EOF {
		err = s.statement()
		if err != nil {
			return
		}
	}

	return
}

// state is the position of a parse in a token stream.
type state struct {
	b      *asm.Builder
	name   string
	tokens []Token
	pos    int
}

func (s *state) peek() Token {
	return s.peekAt(0)
}

func (s *state) peekAt(offset int) Token {
	n := min(s.pos+offset, len(s.tokens)-1)
	return s.tokens[n]
}

func (s *state) next() (tok Token) {
	tok = s.peek()
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}
	return
}

func (s *state) location() asm.Location {
	return asm.Location{File: s.name, Line: s.peek().Line}
}

// fail reports err at the current token.
func (s *state) fail(err error) error {
	return ErrSyntax{Location: s.location(), Err: err}
}

// expect consumes a token of the given kind.
func (s *state) expect(kind Kind, missing error) (tok Token, err error) {
	if s.peek().Kind != kind {
		err = s.fail(missing)
		return
	}
	tok = s.next()
	return
}

// accept consumes the next token if it is of the given kind.
func (s *state) accept(kind Kind) bool {
	if s.peek().Kind != kind {
		return false
	}
	s.next()
	return true
}

func (s *state) statement() (err error) {
	loc := s.location()
	tok := s.peek()

	switch tok.Kind {
	case TOKEN_META:
		err = s.directive()
	case TOKEN_LABEL:
		s.next()
		s.b.Label(loc, tok.Text)
	case TOKEN_WORD, TOKEN_PC:
		err = s.assignment()
	case TOKEN_OPCODE:
		err = s.instruction()
	default:
		err = s.fail(ErrUnexpected(tok.String()))
	}

	return
}

func (s *state) assignment() (err error) {
	loc := s.location()
	name := s.next().Text

	_, err = s.expect(TOKEN_ASSIGN, ErrAssign)
	if err != nil {
		return
	}

	expr, err := s.expression()
	if err != nil {
		return
	}

	err = s.b.Assign(loc, name, expr)

	return
}

// implied is true when the token after a mnemonic starts the next statement.
func (s *state) implied() bool {
	switch s.peek().Kind {
	case TOKEN_OPCODE, TOKEN_LABEL, TOKEN_META, TOKEN_EOF, TOKEN_STRING:
		return true
	case TOKEN_WORD, TOKEN_PC:
		return s.peekAt(1).Kind == TOKEN_ASSIGN
	}
	return false
}

// register consumes the index register name.
func (s *state) register(want string, missing error) (err error) {
	tok := s.peek()
	if tok.Kind != TOKEN_WORD || tok.Text != want {
		err = s.fail(missing)
		return
	}
	s.next()
	return
}

func (s *state) instruction() (err error) {
	loc := s.location()
	mnemonic := s.next().Text

	var operand asm.Operand

	switch {
	case s.accept(TOKEN_IMMEDIATE):
		operand.Syntax = asm.SYNTAX_IMMEDIATE
		operand.Expr, err = s.expression()
	case opcode.IsBranch(mnemonic):
		operand.Syntax = asm.SYNTAX_DIRECT
		operand.Expr, err = s.expression()
	case s.implied():
		operand.Syntax = asm.SYNTAX_IMPLIED
	case s.peek().Kind == TOKEN_WORD && s.peek().Text == "A" &&
		opcode.Has(mnemonic, opcode.MODE_IMPLIED) && s.peekAt(1).Kind != TOKEN_ASSIGN:
		// Accumulator operand of the shifts and rotates.
		s.next()
		operand.Syntax = asm.SYNTAX_IMPLIED
	case s.accept(TOKEN_OPEN):
		err = s.indirect(&operand)
	default:
		operand.Syntax = asm.SYNTAX_DIRECT
		operand.Expr, err = s.expression()
		if err != nil {
			return
		}
		if !s.accept(TOKEN_COMMA) {
			break
		}
		tok := s.peek()
		switch {
		case tok.Kind == TOKEN_WORD && tok.Text == "X":
			operand.Index = asm.INDEX_X
		case tok.Kind == TOKEN_WORD && tok.Text == "Y":
			operand.Index = asm.INDEX_Y
		default:
			err = s.fail(ErrIndex)
			return
		}
		s.next()
	}
	if err != nil {
		return
	}

	err = s.b.Instruction(loc, mnemonic, operand)

	return
}

// indirect parses the rest of (expr,X), (expr),Y or (expr).
func (s *state) indirect(operand *asm.Operand) (err error) {
	operand.Expr, err = s.expression()
	if err != nil {
		return
	}

	if s.accept(TOKEN_COMMA) {
		err = s.register("X", ErrIndexX)
		if err != nil {
			return
		}
		_, err = s.expect(TOKEN_CLOSE, ErrCloseParen)
		operand.Syntax = asm.SYNTAX_INDIRECT_X
		return
	}

	_, err = s.expect(TOKEN_CLOSE, ErrCloseParen)
	if err != nil {
		return
	}

	operand.Syntax = asm.SYNTAX_INDIRECT
	if s.accept(TOKEN_COMMA) {
		err = s.register("Y", ErrIndexY)
		operand.Syntax = asm.SYNTAX_INDIRECT_Y
	}

	return
}

var unaryOps = map[string]asm.UnaryOp{
	"!": asm.UNARY_NOT,
	"~": asm.UNARY_NEG,
	"-": asm.UNARY_MINUS,
	"<": asm.UNARY_LOW,
	">": asm.UNARY_HIGH,
}

var binaryOps = map[string]asm.BinaryOp{
	"+":  asm.BINARY_ADD,
	"-":  asm.BINARY_SUB,
	"*":  asm.BINARY_MUL,
	"/":  asm.BINARY_DIV,
	"&":  asm.BINARY_AND,
	"|":  asm.BINARY_OR,
	"^":  asm.BINARY_XOR,
	"<<": asm.BINARY_SHL,
	">>": asm.BINARY_SHR,
	"==": asm.BINARY_EQ,
	"!=": asm.BINARY_NE,
	"<":  asm.BINARY_LT,
	"<=": asm.BINARY_LE,
	">":  asm.BINARY_GT,
	">=": asm.BINARY_GE,
}

// expression parses a full expression.
func (s *state) expression() (expr []asm.Action, err error) {
	return s.binary(0)
}

// binary parses operators binding at least as tight as prio, left to right.
func (s *state) binary(prio int) (expr []asm.Action, err error) {
	expr, err = s.unary()
	if err != nil {
		return
	}

	for {
		tok := s.peek()
		if tok.Kind != TOKEN_OPERATOR {
			return
		}
		op, ok := binaryOps[tok.Text]
		if !ok || op.Priority() < prio {
			return
		}
		loc := s.location()
		s.next()

		var rhs []asm.Action
		rhs, err = s.binary(op.Priority() + 1)
		if err != nil {
			return
		}
		expr = append(expr, rhs...)
		expr = append(expr, asm.Binary(loc, op))
	}
}

// unary parses prefix operators applied to a single operand.
func (s *state) unary() (expr []asm.Action, err error) {
	loc := s.location()
	tok := s.peek()

	if tok.Kind == TOKEN_OPERATOR {
		op, ok := unaryOps[tok.Text]
		if !ok {
			err = s.fail(ErrExpression)
			return
		}
		s.next()
		expr, err = s.unary()
		if err != nil {
			return
		}
		expr = append(expr, asm.Unary(loc, op))
		return
	}

	switch tok.Kind {
	case TOKEN_NUMBER:
		s.next()
		expr = []asm.Action{asm.Load(loc, tok.Value)}
	case TOKEN_WORD:
		s.next()
		expr = []asm.Action{asm.Get(loc, tok.Text)}
	case TOKEN_PC:
		s.next()
		expr = []asm.Action{asm.Get(loc, asm.PC_NAME)}
	case TOKEN_OPEN:
		s.next()
		expr, err = s.expression()
		if err != nil {
			return
		}
		_, err = s.expect(TOKEN_CLOSE, ErrCloseParen)
	default:
		err = s.fail(ErrExpression)
	}

	return
}

// identifier consumes a name.
func (s *state) identifier() (name string, err error) {
	tok, err := s.expect(TOKEN_WORD, ErrIdentifier)
	name = tok.Text
	return
}

func (s *state) directive() (err error) {
	loc := s.location()
	tok := s.next()

	switch tok.Text {
	case "IF":
		var cond []asm.Action
		cond, err = s.expression()
		if err == nil {
			err = s.b.If(loc, cond)
		}
	case "ELIF":
		var cond []asm.Action
		cond, err = s.expression()
		if err == nil {
			err = s.b.ElseIf(loc, cond)
		}
	case "ELSE":
		err = s.b.Else(loc)
	case "ENDIF":
		err = s.b.EndIf(loc)
	case "REP":
		var count []asm.Action
		count, err = s.expression()
		if err == nil {
			err = s.b.Repeat(loc, count)
		}
	case "ENDREP":
		err = s.b.EndRepeat(loc)
	case "WHILE":
		var cond []asm.Action
		cond, err = s.expression()
		if err == nil {
			err = s.b.While(loc, cond)
		}
	case "ENDWHILE":
		err = s.b.EndWhile(loc)
	case "MACRO":
		err = s.macro(loc)
	case "ENDMACRO":
		err = s.b.EndMacro(loc)
	case "CALL":
		err = s.call(loc)
	case "DB", "DW":
		err = s.data(loc, tok.Text == "DW")
	case "REPB", "REPW":
		err = s.repeatData(loc, tok.Text == "REPW")
	case "LABEL":
		var name string
		name, err = s.identifier()
		if err == nil {
			s.b.MetaLabel(loc, name)
		}
	case "GOTO":
		var name string
		name, err = s.identifier()
		if err == nil {
			s.b.Goto(loc, name)
		}
	case "INCLUDE":
		var file Token
		file, err = s.expect(TOKEN_STRING, ErrString)
		if err == nil {
			err = s.b.Include(loc, file.Text)
		}
	case "INCBIN":
		err = s.incbin(loc)
	case "INFO", "INFOF":
		err = s.message(loc, asm.LEVEL_INFO, tok.Text == "INFOF")
	case "WARN", "WARNF":
		err = s.message(loc, asm.LEVEL_WARN, tok.Text == "WARNF")
	case "ERROR", "ERRORF":
		err = s.message(loc, asm.LEVEL_ERROR, tok.Text == "ERRORF")
	default:
		err = ErrSyntax{Location: loc, Err: ErrMeta(tok.Text)}
	}

	return
}

// macro parses '.MACRO NAME, PARAM, ...'.
func (s *state) macro(loc asm.Location) (err error) {
	name, err := s.identifier()
	if err != nil {
		return
	}

	var params []string
	for s.accept(TOKEN_COMMA) {
		var param string
		param, err = s.identifier()
		if err != nil {
			return
		}
		if strings.HasPrefix(param, "_") {
			err = ErrSyntax{Location: loc, Err: ErrLocalParam(param)}
			return
		}
		params = append(params, param)
	}

	err = s.b.Macro(loc, name, params)

	return
}

// call parses '.CALL NAME, ARG, ...'.
func (s *state) call(loc asm.Location) (err error) {
	name, err := s.identifier()
	if err != nil {
		return
	}

	var args [][]asm.Action
	for s.accept(TOKEN_COMMA) {
		var arg []asm.Action
		arg, err = s.expression()
		if err != nil {
			return
		}
		args = append(args, arg)
	}

	err = s.b.Call(loc, name, args)

	return
}

// data parses a comma separated list of strings and expressions.
func (s *state) data(loc asm.Location, word bool) (err error) {
	for {
		item := s.location()
		tok := s.peek()
		if tok.Kind == TOKEN_STRING {
			s.next()
			s.b.Text(item, word, tok.Bytes)
		} else {
			var expr []asm.Action
			expr, err = s.expression()
			if err != nil {
				return
			}
			err = s.b.Data(item, word, expr)
			if err != nil {
				return
			}
		}
		if !s.accept(TOKEN_COMMA) {
			return
		}
	}
}

// repeatData parses 'COUNT, ITEM, ...', storing the items COUNT times.
func (s *state) repeatData(loc asm.Location, word bool) (err error) {
	count, err := s.expression()
	if err != nil {
		return
	}

	_, err = s.expect(TOKEN_COMMA, ErrComma)
	if err != nil {
		return
	}

	err = s.b.Repeat(loc, count)
	if err != nil {
		return
	}

	err = s.data(loc, word)
	if err != nil {
		return
	}

	err = s.b.EndRepeat(loc)

	return
}

// incbin parses '"FILE"[, SKIP[, LENGTH]]'.
func (s *state) incbin(loc asm.Location) (err error) {
	file, err := s.expect(TOKEN_STRING, ErrString)
	if err != nil {
		return
	}

	skip := []asm.Action{asm.Load(loc, 0)}
	length := []asm.Action{asm.Load(loc, -1)}
	if s.accept(TOKEN_COMMA) {
		skip, err = s.expression()
		if err != nil {
			return
		}
		if s.accept(TOKEN_COMMA) {
			length, err = s.expression()
			if err != nil {
				return
			}
		}
	}

	err = s.b.IncludeBinary(loc, file.Text, skip, length)

	return
}

// message parses the arguments of .INFO, .WARN, .ERROR and their
// formatted variants.
func (s *state) message(loc asm.Location, level asm.Level, format bool) (err error) {
	switch s.peek().Kind {
	case TOKEN_META, TOKEN_EOF, TOKEN_LABEL, TOKEN_OPCODE:
		err = ErrSyntax{Location: loc, Err: ErrMessageArgs}
		return
	}

	var args []asm.MessageArg
	for {
		tok := s.peek()
		if tok.Kind == TOKEN_STRING {
			s.next()
			args = append(args, asm.MessageArg{Text: tok.Text})
		} else {
			var expr []asm.Action
			expr, err = s.expression()
			if err != nil {
				return
			}
			args = append(args, asm.MessageArg{Expr: expr})
		}
		if !s.accept(TOKEN_COMMA) {
			break
		}
	}

	err = s.b.Message(loc, level, format, args)

	return
}
