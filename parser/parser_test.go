package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/asm6510/asm"
)

// assemble parses and assembles a single source text.
func assemble(p *Parser, src string) (prog *asm.Program, err error) {
	a := asm.NewAssembler()
	acts, err := p.Actions(a.IDs(), "test.s", strings.NewReader(src))
	if err != nil {
		return
	}

	prog, err = a.Assemble(acts)

	return
}

// image concatenates every region of a program.
func image(prog *asm.Program) (data []byte) {
	for _, region := range prog.Regions {
		data = append(data, region.Bytes...)
	}
	return
}

func TestTokenize(t *testing.T) {
	assert := assert.New(t)

	tokens, line, err := tokenize("start: lda #$1F ; comment\n  .db a\"Hi\\n\", s\"AB\"\n@ = 0b101 << 0x2 != 0o7", nil)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(3, line)

	var kinds []Kind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal([]Kind{
		TOKEN_LABEL, TOKEN_OPCODE, TOKEN_IMMEDIATE, TOKEN_NUMBER,
		TOKEN_META, TOKEN_STRING, TOKEN_COMMA, TOKEN_STRING,
		TOKEN_PC, TOKEN_ASSIGN, TOKEN_NUMBER, TOKEN_OPERATOR, TOKEN_NUMBER, TOKEN_OPERATOR, TOKEN_NUMBER,
		TOKEN_EOF,
	}, kinds)

	assert.Equal("START", tokens[0].Text)
	assert.Equal("LDA", tokens[1].Text)
	assert.Equal(int64(0x1f), tokens[3].Value)
	assert.Equal(1, tokens[3].Line)
	assert.Equal("DB", tokens[4].Text)
	assert.Equal(2, tokens[4].Line)
	assert.Equal("Hi\n", tokens[5].Text)
	assert.Equal([]byte{'H', 'i', '\n'}, tokens[5].Bytes)
	assert.Equal([]byte{0x01, 0x02}, tokens[7].Bytes)
	assert.Equal(int64(5), tokens[10].Value)
	assert.Equal("<<", tokens[11].Text)
	assert.Equal(int64(2), tokens[12].Value)
	assert.Equal("!=", tokens[13].Text)
	assert.Equal(int64(7), tokens[14].Value)
}

func TestTokenize_NonASCII(t *testing.T) {
	assert := assert.New(t)

	tokens, _, err := tokenize(`"a€b"`, nil)
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]byte{'a', '?', 'b'}, tokens[0].Bytes)
}

func TestParser_Program(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(&Parser{}, `
@ = $C000
start:
    lda #$05
    sta $D020
    rts
`)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]asm.Region{
		{Start: 0xc000, Kind: asm.KIND_CODE, Bytes: []byte{0xa9, 0x05, 0x8d, 0x20, 0xd0, 0x60}},
	}, prog.Regions)
	assert.Equal(int64(0xc000), prog.Labels["START"])
	assert.Equal(asm.Location{File: "test.s", Line: 5}, prog.Source[0xc002])
}

func TestParser_Expression(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		expr  string
		value int64
	}{
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 - 3 - 2", 5},
		{"64 / 4 / 2", 8},
		{"<$1234 + 1", 0x35},
		{">$1234", 0x12},
		{"-2 + 5", 3},
		{"~0 & $FF", 0xff},
		{"!0 + !5", 1},
		{"1 << 4 | 1", 17},
		{"3 < 4 == 1", 1},
		{"$F0 ^ $FF", 0x0f},
		{"7 >= 8", 0},
	}

	for _, entry := range table {
		prog, err := assemble(&Parser{}, "V = "+entry.expr+"\n")
		if !assert.NoError(err, entry.expr) {
			continue
		}
		assert.Equal(entry.value, prog.Variables["V"], entry.expr)
	}
}

func TestParser_Modes(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(&Parser{}, `
@ = $1000
    lda ($10,x)
    lda ($10),y
    jmp ($2000)
    lda $10,x
    ldx $10,y
    lda $1234,y
    asl a
    asl
    nop
    lda ZP
    lda FAR,x
ZP = $20
FAR = $3000
`)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]byte{
		0xa1, 0x10,
		0xb1, 0x10,
		0x6c, 0x00, 0x20,
		0xb5, 0x10,
		0xb6, 0x10,
		0xb9, 0x34, 0x12,
		0x0a,
		0x0a,
		0xea,
		0xa5, 0x20,
		0xbd, 0x00, 0x30,
	}, image(prog))
}

func TestParser_Data(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(&Parser{}, `
@ = $2000
    .db "AB", 1, $FF
    .db s"AB"
    .dw $1234
    .repb 3, 7
    .repw 2, 1, "C"
`)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]byte{
		0x41, 0x42, 0x01, 0xff,
		0x01, 0x02,
		0x34, 0x12,
		0x07, 0x07, 0x07,
		0x01, 0x00, 0x43, 0x00, 0x01, 0x00, 0x43, 0x00,
	}, image(prog))
	for _, region := range prog.Regions {
		assert.Equal(asm.KIND_DATA, region.Kind)
	}
}

func TestParser_Meta(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(&Parser{}, `
.macro POKE, ADDR, VAL
    lda #VAL
    sta ADDR
.endmacro

@ = $C000
    .call POKE, $D020, 1
.rep 2
    nop
.endrep
.if 1 == 2
    brk
.elif 2 == 2
    inx
.else
    dex
.endif
N = 3
.while N > 0
    .db N
N = N - 1
.endwhile
.label SKIP
.if N == 0
N = 9
    .goto SKIP
.endif
`)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]byte{
		0xa9, 0x01, 0x8d, 0x20, 0xd0,
		0xea, 0xea,
		0xe8,
		0x03, 0x02, 0x01,
	}, image(prog))
	assert.Equal(int64(9), prog.Variables["N"])
}

func TestParser_Messages(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble(&Parser{}, `
V = 3
.info "value ", V
.warnf "%d-%s", V, "x"
.errorf "stop at %d", V + 1
`)
	assert.ErrorIs(err, asm.ErrUser("stop at 4"))
}

func TestParser_Eval(t *testing.T) {
	assert := assert.New(t)

	p := &Parser{Defines: map[string]int64{"BASE": 0x1000}}
	prog, err := assemble(p, "V = $( BASE + 2 * (4 + 4) )\nT = $(True)\n")
	if assert.NoError(err) {
		assert.Equal(int64(0x1010), prog.Variables["V"])
		assert.Equal(int64(1), prog.Variables["T"])
	}

	_, err = assemble(p, "V = $(1 +)\n")
	var ee *ErrEval
	assert.ErrorAs(err, &ee)

	_, err = assemble(p, "V = $(\"text\")\n")
	assert.ErrorIs(err, ErrNotInteger)

	_, err = assemble(p, "V = $(1 + 2\n")
	assert.ErrorIs(err, ErrEvalOpen)
}

func TestParser_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		src  string
		line int
		err  error
	}{
		{"\"abc", 1, ErrStringOpen},
		{"\n.db \"\\q\"", 2, ErrEscape('q')},
		{"__X = 1", 1, ErrReserved("__X")},
		{"\n\n.FOO", 3, ErrMeta("FOO")},
		{"X 5", 1, ErrAssign},
		{"lda (5", 1, ErrCloseParen},
		{"lda (5,y)", 1, ErrIndexX},
		{"lda (5),x", 1, ErrIndexY},
		{"lda 5,z", 1, ErrIndex},
		{".macro M, _P\n.endmacro", 1, ErrLocalParam("_P")},
		{".macro 5", 1, ErrIdentifier},
		{"X =\n", 2, ErrExpression},
		{"X = 1 %", 1, ErrCharacter('%')},
		{"X = $G", 1, ErrNumber("")},
		{".info", 1, ErrMessageArgs},
		{".include FILE", 1, ErrString},
		{".repb 3 4", 1, ErrComma},
		{"\n, X", 2, ErrUnexpected("','")},
		{".", 1, ErrMetaEmpty},
	}

	for _, entry := range table {
		_, err := assemble(&Parser{}, entry.src)
		if !assert.ErrorIs(err, entry.err, entry.src) {
			continue
		}
		var se ErrSyntax
		if assert.True(errors.As(err, &se), entry.src) {
			assert.Equal(entry.line, se.Line, entry.src)
			assert.Equal("test.s", se.File, entry.src)
		}
	}
}

func TestParser_BuilderErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble(&Parser{}, ".if 1\nnop\n")
	assert.ErrorIs(err, asm.ErrBlockUnclosed(".IF"))

	_, err = assemble(&Parser{}, ".endwhile\n")
	var bm *asm.ErrBlockMismatch
	assert.ErrorAs(err, &bm)

	_, err = assemble(&Parser{}, "@ = $1000\n bne 1\n")
	assert.Error(err)

	_, err = assemble(&Parser{}, "@ = $1000\n lda (5)\n")
	assert.ErrorIs(err, asm.ErrIllegalMode)
}

func TestParser_MacroLocals(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(&Parser{}, `
.macro WAIT, N
_t = N
_loop:
    .db _t
    dex
    bne _loop
.endmacro

@ = $1000
    .call WAIT, 1
start:
    .call WAIT, 2
    .call WAIT, 3
`)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]byte{
		0x01, 0xca, 0xd0, 0xfc,
		0x02, 0xca, 0xd0, 0xfc,
		0x03, 0xca, 0xd0, 0xfc,
	}, image(prog))
	assert.Equal(int64(0x1004), prog.Labels["WAIT$2$$_LOOP"])
	assert.Equal(int64(3), prog.Variables["WAIT$3$$_T"])
}
