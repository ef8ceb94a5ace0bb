// Package parser reads 6510 assembly source and lowers it onto an asm.Builder.
//
// # Statements
//
//	LABEL:               ; global label at @
//	_local:              ; local label, scoped to the previous global label
//	NAME = expr          ; variable assignment
//	@ = expr             ; set the program counter
//	LDA #expr            ; instruction
//
// Operands are #expr, expr, expr,X, expr,Y, (expr), (expr,X) and (expr),Y.
// The accumulator forms of ASL, LSR, ROL and ROR may be written with or
// without 'A'.
//
// # Expressions
//
// Numbers are decimal, $hex, 0xhex, 0ooctal or 0bbinary. Prefix operators
// ! ~ - < > bind tighter than any infix operator. Infix operators, from
// loosest to tightest: |, ^, &, == !=, < <= > >=, << >>, + -, * /.
// $( ... ) is computed when the file is read by a Starlark expression, which
// sees the parser's Defines.
//
// # Directives
//
//	.DB item, ...              .DW item, ...
//	.REPB count, item, ...     .REPW count, item, ...
//	.IF expr / .ELIF expr / .ELSE / .ENDIF
//	.REP count / .ENDREP
//	.WHILE expr / .ENDWHILE
//	.MACRO NAME, PARAM, ... / .ENDMACRO
//	.CALL NAME, expr, ...
//	.LABEL NAME / .GOTO NAME
//	.INCLUDE "file"
//	.INCBIN "file"[, skip[, length]]
//	.INFO .INFOF .WARN .WARNF .ERROR .ERRORF arg, ...
//
// Data items are expressions or strings. "..." and a"..." are ASCII,
// s"..." are screen codes.
package parser
