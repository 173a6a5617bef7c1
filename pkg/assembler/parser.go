// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler

import (
	"bufio"
	"io"
	"strings"

	"github.com/minirechner/mr2a/pkg/encoding"
)

var mnemonics = map[string]MnemonicType{
	"JR": MNEMONIC_JR, "JZS": MNEMONIC_JZS, "JZC": MNEMONIC_JZC,
	"JCS": MNEMONIC_JCS, "JCC": MNEMONIC_JCC, "JNS": MNEMONIC_JNS, "JNC": MNEMONIC_JNC,
	"CALL": MNEMONIC_CALL, "RET": MNEMONIC_RET, "RETI": MNEMONIC_RETI,
	"STOP": MNEMONIC_STOP, "EI": MNEMONIC_EI, "DI": MNEMONIC_DI, "NOP": MNEMONIC_NOP,
	"MOV": MNEMONIC_MOV, "LD": MNEMONIC_LD, "ST": MNEMONIC_ST, "LDSP": MNEMONIC_LDSP,
	"ADD": MNEMONIC_ADD, "ADC": MNEMONIC_ADC, "SUB": MNEMONIC_SUB, "SBC": MNEMONIC_SBC,
	"AND": MNEMONIC_AND, "OR": MNEMONIC_OR, "XOR": MNEMONIC_XOR,
	"CMP": MNEMONIC_CMP, "TST": MNEMONIC_TST,
	"INC": MNEMONIC_INC, "DEC": MNEMONIC_DEC, "CLR": MNEMONIC_CLR, "NOT": MNEMONIC_NOT,
	"SHL": MNEMONIC_SHL, "SHR": MNEMONIC_SHR, "ASR": MNEMONIC_ASR,
	"BITS": MNEMONIC_BITS, "BITC": MNEMONIC_BITC, "BITT": MNEMONIC_BITT,
}

var registers = map[string]int{
	"R0": 0, "R1": 1, "R2": 2, "R3": 3, "R4": 4, "R5": 5, "R6": 6, "R7": 7,
}

// Parse reads mrasm source text and produces a Program together with every
// ParseError encountered. Parsing does not stop at the first error: it
// keeps going line by line so a single run reports as many mistakes as
// it can find.
func Parse(r io.Reader) (*Program, []error) {
	scanner := bufio.NewScanner(r)
	var (
		program  Program
		errs     []error
		lineNo   int
		byteOff  int64
		firstHdr = true
	)

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		lineStart := byteOff
		byteOff += int64(len(raw)) + 1

		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}

		if firstHdr && strings.HasPrefix(trimmed, "#!") {
			firstHdr = false
			program.Header = Header{Present: true, Tag: strings.TrimSpace(strings.TrimPrefix(trimmed, "#!"))}
			continue
		}
		firstHdr = false

		tokens, err := tokenizeLine(raw, lineNo, lineStart)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		line, lineErrs := parseLineTokens(tokens)
		errs = append(errs, lineErrs...)
		if line != nil {
			program.Lines = append(program.Lines, *line)
		}
	}

	if !program.Header.Present {
		errs = append(errs, errMissingHeader(Cursor{Line: 1, Column: 1}))
	}

	return &program, errs
}

func parseLineTokens(tokens []Token) (*Line, []error) {
	var errs []error
	line := Line{Position: tokens[0].Position}

	i := 0
	if tokens[i].Type == TOKEN_LABEL {
		line.Label = tokens[i].Value
		i++
		if i == len(tokens) {
			return &line, errs
		}
	}

	head := tokens[i]

	switch head.Type {
	case TOKEN_DIRECTIVE:
		directive, dargs, err := parseDirective(tokens[i:])
		if err != nil {
			errs = append(errs, err)
			return &line, errs
		}
		line.Kind = LineDirective
		line.Directive = directive
		line.DirArgs = dargs
		return &line, errs

	case TOKEN_IDENT:
		mnemonic, ok := mnemonics[strings.ToUpper(head.Value)]
		if !ok {
			errs = append(errs, errInvalidOperands(head.Position, head.Value))
			return &line, errs
		}
		operands, err := parseOperands(tokens[i+1:])
		if err != nil {
			errs = append(errs, err)
			return &line, errs
		}
		line.Kind = LineInstruction
		line.Mnemonic = mnemonic
		line.Operands = operands
		return &line, errs

	default:
		errs = append(errs, errUnexpectedCharacter(head.Position, rune(head.Value[0])))
		return &line, errs
	}
}

func parseDirective(tokens []Token) (DirectiveType, []Operand, error) {
	name := strings.ToUpper(tokens[0].Value)
	pos := tokens[0].Position

	switch name {
	case ".ORG":
		ops, err := parseOperands(tokens[1:])
		return DIRECTIVE_ORG, ops, err
	case ".DB":
		ops, err := parseOperands(tokens[1:])
		return DIRECTIVE_DB, ops, err
	case ".EQU":
		ops, err := parseOperands(tokens[1:])
		return DIRECTIVE_EQU, ops, err
	case "*STACKSIZE":
		ops, err := parseOperands(tokens[1:])
		return DIRECTIVE_STACKSIZE, ops, err
	case "*PROGRAMSIZE":
		ops, err := parseOperands(tokens[1:])
		return DIRECTIVE_PROGRAMSIZE, ops, err
	default:
		return DIRECTIVE_INVALID, nil, errInvalidDirectiveArgument(pos, name, "unrecognized directive")
	}
}

// parseOperands consumes a comma-separated operand list, tolerating the
// bare-word forms (AUTO, NOSET) that the *STACKSIZE/*PROGRAMSIZE directives
// accept in place of a numeric literal.
func parseOperands(tokens []Token) ([]Operand, error) {
	var operands []Operand
	i := 0

	for i < len(tokens) {
		if tokens[i].Type == TOKEN_COMMA {
			i++
			continue
		}

		op, n, err := parseOperand(tokens[i:])
		if err != nil {
			return nil, err
		}
		operands = append(operands, op)
		i += n
	}

	return operands, nil
}

func parseOperand(tokens []Token) (Operand, int, error) {
	if len(tokens) == 0 {
		return Operand{}, 0, nil
	}

	t := tokens[0]

	if t.Type == TOKEN_INDIRECT_OPEN {
		if len(tokens) < 3 || tokens[2].Type != TOKEN_INDIRECT_CLOSE {
			return Operand{}, 0, errUnterminatedIndirect(t.Position)
		}
		inner := tokens[1]
		op, err := leafOperand(inner)
		if err != nil {
			return Operand{}, 0, err
		}
		op.Indirect = true
		return op, 3, nil
	}

	op, err := leafOperand(t)
	if err != nil {
		return Operand{}, 0, err
	}
	return op, 1, nil
}

func leafOperand(t Token) (Operand, error) {
	switch t.Type {
	case TOKEN_LITERAL:
		v, err := encoding.DecodeNumber(t.Value)
		if err != nil {
			return Operand{}, errInvalidNumber(t.Position, t.Value)
		}
		if !encoding.FitsByte(v) {
			return Operand{}, errOversizedLiteral(t.Position, t.Value)
		}
		return Operand{Kind: OperandImmediate, Value: v, Position: t.Position}, nil

	case TOKEN_IDENT:
		upper := strings.ToUpper(t.Value)
		if reg, ok := registers[upper]; ok {
			return Operand{Kind: OperandRegister, Register: reg, Position: t.Position}, nil
		}
		return Operand{Kind: OperandIdentifier, Ident: t.Value, Position: t.Position}, nil

	default:
		return Operand{}, errInvalidRegister(t.Position, t.Value)
	}
}
