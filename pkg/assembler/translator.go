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
	"fmt"

	"github.com/minirechner/mr2a/pkg/encoding"
)

// ImageSize is the size, in bytes, of the program image the Minirechner 2a
// boots from.
const ImageSize = 240

// Result is everything Translate produces from a parsed Program: the byte
// image ready to load into bus memory, the symbol table for diagnostics and
// debugging, and the layout metadata the *STACKSIZE/*PROGRAMSIZE directives
// recorded.
type Result struct {
	Image  [ImageSize]byte
	Sym    *SymTable
	Layout Layout
}

// symbolValue is either a constant defined by .EQU or a label bound to an
// address by virtue of appearing at the start of a line.
type symbolValue struct {
	isLabel bool
	address uint16
	value   int64
}

// Translate lowers a parsed Program into a byte image in two passes: the
// first walks every line purely to learn where labels land and what the
// last .EQU for each name resolved to (mrasm's last-write-wins override),
// the second walks the same lines again now able to resolve every operand
// and emit its bytes.
func Translate(program *Program) (*Result, []error) {
	symbols, errs := firstPass(program)
	if len(errs) > 0 {
		return nil, errs
	}

	return secondPass(program, symbols)
}

func firstPass(program *Program) (map[string]symbolValue, []error) {
	symbols := make(map[string]symbolValue)
	var errs []error

	var addr uint16
	var highWater uint16

	for _, line := range program.Lines {
		if line.Label != "" {
			if existing, ok := symbols[line.Label]; ok && existing.isLabel {
				errs = append(errs, errRedeclaredLabel(line.Position, line.Label))
			} else {
				symbols[line.Label] = symbolValue{isLabel: true, address: addr}
			}
		}

		switch line.Kind {
		case LineInstruction:
			op, err := opcodeFor(line)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			addr += uint16(op.byteLength())

		case LineDirective:
			switch line.Directive {
			case DIRECTIVE_ORG:
				if len(line.DirArgs) != 1 || line.DirArgs[0].Kind != OperandImmediate {
					errs = append(errs, errInvalidDirectiveArgument(line.Position, ".ORG", "expected one numeric address"))
					continue
				}
				newAddr := uint16(line.DirArgs[0].Value)
				if newAddr < highWater {
					errs = append(errs, errOrgRewind(line.Position, int(newAddr), int(highWater)))
					continue
				}
				addr = newAddr

			case DIRECTIVE_DB:
				addr += uint16(len(line.DirArgs))

			case DIRECTIVE_EQU:
				if len(line.DirArgs) != 2 || line.DirArgs[0].Kind != OperandIdentifier {
					errs = append(errs, errInvalidDirectiveArgument(line.Position, ".EQU", "expected NAME, value"))
					continue
				}
				name := line.DirArgs[0].Ident
				val := line.DirArgs[1]
				switch val.Kind {
				case OperandImmediate:
					symbols[name] = symbolValue{isLabel: false, value: val.Value}
				case OperandIdentifier:
					// .EQU may bind a name to the value of an already-defined
					// identifier (label or earlier .EQU), not just a literal.
					sym, ok := symbols[val.Ident]
					if !ok {
						errs = append(errs, errUnknownIdentifier(val.Position, val.Ident))
						continue
					}
					resolved := sym.value
					if sym.isLabel {
						resolved = int64(sym.address)
					}
					symbols[name] = symbolValue{isLabel: false, value: resolved}
				default:
					errs = append(errs, errInvalidDirectiveArgument(line.Position, ".EQU", "expected NAME, value"))
				}

			case DIRECTIVE_STACKSIZE, DIRECTIVE_PROGRAMSIZE:
				// Recorded during the second pass once it has a full Layout
				// to fill in; no address impact here.
			}
		}

		if addr > highWater {
			highWater = addr
		}
	}

	return symbols, errs
}

func secondPass(program *Program, symbols map[string]symbolValue) (*Result, []error) {
	var result Result
	result.Sym = NewSymTable()
	// mrasm defaults to a 16-byte stack window when a program never gives
	// a *STACKSIZE directive at all; NOSET means "leave whatever bound was
	// already in force", which at the top of a program is this same
	// default.
	result.Layout.Stacksize = Stacksize16
	var errs []error

	var addr uint16
	var originSet bool
	var programsizeSet bool

	resolve := func(op Operand) (int64, error) {
		switch op.Kind {
		case OperandImmediate:
			return op.Value, nil
		case OperandIdentifier:
			sym, ok := symbols[op.Ident]
			if !ok {
				return 0, errUnknownIdentifier(op.Position, op.Ident)
			}
			if sym.isLabel {
				return int64(sym.address), nil
			}
			return sym.value, nil
		default:
			return 0, errUnknownIdentifier(op.Position, "")
		}
	}

	emit := func(pos Cursor, bytes ...byte) error {
		for _, b := range bytes {
			if int(addr) >= ImageSize {
				return errAddressOutOfRange(pos, int(addr))
			}
			result.Image[addr] = b
			result.Sym.Symbols[addr] = pos.Byte
			addr++
		}
		return nil
	}

	for _, line := range program.Lines {
		if line.Label != "" {
			result.Sym.Labels[addr] = line.Label
		}

		switch line.Kind {
		case LineInstruction:
			bytes, err := encodeInstruction(line, resolve)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if err := emit(line.Position, bytes...); err != nil {
				errs = append(errs, err)
			}

		case LineDirective:
			switch line.Directive {
			case DIRECTIVE_ORG:
				addr = uint16(line.DirArgs[0].Value)
				if !originSet {
					result.Layout.Origin = addr
					originSet = true
				}

			case DIRECTIVE_DB:
				for _, arg := range line.DirArgs {
					v, err := resolve(arg)
					if err != nil {
						errs = append(errs, err)
						continue
					}
					if err := emit(line.Position, encoding.ToByte(v)); err != nil {
						errs = append(errs, err)
					}
				}

			case DIRECTIVE_EQU:
				// Already folded into the symbol table during the first pass.

			case DIRECTIVE_STACKSIZE:
				size, err := stacksizeFrom(line)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				// NOSET means "leave whatever bound is already in
				// force" rather than switching to the unbounded
				// StacksizeNotSet value itself.
				if size != StacksizeNotSet {
					result.Layout.Stacksize = size
				}

			case DIRECTIVE_PROGRAMSIZE:
				ps, err := programsizeFrom(line)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				programsizeSet = true
				// NOSET leaves whatever bound is already in force; with no
				// earlier *PROGRAMSIZE that is no bound (ProgramsizeNotSet).
				if ps.Kind != ProgramsizeNotSet {
					result.Layout.Programsize = ps
				}
			}
		}
	}

	if !programsizeSet {
		result.Layout.Programsize = Programsize{Kind: ProgramsizeAuto}
	}
	if result.Layout.Programsize.Kind == ProgramsizeAuto {
		result.Layout.Programsize.Value = addr
	}

	return &result, errs
}

func stacksizeFrom(line Line) (Stacksize, error) {
	if len(line.DirArgs) != 1 {
		return 0, errInvalidDirectiveArgument(line.Position, "*STACKSIZE", "expected one argument")
	}
	arg := line.DirArgs[0]
	if arg.Kind == OperandIdentifier {
		switch arg.Ident {
		case "NOSET":
			return StacksizeNotSet, nil
		case "AUTO":
			return StacksizeAuto, nil
		}
	}
	if arg.Kind == OperandImmediate {
		switch arg.Value {
		case 0:
			return Stacksize0, nil
		case 16:
			return Stacksize16, nil
		case 32:
			return Stacksize32, nil
		case 48:
			return Stacksize48, nil
		case 64:
			return Stacksize64, nil
		}
	}
	return 0, errInvalidDirectiveArgument(line.Position, "*STACKSIZE", fmt.Sprintf("%v is not one of 16, 32, 48, 64, 0, NOSET, AUTO", arg))
}

// programsizeFrom keeps ProgramsizeAuto and ProgramsizeNotSet distinct
// results, per the Open Question resolution recorded in SPEC_FULL.md:
// AUTO computes the bound from what was actually emitted, NOSET leaves
// whatever bound was already in force.
func programsizeFrom(line Line) (Programsize, error) {
	if len(line.DirArgs) != 1 {
		return Programsize{}, errInvalidDirectiveArgument(line.Position, "*PROGRAMSIZE", "expected one argument")
	}
	arg := line.DirArgs[0]
	if arg.Kind == OperandIdentifier {
		switch arg.Ident {
		case "NOSET":
			return Programsize{Kind: ProgramsizeNotSet}, nil
		case "AUTO":
			return Programsize{Kind: ProgramsizeAuto}, nil
		}
	}
	if arg.Kind == OperandImmediate {
		return Programsize{Kind: ProgramsizeExplicit, Value: uint16(arg.Value)}, nil
	}
	return Programsize{}, errInvalidDirectiveArgument(line.Position, "*PROGRAMSIZE", "expected a byte count, AUTO, or NOSET")
}
