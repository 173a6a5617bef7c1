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

import "github.com/minirechner/mr2a/pkg/encoding"

// opcodeFor classifies a parsed instruction line into the Opcode that will
// encode it. It only looks at operand *shape* (register vs. immediate vs.
// indirect) rather than resolved values, so it gives the same answer in
// both translator passes regardless of whether referenced identifiers have
// been resolved yet.
func opcodeFor(line Line) (Opcode, error) {
	ops := line.Operands

	jump := func(op Opcode) (Opcode, error) {
		if len(ops) != 1 {
			return 0, errInvalidOperands(line.Position, "expected a single target")
		}
		return op, nil
	}

	switch line.Mnemonic {
	case MNEMONIC_JR:
		return jump(OP_JR)
	case MNEMONIC_JZS:
		return jump(OP_JZS)
	case MNEMONIC_JZC:
		return jump(OP_JZC)
	case MNEMONIC_JCS:
		return jump(OP_JCS)
	case MNEMONIC_JCC:
		return jump(OP_JCC)
	case MNEMONIC_JNS:
		return jump(OP_JNS)
	case MNEMONIC_JNC:
		return jump(OP_JNC)
	case MNEMONIC_CALL:
		return jump(OP_CALL)

	case MNEMONIC_RET:
		return nullary(line, OP_RET)
	case MNEMONIC_RETI:
		return nullary(line, OP_RETI)
	case MNEMONIC_STOP:
		return nullary(line, OP_STOP)
	case MNEMONIC_EI:
		return nullary(line, OP_EI)
	case MNEMONIC_DI:
		return nullary(line, OP_DI)
	case MNEMONIC_NOP:
		return nullary(line, OP_NOP)

	case MNEMONIC_LD:
		if len(ops) != 2 || ops[0].Kind != OperandRegister || !ops[1].Indirect {
			return 0, errInvalidOperands(line.Position, "LD reg, (addr)")
		}
		return OP_LD, nil

	case MNEMONIC_ST:
		if len(ops) != 2 || !ops[0].Indirect || ops[1].Kind != OperandRegister {
			return 0, errInvalidOperands(line.Position, "ST (addr), reg")
		}
		return OP_ST, nil

	case MNEMONIC_LDSP:
		if len(ops) != 1 {
			return 0, errInvalidOperands(line.Position, "LDSP imm")
		}
		return OP_LDSP, nil

	case MNEMONIC_MOV:
		return movOpcode(line)

	case MNEMONIC_ADD:
		return aluOpcode(line, OP_ADD_RR, OP_ADD_RI)
	case MNEMONIC_ADC:
		return aluOpcode(line, OP_ADC_RR, OP_ADC_RI)
	case MNEMONIC_SUB:
		return aluOpcode(line, OP_SUB_RR, OP_SUB_RI)
	case MNEMONIC_SBC:
		return aluOpcode(line, OP_SBC_RR, OP_SBC_RI)
	case MNEMONIC_AND:
		return aluOpcode(line, OP_AND_RR, OP_AND_RI)
	case MNEMONIC_OR:
		return aluOpcode(line, OP_OR_RR, OP_OR_RI)
	case MNEMONIC_XOR:
		return aluOpcode(line, OP_XOR_RR, OP_XOR_RI)
	case MNEMONIC_CMP:
		return aluOpcode(line, OP_CMP_RR, OP_CMP_RI)

	case MNEMONIC_TST:
		return unaryRegister(line, OP_TST)
	case MNEMONIC_INC:
		return unaryRegister(line, OP_INC)
	case MNEMONIC_DEC:
		return unaryRegister(line, OP_DEC)
	case MNEMONIC_CLR:
		return unaryRegister(line, OP_CLR)
	case MNEMONIC_NOT:
		return unaryRegister(line, OP_NOT)
	case MNEMONIC_SHL:
		return unaryRegister(line, OP_SHL)
	case MNEMONIC_SHR:
		return unaryRegister(line, OP_SHR)
	case MNEMONIC_ASR:
		return unaryRegister(line, OP_ASR)

	case MNEMONIC_BITS:
		return bitOpcode(line, OP_BITS_R, OP_BITS_P)
	case MNEMONIC_BITC:
		return bitOpcode(line, OP_BITC_R, OP_BITC_P)
	case MNEMONIC_BITT:
		return bitOpcode(line, OP_BITT_R, OP_BITT_P)
	}

	return 0, errInvalidOperands(line.Position, "unrecognized mnemonic")
}

func nullary(line Line, op Opcode) (Opcode, error) {
	if len(line.Operands) != 0 {
		return 0, errInvalidOperands(line.Position, "expected no operands")
	}
	return op, nil
}

func unaryRegister(line Line, op Opcode) (Opcode, error) {
	if len(line.Operands) != 1 || line.Operands[0].Kind != OperandRegister {
		return 0, errInvalidOperands(line.Position, "expected a single register")
	}
	return op, nil
}

func movOpcode(line Line) (Opcode, error) {
	ops := line.Operands
	if len(ops) != 2 {
		return 0, errInvalidOperands(line.Position, "MOV dst, src")
	}
	dst, src := ops[0], ops[1]

	switch {
	case !dst.Indirect && dst.Kind == OperandRegister && !src.Indirect && src.Kind == OperandRegister:
		return OP_MOV_RR, nil
	case !dst.Indirect && dst.Kind == OperandRegister && !src.Indirect:
		return OP_MOV_RI, nil
	case !dst.Indirect && dst.Kind == OperandRegister && src.Indirect:
		return OP_MOV_RP, nil
	case dst.Indirect && !src.Indirect && src.Kind == OperandRegister:
		return OP_MOV_PR, nil
	case dst.Indirect && src.Indirect:
		return OP_MOV_PP, nil
	case dst.Indirect && !src.Indirect:
		return OP_MOV_PI, nil
	}

	return 0, errInvalidOperands(line.Position, "unsupported MOV addressing combination")
}

func aluOpcode(line Line, rr, ri Opcode) (Opcode, error) {
	ops := line.Operands
	if len(ops) != 2 || ops[0].Kind != OperandRegister {
		return 0, errInvalidOperands(line.Position, "expected dst register and a register or immediate source")
	}
	if ops[1].Kind == OperandRegister && !ops[1].Indirect {
		return rr, nil
	}
	return ri, nil
}

func bitOpcode(line Line, regOp, indirectOp Opcode) (Opcode, error) {
	ops := line.Operands
	if len(ops) != 2 {
		return 0, errInvalidOperands(line.Position, "expected dst and a mask immediate")
	}
	if ops[0].Indirect {
		return indirectOp, nil
	}
	if ops[0].Kind == OperandRegister {
		return regOp, nil
	}
	return 0, errInvalidOperands(line.Position, "dst must be a register or an indirect address")
}

// resolver resolves an Operand to its numeric value, following identifiers
// through the symbol table built by the first translator pass.
type resolver func(Operand) (int64, error)

// encodeInstruction lowers one instruction line to its final bytes. It is
// only ever called from the second pass, once every identifier in scope
// can be resolved.
func encodeInstruction(line Line, resolve resolver) ([]byte, error) {
	op, err := opcodeFor(line)
	if err != nil {
		return nil, err
	}
	ops := line.Operands

	byteOf := func(o Operand) (byte, error) {
		v, err := resolve(o)
		if err != nil {
			return 0, err
		}
		return encoding.ToByte(v), nil
	}

	switch op {
	case OP_RET, OP_RETI, OP_STOP, OP_EI, OP_DI, OP_NOP:
		return []byte{byte(op)}, nil

	case OP_JR, OP_JZS, OP_JZC, OP_JCS, OP_JCC, OP_JNS, OP_JNC, OP_CALL:
		target, err := byteOf(ops[0])
		if err != nil {
			return nil, err
		}
		return []byte{byte(op), target}, nil

	case OP_LD:
		addr, err := byteOf(ops[1])
		if err != nil {
			return nil, err
		}
		return []byte{byte(op), byte(ops[0].Register), addr}, nil

	case OP_ST:
		addr, err := byteOf(ops[0])
		if err != nil {
			return nil, err
		}
		return []byte{byte(op), addr, byte(ops[1].Register)}, nil

	case OP_LDSP:
		imm, err := byteOf(ops[0])
		if err != nil {
			return nil, err
		}
		return []byte{byte(op), imm}, nil

	case OP_MOV_RR:
		return []byte{byte(op), byte(ops[0].Register<<4 | ops[1].Register)}, nil

	case OP_MOV_RI:
		imm, err := byteOf(ops[1])
		if err != nil {
			return nil, err
		}
		return []byte{byte(op), byte(ops[0].Register), imm}, nil

	case OP_MOV_RP:
		addr, err := byteOf(ops[1])
		if err != nil {
			return nil, err
		}
		return []byte{byte(op), byte(ops[0].Register), addr}, nil

	case OP_MOV_PR:
		addr, err := byteOf(ops[0])
		if err != nil {
			return nil, err
		}
		return []byte{byte(op), addr, byte(ops[1].Register)}, nil

	case OP_MOV_PP:
		addr1, err := byteOf(ops[0])
		if err != nil {
			return nil, err
		}
		addr2, err := byteOf(ops[1])
		if err != nil {
			return nil, err
		}
		return []byte{byte(op), addr1, addr2}, nil

	case OP_MOV_PI:
		addr, err := byteOf(ops[0])
		if err != nil {
			return nil, err
		}
		imm, err := byteOf(ops[1])
		if err != nil {
			return nil, err
		}
		return []byte{byte(op), addr, imm}, nil

	case OP_ADD_RR, OP_ADC_RR, OP_SUB_RR, OP_SBC_RR, OP_AND_RR, OP_OR_RR, OP_XOR_RR, OP_CMP_RR:
		return []byte{byte(op), byte(ops[0].Register<<4 | ops[1].Register)}, nil

	case OP_ADD_RI, OP_ADC_RI, OP_SUB_RI, OP_SBC_RI, OP_AND_RI, OP_OR_RI, OP_XOR_RI, OP_CMP_RI:
		imm, err := byteOf(ops[1])
		if err != nil {
			return nil, err
		}
		return []byte{byte(op), byte(ops[0].Register), imm}, nil

	case OP_TST, OP_INC, OP_DEC, OP_CLR, OP_NOT, OP_SHL, OP_SHR, OP_ASR:
		return []byte{byte(op), byte(ops[0].Register)}, nil

	case OP_BITS_R, OP_BITC_R, OP_BITT_R:
		mask, err := byteOf(ops[1])
		if err != nil {
			return nil, err
		}
		return []byte{byte(op), byte(ops[0].Register), mask}, nil

	case OP_BITS_P, OP_BITC_P, OP_BITT_P:
		addr, err := byteOf(ops[0])
		if err != nil {
			return nil, err
		}
		mask, err := byteOf(ops[1])
		if err != nil {
			return nil, err
		}
		return []byte{byte(op), addr, mask}, nil
	}

	return nil, errInvalidOperands(line.Position, "unhandled opcode")
}
