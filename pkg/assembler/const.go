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

const (
	TOKEN_NONE TokenType = iota
	TOKEN_IDENT
	TOKEN_DIRECTIVE
	TOKEN_LITERAL
	TOKEN_INDIRECT_OPEN
	TOKEN_INDIRECT_CLOSE
	TOKEN_COMMA
	TOKEN_LABEL
)

const (
	DIRECTIVE_INVALID DirectiveType = iota
	DIRECTIVE_ORG
	DIRECTIVE_DB
	DIRECTIVE_EQU
	DIRECTIVE_STACKSIZE
	DIRECTIVE_PROGRAMSIZE
)

const (
	MNEMONIC_INVALID MnemonicType = iota

	// Control/flow
	MNEMONIC_JR
	MNEMONIC_JZS
	MNEMONIC_JZC
	MNEMONIC_JCS
	MNEMONIC_JCC
	MNEMONIC_JNS
	MNEMONIC_JNC
	MNEMONIC_CALL
	MNEMONIC_RET
	MNEMONIC_RETI
	MNEMONIC_STOP
	MNEMONIC_EI
	MNEMONIC_DI
	MNEMONIC_NOP

	// Data move
	MNEMONIC_MOV
	MNEMONIC_LD
	MNEMONIC_ST
	MNEMONIC_LDSP

	// ALU
	MNEMONIC_ADD
	MNEMONIC_ADC
	MNEMONIC_SUB
	MNEMONIC_SBC
	MNEMONIC_AND
	MNEMONIC_OR
	MNEMONIC_XOR
	MNEMONIC_CMP
	MNEMONIC_TST
	MNEMONIC_INC
	MNEMONIC_DEC
	MNEMONIC_CLR
	MNEMONIC_NOT
	MNEMONIC_SHL
	MNEMONIC_SHR
	MNEMONIC_ASR

	// Bit ops
	MNEMONIC_BITS
	MNEMONIC_BITC
	MNEMONIC_BITT
)

// AddrMode distinguishes the operand shape a MOV-class instruction was
// assembled with: register-register, register-immediate,
// register-indirect, indirect-indirect, or indirect-immediate.
type AddrMode int

const (
	ModeNone AddrMode = iota
	ModeRegReg
	ModeRegImm
	ModeRegIndirect
	ModeIndirectReg
	ModeIndirectIndirect
	ModeIndirectImm
)

// Opcode is the first byte of an encoded instruction. The exact values
// are this implementation's own assignment: the original ROM-indexed
// opcode table ships as build-time-generated data that is not available
// here (see DESIGN.md), so these constants are invented rather than
// ported. They are, however, load-bearing: the translator emits them and
// pkg/machine's decoder switches on them, and both sides are kept in
// numeric sync by duplicating OP_* between pkg/assembler/const.go and
// pkg/machine/const.go rather than sharing one package between the two
// subsystems.
type Opcode uint8

const (
	OP_JR Opcode = iota + 1
	OP_JZS
	OP_JZC
	OP_JCS
	OP_JCC
	OP_JNS
	OP_JNC
	OP_CALL
	OP_RET
	OP_RETI
	OP_STOP
	OP_EI
	OP_DI
	OP_NOP

	OP_LD
	OP_ST
	OP_LDSP

	OP_MOV_RR
	OP_MOV_RI
	OP_MOV_RP
	OP_MOV_PR
	OP_MOV_PP
	OP_MOV_PI

	OP_ADD_RR
	OP_ADD_RI
	OP_ADC_RR
	OP_ADC_RI
	OP_SUB_RR
	OP_SUB_RI
	OP_SBC_RR
	OP_SBC_RI
	OP_AND_RR
	OP_AND_RI
	OP_OR_RR
	OP_OR_RI
	OP_XOR_RR
	OP_XOR_RI
	OP_CMP_RR
	OP_CMP_RI

	OP_TST
	OP_INC
	OP_DEC
	OP_CLR
	OP_NOT
	OP_SHL
	OP_SHR
	OP_ASR

	OP_BITS_R
	OP_BITS_P
	OP_BITC_R
	OP_BITC_P
	OP_BITT_R
	OP_BITT_P
)

// byteLength reports how many bytes the encoded instruction occupies:
// every instruction lowers to 1, 2, or 3 bytes.
func (op Opcode) byteLength() int {
	switch op {
	case OP_RET, OP_RETI, OP_STOP, OP_EI, OP_DI, OP_NOP:
		return 1
	case OP_JR, OP_JZS, OP_JZC, OP_JCS, OP_JCC, OP_JNS, OP_JNC, OP_CALL,
		OP_LDSP,
		OP_MOV_RR,
		OP_ADD_RR, OP_ADC_RR, OP_SUB_RR, OP_SBC_RR,
		OP_AND_RR, OP_OR_RR, OP_XOR_RR, OP_CMP_RR,
		OP_TST, OP_INC, OP_DEC, OP_CLR, OP_NOT, OP_SHL, OP_SHR, OP_ASR:
		return 2
	default:
		return 3
	}
}
