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

package machine

// Opcode values mirror pkg/assembler/const.go's Opcode constants exactly.
// The two packages duplicate this table independently rather than sharing
// it from one location: the decode side and the emit side describe the
// same instruction set but are kept as separate tables on purpose.
type Opcode uint8

const (
	opJR Opcode = iota + 1
	opJZS
	opJZC
	opJCS
	opJCC
	opJNS
	opJNC
	opCALL
	opRET
	opRETI
	opSTOP
	opEI
	opDI
	opNOP

	opLD
	opST
	opLDSP

	opMOV_RR
	opMOV_RI
	opMOV_RP
	opMOV_PR
	opMOV_PP
	opMOV_PI

	opADD_RR
	opADD_RI
	opADC_RR
	opADC_RI
	opSUB_RR
	opSUB_RI
	opSBC_RR
	opSBC_RI
	opAND_RR
	opAND_RI
	opOR_RR
	opOR_RI
	opXOR_RR
	opXOR_RI
	opCMP_RR
	opCMP_RI

	opTST
	opINC
	opDEC
	opCLR
	opNOT
	opSHL
	opSHR
	opASR

	opBITS_R
	opBITS_P
	opBITC_R
	opBITC_P
	opBITT_R
	opBITT_P
)

// State is the machine's run state: Running transitions to Stopped on
// STOP, to ErrorHalted on any runtime fault, and back to Running only
// via an explicit Reset.
type State int

const (
	Running State = iota
	Stopped
	ErrorHalted
)

// StopReason records why the machine left Running, for diagnostics.
type StopReason int

const (
	StopNone StopReason = iota
	StopInstruction
	StopIllegalOpcode
	StopStackOverflow
	StopProgramsizeExceeded
)
