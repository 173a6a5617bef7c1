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

// Package microcode models the Minirechner 2a's microprogram ROM: a
// 512-entry table of control words, each one read and decoded into the
// named signals that drive one half-cycle of execution.
//
// The literal 512-entry content this ROM ships with on real hardware is
// generated, at original_source/'s build time, from a data file
// (microprogram_ram_content.rs) that is not present anywhere in this
// repository's retrieval pack — see emulator-2a-lib/src/machine/
// microprogram_ram.rs, which include!()s it. Build in rom.go therefore
// synthesizes an equivalent table from documented per-instruction
// semantics instead of fabricating a byte-for-byte port of data this repo
// was never given; see DESIGN.md.
package microcode

// Word is one control word, held in a plain integer rather than a
// declaration-order-dependent bitfield struct so its representation does
// not depend on this file's own field layout. With the widened port fields
// below and the separate write-port field, its signals occupy bits 0-27
// (28 bits), not 25.
type Word uint32

// Bit positions of the named control signals a control word carries.
// MRGAA/MRGAB's port width is widened from a compressed 2-bit form to 3
// bits so that all eight registers can be addressed directly, instead of
// relying on the
// opcode-bit aliasing trick original_source/'s
// MRGAA3-0/MRGAB3-0 fields use. See DESIGN.md's Open Question resolution
// on port-select field width.
const (
	bitMAC0 = iota
	bitMAC1
	bitMAC2
	bitMAC3

	bitALUOp0 // A3-0: 4-bit ALU operation select
	bitALUOp1
	bitALUOp2
	bitALUOp3

	bitCarryInSelect // A8: select carry-in from flags vs. forced

	bitOperandB0 // A7-5: ALU operand-B source select
	bitOperandB1
	bitOperandB2

	bitMALUS0 // MALUS0-1
	bitMALUS1

	bitPortA0 // MRGAA: register read port A (widened to 3 bits)
	bitPortA1
	bitPortA2

	bitPortB0 // MRGAB: register read port B (widened to 3 bits)
	bitPortB1
	bitPortB2

	bitWritePort0 // MRGWE target port, shares width with MRGAA/MRGAB
	bitWritePort1
	bitWritePort2

	bitWriteEnable // MRGWE
	bitWriteSelectB // MRGWS: write-back source is the bus byte, not the ALU result

	bitFlagCommit // MCHFLG

	bitBusEnable // BUSEN
	bitBusWrite  // BUSWR
)

const fieldWidth3 = 0b111

func getField(w Word, shift, width uint) uint32 {
	return uint32(w>>shift) & uint32((1<<width)-1)
}

func setField(w Word, shift, width uint, value uint32) Word {
	mask := Word(((1 << width) - 1) << shift)
	return (w &^ mask) | (Word(value)<<shift)&mask
}

func (w Word) ALUOp() uint8      { return uint8(getField(w, bitALUOp0, 4)) }
func (w Word) CarryInSelect() bool { return getField(w, bitCarryInSelect, 1) != 0 }
func (w Word) OperandBSelect() uint8 { return uint8(getField(w, bitOperandB0, 3)) }
func (w Word) PortA() uint8      { return uint8(getField(w, bitPortA0, 3)) }
func (w Word) PortB() uint8      { return uint8(getField(w, bitPortB0, 3)) }
func (w Word) WritePort() uint8  { return uint8(getField(w, bitWritePort0, 3)) }
func (w Word) WriteEnable() bool { return getField(w, bitWriteEnable, 1) != 0 }
func (w Word) WriteSelectB() bool { return getField(w, bitWriteSelectB, 1) != 0 }
func (w Word) FlagCommit() bool  { return getField(w, bitFlagCommit, 1) != 0 }
func (w Word) BusEnable() bool   { return getField(w, bitBusEnable, 1) != 0 }
func (w Word) BusWrite() bool    { return getField(w, bitBusWrite, 1) != 0 }
func (w Word) MAC() uint8        { return uint8(getField(w, bitMAC0, 4)) }

func withALUOp(w Word, op uint8) Word          { return setField(w, bitALUOp0, 4, uint32(op)) }
func withCarryInSelect(w Word, v bool) Word    { return setField(w, bitCarryInSelect, 1, b2u(v)) }
func withOperandBSelect(w Word, v uint8) Word  { return setField(w, bitOperandB0, 3, uint32(v)) }
func withPortA(w Word, v uint8) Word           { return setField(w, bitPortA0, 3, uint32(v)) }
func withPortB(w Word, v uint8) Word           { return setField(w, bitPortB0, 3, uint32(v)) }
func withWritePort(w Word, v uint8) Word       { return setField(w, bitWritePort0, 3, uint32(v)) }
func withWriteEnable(w Word, v bool) Word      { return setField(w, bitWriteEnable, 1, b2u(v)) }
func withWriteSelectB(w Word, v bool) Word     { return setField(w, bitWriteSelectB, 1, b2u(v)) }
func withFlagCommit(w Word, v bool) Word       { return setField(w, bitFlagCommit, 1, b2u(v)) }
func withBusEnable(w Word, v bool) Word        { return setField(w, bitBusEnable, 1, b2u(v)) }
func withBusWrite(w Word, v bool) Word         { return setField(w, bitBusWrite, 1, b2u(v)) }
func withMAC(w Word, v uint8) Word             { return setField(w, bitMAC0, 4, uint32(v)) }

// WithPorts returns a copy of w with its register-port fields set to the
// concrete register numbers this cycle's decoded instruction operands
// name. The ROM lookup supplies every other control signal (ALU op,
// write-enable, bus enable, flag commit, next-address mode) purely from
// the opcode; WithPorts is the one place pkg/machine folds in the operand
// bytes the ROM itself has no opcode-indexed slot for, the same way a
// real decode stage latches instruction-register bits alongside the
// control-ROM output before driving the datapath for that cycle.
func (w Word) WithPorts(portA, portB, writePort uint8) Word {
	w = withPortA(w, portA)
	w = withPortB(w, portB)
	w = withWritePort(w, writePort)
	return w
}

func b2u(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
