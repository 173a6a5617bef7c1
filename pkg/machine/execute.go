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

import (
	"github.com/minirechner/mr2a/pkg/alu"
	"github.com/minirechner/mr2a/pkg/microcode"
	"github.com/minirechner/mr2a/pkg/register"
)

// execute decodes and runs one instruction, fetching any operand bytes it
// needs from the bytes immediately following the opcode. Any byte that
// isn't one of the 53 opcodes this repo's translator ever emits halts the
// machine with StopIllegalOpcode.
func (m *Machine) execute(op Opcode) {
	if m.Debugger != nil {
		m.Debugger.Step(m)
	}

	switch op {
	case opNOP:

	case opEI:
		m.bus.Interrupts.SetEnabled(true)
	case opDI:
		m.bus.Interrupts.SetEnabled(false)
	case opSTOP:
		m.state = Stopped
		m.stopReason = StopInstruction

	case opRET:
		m.pc = m.popByte()
	case opRETI:
		m.unpackFlags(m.popByte())
		m.pc = m.popByte()
	case opCALL:
		target := m.fetch()
		m.pushByte(m.pc)
		m.pc = target

	case opJR:
		m.jumpIf(op, true)
	case opJZS:
		m.jumpIf(op, m.flags.Zero)
	case opJZC:
		m.jumpIf(op, m.flags.Zero)
	case opJCS:
		m.jumpIf(op, m.flags.Carry)
	case opJCC:
		m.jumpIf(op, m.flags.Carry)
	case opJNS:
		m.jumpIf(op, m.flags.Negative)
	case opJNC:
		m.jumpIf(op, m.flags.Negative)

	case opLD:
		reg := register.Number(m.fetch())
		addr := m.fetch()
		m.busStep(op, reg, addr)
	case opST:
		addr := m.fetch()
		reg := register.Number(m.fetch())
		m.busStep(op, reg, addr)
	case opLDSP:
		m.registers.SetSP(m.fetch())

	case opMOV_RR:
		packed := m.fetch()
		dst, src := register.Number(packed>>4), register.Number(packed&0x0F)
		m.registers.Write(dst, m.registers.Read(src))
	case opMOV_RI:
		reg := register.Number(m.fetch())
		m.registers.Write(reg, m.fetch())
	case opMOV_RP:
		reg := register.Number(m.fetch())
		addr := m.fetch()
		m.busStep(op, reg, addr)
	case opMOV_PR:
		addr := m.fetch()
		reg := register.Number(m.fetch())
		m.busStep(op, reg, addr)
	case opMOV_PP:
		dstAddr := m.fetch()
		srcAddr := m.fetch()
		m.writeOperand(dstAddr, m.readOperand(srcAddr))
	case opMOV_PI:
		addr := m.fetch()
		m.writeOperand(addr, m.fetch())

	case opADD_RR, opADC_RR, opSUB_RR, opSBC_RR, opCMP_RR:
		packed := m.fetch()
		m.aluRegReg(op, register.Number(packed>>4), register.Number(packed&0x0F))
	case opADD_RI, opADC_RI, opSUB_RI, opSBC_RI, opCMP_RI:
		reg := register.Number(m.fetch())
		imm := m.fetch()
		m.aluRegImm(op, reg, imm)

	case opAND_RR, opOR_RR, opXOR_RR:
		packed := m.fetch()
		m.logicRegReg(op, register.Number(packed>>4), register.Number(packed&0x0F))
	case opAND_RI, opOR_RI, opXOR_RI:
		reg := register.Number(m.fetch())
		imm := m.fetch()
		m.logicRegImm(op, reg, imm)

	case opTST, opINC, opDEC, opCLR, opNOT, opSHL, opSHR, opASR:
		reg := register.Number(m.fetch())
		m.aluUnary(op, reg)

	case opBITS_R, opBITC_R, opBITT_R:
		reg := register.Number(m.fetch())
		mask := m.fetch()
		m.bitOpRegister(op, reg, mask)
	case opBITS_P, opBITC_P, opBITT_P:
		addr := m.fetch()
		mask := m.fetch()
		m.bitOpIndirect(op, addr, mask)

	default:
		m.halt(StopIllegalOpcode)
	}
}

// jumpIf resolves one conditional (or unconditional) jump through the
// microcode ROM's MAC field instead of an ad hoc if/else: the entry
// registered for op in rom_table.go names AddressJump, AddressJumpOnFlag,
// or AddressJumpOnNotFlag, and NextAddress decides whether the fetched
// target is taken from that mode and flag alone. current is tagged with
// bit 8 so a not-taken current+1 can never be mistaken for a taken jump
// landing on the same byte value as the machine's own post-fetch pc.
func (m *Machine) jumpIf(op Opcode, flag bool) {
	target := m.fetch()
	if !m.rom.Configured(uint8(op)) {
		m.halt(StopIllegalOpcode)
		return
	}
	w := m.rom.Lookup(uint8(op), m.flags.Carry)
	current := uint16(m.pc) | 0x100
	next, _ := microcode.NextAddress(w, current, uint16(target), flag)
	if next <= 0xFF {
		m.pc = byte(next)
	}
}

// busStep runs the bus-facing register-move family (LD/MOV_RP read a
// register from the bus, ST/MOV_PR write one out) through the same
// microcode ROM lookup the ALU family uses: BusEnable/BusWrite pick the
// direction, and WriteSelectB marks that a register write-back (when
// WriteEnable is set) sources the bus byte rather than an ALU result.
func (m *Machine) busStep(op Opcode, reg register.Number, addr byte) {
	if !m.rom.Configured(uint8(op)) {
		m.halt(StopIllegalOpcode)
		return
	}
	w := m.rom.Lookup(uint8(op), m.flags.Carry).WithPorts(uint8(reg), 0, uint8(reg))
	if !w.BusEnable() {
		return
	}
	if w.BusWrite() {
		m.writeOperand(addr, m.registers.Read(register.Number(w.PortA())))
		return
	}
	value := m.readOperand(addr)
	if w.WriteEnable() && w.WriteSelectB() {
		m.registers.Write(register.Number(w.WritePort()), value)
	}
}

// aluRegReg runs the add/subtract/compare family through the microcode
// ROM: the control word it looks up supplies the ALU function, whether
// the incoming carry flag feeds the operation, whether the result commits
// to the register bank, and whether the flag register updates.
func (m *Machine) aluRegReg(op Opcode, dst, src register.Number) {
	m.aluApply(op, dst, src, 0, true)
}

func (m *Machine) aluRegImm(op Opcode, dst register.Number, imm byte) {
	m.aluApply(op, dst, dst, imm, false)
}

// aluApply merges the opcode-addressed ROM entry with this cycle's
// decoded register ports via WithPorts, then reads A (and B, when
// registerB is set — immediate forms pass B in directly instead) only
// through the merged word's PortA/PortB, so the same generic path drives
// every ALU-class opcode regardless of which registers or immediate an
// instruction names.
func (m *Machine) aluApply(op Opcode, dst, src register.Number, immediate byte, registerB bool) {
	if !m.rom.Configured(uint8(op)) {
		m.halt(StopIllegalOpcode)
		return
	}
	w := m.rom.Lookup(uint8(op), m.flags.Carry).WithPorts(uint8(dst), uint8(src), uint8(dst))
	a := m.registers.Read(register.Number(w.PortA()))
	b := immediate
	if registerB {
		b = m.registers.Read(register.Number(w.PortB()))
	}
	if isSubtractOpcode(op) {
		b = ^b
	}
	out := alu.Execute(alu.Input{A: a, B: b, CarryIn: m.flags.Carry, Select: alu.Op(w.ALUOp())})
	if w.WriteEnable() {
		m.registers.Write(register.Number(w.WritePort()), out.Result)
	}
	if w.FlagCommit() {
		m.flags = out.Flags
	}
}

func isSubtractOpcode(op Opcode) bool {
	switch op {
	case opSUB_RR, opSUB_RI, opSBC_RR, opSBC_RI, opCMP_RR, opCMP_RI, opDEC:
		return true
	default:
		return false
	}
}

// aluUnary runs the single-operand ALU family (TST/INC/DEC/CLR/NOT/SHL/
// SHR/ASR) through the same microcode ROM lookup as aluApply, with B
// wired to either the register itself (NOT, SHL) or a constant 1
// (INC/DEC).
func (m *Machine) aluUnary(op Opcode, reg register.Number) {
	switch op {
	case opINC, opDEC:
		m.aluApply(op, reg, reg, 1, false)
	default:
		// NOT/SHL/SHR/ASR/CLR/TST all read B from the same register as A;
		// reading it through PortB rather than re-passing A directly keeps
		// this on the same ROM-merged-port path aluRegReg uses.
		m.aluApply(op, reg, reg, 0, true)
	}
}

// logicRegReg and logicRegImm implement AND/OR/XOR directly with Go's
// bitwise operators rather than through the ALU ROM: the real Minirechner
// 2a ALU has no AND/OR/XOR function of its own, only NOR, and reaching a
// logical AND/OR/XOR result from repeated NOR applications is a multi-
// microstep sequence this machine's one-step-per-instruction model does
// not attempt. See DESIGN.md.
func (m *Machine) logicRegReg(op Opcode, dst, src register.Number) {
	m.logicApply(op, dst, m.registers.Read(dst), m.registers.Read(src))
}

func (m *Machine) logicRegImm(op Opcode, dst register.Number, imm byte) {
	m.logicApply(op, dst, m.registers.Read(dst), imm)
}

func (m *Machine) logicApply(op Opcode, dst register.Number, a, b byte) {
	var result byte
	switch op {
	case opAND_RR, opAND_RI:
		result = a & b
	case opOR_RR, opOR_RI:
		result = a | b
	case opXOR_RR, opXOR_RI:
		result = a ^ b
	}
	m.registers.Write(dst, result)
	m.flags = alu.Flags{
		Zero:     result == 0,
		Negative: result&0x80 != 0,
	}
}

// bitOpRegister and bitOpIndirect implement the BITS/BITC/BITT mask
// instructions directly, the same way the logical family does: set bits
// in the mask, clear bits in the mask, or test bits in the mask without
// writing back.
func (m *Machine) bitOpRegister(op Opcode, reg register.Number, mask byte) {
	v := m.registers.Read(reg)
	result, write := bitOpResult(op, v, mask)
	m.flags.Zero = result == 0
	m.flags.Negative = result&0x80 != 0
	if write {
		m.registers.Write(reg, result)
	}
}

func (m *Machine) bitOpIndirect(op Opcode, addr, mask byte) {
	v := m.readOperand(addr)
	result, write := bitOpResult(op, v, mask)
	m.flags.Zero = result == 0
	m.flags.Negative = result&0x80 != 0
	if write {
		m.writeOperand(addr, result)
	}
}

func bitOpResult(op Opcode, v, mask byte) (result byte, write bool) {
	switch op {
	case opBITS_R, opBITS_P:
		return v | mask, true
	case opBITC_R, opBITC_P:
		return v &^ mask, true
	case opBITT_R, opBITT_P:
		return v & mask, false
	}
	return v, false
}
