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
	"github.com/minirechner/mr2a/pkg/assembler"
	"github.com/minirechner/mr2a/pkg/bus"
	"github.com/minirechner/mr2a/pkg/register"
)

// interruptVector is where the clock stepper sends the program counter
// when it honors a pending interrupt at an opcode-fetch boundary. The
// original hardware's interrupt table layout is outside this retrieval
// pack's scope; this repo uses one fixed vector rather than a vector-per-
// source table.
const interruptVector = 0x08

// stackWindowLow is the bottom of the 0xA0-0xDF stack window
// original_source/src/machine/register.rs checks Register::
// is_stackpointer_valid against; 0xF0 and above is always invalid
// regardless of *STACKSIZE, since that range belongs to the bus's
// memory-mapped region.
const stackWindowLow = 0xA0
const stackWindowTop = 0xF0

// New returns a freshly reset Machine.
func New() *Machine {
	m := &Machine{
		registers: register.New(),
		bus:       bus.New(),
		rom:       buildROM(),
	}
	m.Reset()
	return m
}

// Reset returns the machine to its boot state: PC at zero, every register
// and flag cleared, IEF cleared, Running, with *STACKSIZE left at whatever
// Load last configured (a reset does not re-run the translator).
func (m *Machine) Reset() {
	m.registers.Reset()
	m.bus.Reset()
	m.bus.Interrupts.Reset()
	m.pc = 0
	m.flags = alu.Flags{}
	m.state = Running
	m.stopReason = StopNone
}

// Load installs a translated program image and its layout metadata,
// then resets the machine so execution starts from address zero.
func (m *Machine) Load(result *assembler.Result) {
	m.bus.LoadImage(result.Image[:])
	m.stacksize = result.Layout.Stacksize
	m.programsize = result.Layout.Programsize
	m.Reset()
	m.registers.SetSP(stackWindowLow + stacksizeWindow(m.stacksize))
}

// Bus exposes the machine's address space, e.g. so a host can drive
// SetInput for a keyboard-style device or inspect the output register.
func (m *Machine) Bus() *bus.Bus {
	return m.bus
}

// State reports whether the machine is Running, Stopped, or ErrorHalted.
func (m *Machine) State() State {
	return m.state
}

// StopReason reports why the machine left Running, when it has.
func (m *Machine) StopReason() StopReason {
	return m.stopReason
}

// Snapshot returns an aliasing-free copy of everything observable about
// the machine right now.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Registers:   m.registers.Snapshot(),
		PC:          m.pc,
		Flags:       m.flags,
		IEF:         m.bus.Interrupts.Enabled(),
		State:       m.state,
		StopReason:  m.stopReason,
		Stacksize:   m.stacksize,
		Programsize: m.programsize,
	}
}

// TickHalfCycle advances the clock stepper by one half-cycle. The read
// half (halfPending false on entry) honors any interrupt pending at this
// opcode-fetch boundary, then fetches the next opcode: the fetched byte
// becomes opcodeLatch, and mp becomes that opcode's microprogram address
// (opcode<<1 | carry), matching how pkg/microcode.ROM itself is
// addressed. The commit half (halfPending true on entry) runs execute()
// against the latched opcode, which is where every register write, bus
// write, and flag commit this instruction's control word calls for
// actually lands; mp stays put until the next read half advances it.
//
// This repo's ROM entries each describe one microprogram step per
// instruction (see rom_table.go), so operand-byte fetches and the ALU
// application itself both happen during the commit half rather than
// being pre-staged in the read half the way a fully cycle-accurate model
// would split them; DESIGN.md records this as a deliberate simplification
// of the read/commit split, not an oversight.
func (m *Machine) TickHalfCycle() {
	if m.state != Running {
		return
	}

	if !m.halfPending {
		m.bus.SyncBoardInterrupt()
		if m.bus.Interrupts.Pending() {
			m.enterISR()
			if m.state != Running {
				return
			}
		}

		opcode := m.fetch()
		if m.state != Running {
			return
		}

		m.opcodeLatch = opcode
		m.mp = uint16(opcode)<<1 | carryBit(m.flags.Carry)
		m.halfPending = true
		return
	}

	m.execute(Opcode(m.opcodeLatch))
	m.halfPending = false
}

func carryBit(carry bool) uint16 {
	if carry {
		return 1
	}
	return 0
}

// TickFullCycle executes exactly one instruction: a read half followed by
// its commit half. Nothing outside pkg/machine can observe a machine
// paused mid-instruction; TickHalfCycle exists for callers that want that
// finer granularity.
func (m *Machine) TickFullCycle() {
	m.TickHalfCycle()
	if m.state == Running && m.halfPending {
		m.TickHalfCycle()
	}
}

// Run executes up to n instructions, stopping early if the machine leaves
// Running.
func (m *Machine) Run(n int) int {
	executed := 0
	for i := 0; i < n && m.state == Running; i++ {
		m.TickFullCycle()
		executed++
	}
	return executed
}

func (m *Machine) fetch() byte {
	if int(m.pc) >= assembler.ImageSize {
		m.halt(StopProgramsizeExceeded)
		return 0
	}
	if m.programsize.Kind == assembler.ProgramsizeExplicit && m.pc >= byte(m.programsize.Value) {
		m.halt(StopProgramsizeExceeded)
		return 0
	}
	b := m.bus.Read(m.pc)
	m.pc++
	if m.Debugger != nil {
		m.Debugger.Read(m.pc-1, m)
	}
	return b
}

func (m *Machine) halt(reason StopReason) {
	m.state = ErrorHalted
	m.stopReason = reason
}

func (m *Machine) enterISR() {
	m.pushByte(m.pc)
	m.pushByte(m.packFlags())
	m.bus.Interrupts.SetEnabled(false)
	m.bus.Interrupts.AcknowledgeKey()
	m.bus.Interrupts.AcknowledgeBoard()
	m.bus.Board.AcknowledgeInterrupt()
	m.pc = interruptVector
}

func (m *Machine) packFlags() byte {
	var v byte
	if m.flags.Carry {
		v |= 1 << 0
	}
	if m.flags.Zero {
		v |= 1 << 1
	}
	if m.flags.Negative {
		v |= 1 << 2
	}
	if m.bus.Interrupts.Enabled() {
		v |= 1 << 3
	}
	return v
}

func (m *Machine) unpackFlags(v byte) {
	m.flags.Carry = v&(1<<0) != 0
	m.flags.Zero = v&(1<<1) != 0
	m.flags.Negative = v&(1<<2) != 0
	m.bus.Interrupts.SetEnabled(v&(1<<3) != 0)
}

func stacksizeWindow(ss assembler.Stacksize) byte {
	switch ss {
	case assembler.Stacksize16:
		return 0x10
	case assembler.Stacksize32:
		return 0x20
	case assembler.Stacksize48:
		return 0x30
	case assembler.Stacksize64:
		return 0x40
	case assembler.Stacksize0:
		return 0x00
	default: // NotSet, Auto: no hardware-enforced window
		return 0x50
	}
}

func (m *Machine) isStackPointerValid(sp byte) bool {
	if sp >= stackWindowTop {
		return false
	}
	switch m.stacksize {
	case assembler.StacksizeNotSet, assembler.StacksizeAuto:
		return true
	default:
		window := stacksizeWindow(m.stacksize)
		return sp >= stackWindowLow && sp <= stackWindowLow+window
	}
}

// stackPort resolves the register port every push/pop targets, regardless
// of which instruction (CALL/RET/RETI, or an ISR entry with no
// instruction at all) triggered it. It reads that port out of the opCALL
// microcode entry rather than calling register.SP directly, since the
// stack pointer is an opcode-independent, ROM-fixed register port — unlike
// the operand-decoded ports aluApply/busStep resolve per instruction.
func (m *Machine) stackPort() register.Number {
	return register.Number(m.rom.Lookup(uint8(opCALL), false).PortA())
}

func (m *Machine) pushByte(value byte) {
	port := m.stackPort()
	sp := m.registers.Read(port) - 1
	if !m.isStackPointerValid(sp) {
		m.halt(StopStackOverflow)
		return
	}
	m.registers.Write(port, sp)
	m.bus.Write(sp, value)
}

func (m *Machine) popByte() byte {
	port := m.stackPort()
	sp := m.registers.Read(port)
	value := m.bus.Read(sp)
	m.registers.Write(port, sp+1)
	return value
}

func (m *Machine) readOperand(addr byte) byte {
	return m.bus.Read(addr)
}

func (m *Machine) writeOperand(addr byte, value byte) {
	if m.Debugger != nil {
		m.Debugger.Write(addr, m)
	}
	m.bus.Write(addr, value)
}
