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

// Package machine implements the Minirechner 2a's datapath: the register
// block, ALU, flag register, bus, MR2DA2 extension board, interrupt
// control unit, and the microcode-driven clock stepper that ties them
// together into TickHalfCycle/TickFullCycle/Run operations.
package machine

import (
	"github.com/minirechner/mr2a/pkg/alu"
	"github.com/minirechner/mr2a/pkg/assembler"
	"github.com/minirechner/mr2a/pkg/bus"
	"github.com/minirechner/mr2a/pkg/microcode"
	"github.com/minirechner/mr2a/pkg/register"
)

// Debugger lets an embedding host observe every executed instruction,
// every instruction-stream byte fetch, and every write an instruction
// makes to a memory operand (stack pushes and pops, and data reads, are
// not reported) without the machine exposing any mutable internal state
// directly —
// a library-level observation hook, not the rendering or REPL that
// might consume it.
type Debugger interface {
	Step(m *Machine)
	Read(addr byte, m *Machine)
	Write(addr byte, m *Machine)
}

// Snapshot is an aliasing-free copy of everything observable about a
// Machine at one instant.
type Snapshot struct {
	Registers   register.Bank
	PC          byte
	Flags       alu.Flags
	IEF         bool
	State       State
	StopReason  StopReason
	Stacksize   assembler.Stacksize
	Programsize assembler.Programsize
}

// Machine is the whole Minirechner 2a datapath. It is single-threaded and
// synchronous: every exported method runs to completion before returning,
// there is no background goroutine, and nothing here reads the wall
// clock or any source of randomness.
type Machine struct {
	registers *register.Block
	bus       *bus.Bus
	rom       *microcode.ROM

	pc    byte
	flags alu.Flags

	// mp is the microprogram counter: the ROM address (opcode<<1|carry) of
	// the opcode TickHalfCycle's read half latched into opcodeLatch. halfPending
	// distinguishes "read half already ran, commit half still owed" from
	// "ready to fetch the next opcode" across two TickHalfCycle calls.
	mp          uint16
	opcodeLatch byte
	halfPending bool

	state       State
	stopReason  StopReason
	stacksize   assembler.Stacksize
	programsize assembler.Programsize

	Debugger Debugger
}
