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

// Package bus implements the Minirechner 2a's 256-byte address space:
// RAM below 0xF0, the MR2DA2 extension board at 0xF0-0xF3, the interrupt
// control unit at 0xF9, and a four-byte input register / two-byte output
// register filling out the top of the space. The region layout is
// grounded in original_source/src/machine/bus.rs's address table.
package bus

import (
	"github.com/minirechner/mr2a/pkg/board"
	"github.com/minirechner/mr2a/pkg/interrupt"
)

const ramSize = 0xF0

// Bus owns the machine's entire addressable memory and routes every
// read/write by address region, the same dispatch shape as its grounding
// source's Bus::read/Bus::write.
type Bus struct {
	ram        [ramSize]byte
	Board      *board.Board
	Interrupts *interrupt.Controller
	inputReg   [4]byte
	outputReg  [2]byte
}

// New returns a Bus with zeroed RAM wired to a fresh board and interrupt
// controller.
func New() *Bus {
	return &Bus{
		Board:      board.New(),
		Interrupts: interrupt.New(),
	}
}

// Reset clears the output registers only, mirroring the grounding
// source's Bus::reset: RAM and the input register survive a reset because
// they represent loaded program state and external signals, not machine
// state.
func (b *Bus) Reset() {
	b.outputReg = [2]byte{}
}

// Read returns the byte at addr, dispatching to RAM, the board, the
// interrupt controller, or the input register depending on region.
func (b *Bus) Read(addr byte) byte {
	switch {
	case addr < ramSize:
		return b.ram[addr]
	case addr >= 0xF0 && addr <= 0xF3:
		return b.Board.Read(addr)
	case addr == 0xF9:
		return b.Interrupts.Read()
	case addr >= 0xFC:
		return b.inputReg[addr-0xFC]
	default:
		return 0
	}
}

// Write stores value at addr, dispatching the same way Read does. Writes
// to 0xFE/0xFF land in the output register; everything else below 0xF0
// lands in RAM.
func (b *Bus) Write(addr, value byte) {
	switch {
	case addr < ramSize:
		b.ram[addr] = value
	case addr >= 0xF0 && addr <= 0xF3:
		b.Board.Write(addr, value)
	case addr == 0xF9:
		b.Interrupts.Write(value)
	case addr == 0xFE:
		b.outputReg[0] = value
	case addr == 0xFF:
		b.outputReg[1] = value
	}
}

// LoadImage copies a program image into the bottom of RAM, as if the
// machine had just been flashed with it.
func (b *Bus) LoadImage(image []byte) {
	copy(b.ram[:], image)
}

// SetInput drives one of the four memory-mapped input lines (0xFC-0xFF),
// feeding the key-edge interrupt detector when the 0xFC line (the
// keyboard-style input, per DESIGN.md) changes.
func (b *Bus) SetInput(index int, value byte) {
	b.inputReg[index] = value
	if index == 0 {
		b.Interrupts.NotifyKeyInput(value)
	}
}

// SetUIOInput drives the three externally sensed UIO pins as one bit
// mask, updating the board's sensed input and feeding its edge/level
// interrupt latch the same way SetInput feeds the key-edge detector.
func (b *Bus) SetUIOInput(value byte) {
	previous := b.Board.UIOIn
	b.Board.UIOIn = value
	b.Board.NotifyUIOChange(previous, value)
}

// SyncBoardInterrupt folds the extension board's latched interrupt
// flip-flop into the interrupt controller's pending surface. The clock
// stepper calls this once per instruction, in the read half-cycle, at the
// same opcode-fetch boundary it checks Interrupts.Pending() at.
func (b *Bus) SyncBoardInterrupt() {
	b.Interrupts.NotifyBoardInterrupt(b.Board.InterruptFlipFlopSet())
}

// OutputFE and OutputFF read back the two output-register bytes a host
// program uses to observe what the machine has written out.
func (b *Bus) OutputFE() byte { return b.outputReg[0] }
func (b *Bus) OutputFF() byte { return b.outputReg[1] }

// RAMSnapshot returns a copy of RAM, safe for a caller to retain without
// aliasing live machine state.
func (b *Bus) RAMSnapshot() [ramSize]byte {
	return b.ram
}
