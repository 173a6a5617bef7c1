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

// Package register implements the Minirechner 2a's eight-register bank:
// two banks of four (R0-R3, R4-R7), addressed by the 3-bit port selectors
// the microcode ROM's control word carries.
package register

// Number identifies one of the eight registers. SP is R4: bank 2
// ("R4-R7"), index 0 within that bank.
type Number uint8

const (
	R0 Number = iota
	R1
	R2
	R3
	R4 // stack pointer
	R5
	R6
	R7
)

const SP = R4

// Bank is a fixed-size array of eight bytes, never a pointer graph, so a
// copy of a Bank can be handed to an observer without aliasing the live
// machine state.
type Bank [8]byte

// Block is the register block. It exposes plain Go methods rather than the
// microcode-signal-driven addressing its grounding source uses directly,
// since the port selection itself is decoded one layer up in pkg/machine
// from the microcode word; Block only needs to know the final 3-bit port
// number.
type Block struct {
	content Bank
}

// New returns a zeroed register block.
func New() *Block {
	return &Block{}
}

// Reset zeroes every register.
func (b *Block) Reset() {
	b.content = Bank{}
}

// Read returns the value stored in the given register.
func (b *Block) Read(n Number) byte {
	return b.content[n]
}

// Write stores value in the given register.
func (b *Block) Write(n Number, value byte) {
	b.content[n] = value
}

// Snapshot returns a copy of the register contents, safe for a caller to
// retain without aliasing live machine state.
func (b *Block) Snapshot() Bank {
	return b.content
}

// SPValue is a convenience accessor for the stack pointer register.
func (b *Block) SPValue() byte {
	return b.content[SP]
}

// SetSP is a convenience setter for the stack pointer register.
func (b *Block) SetSP(value byte) {
	b.content[SP] = value
}
