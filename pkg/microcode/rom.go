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

package microcode

// Size is the number of entries in the microprogram ROM: 256 opcodes,
// each addressed twice over by one flag bit (the current carry flag),
// i.e. addressed by opcode<<1 | flag-slice.
const Size = 512

// ROM is the microprogram ROM: Size control words, indexed by opcode and
// the carry flag in force when that opcode's microcode step runs.
type ROM struct {
	words      [Size]Word
	configured [256]bool
}

// ALUEntry describes one opcode's ALU-class microcode: which ALU function
// it selects, which register ports feed it, and where its result is
// written back. Opcode values are supplied by the caller (pkg/machine
// owns the concrete opcode-to-meaning mapping) so this package stays
// free of any particular instruction set's numbering.
type ALUEntry struct {
	Opcode       uint8
	Op           uint8
	PortA        uint8
	PortB        uint8
	WritePort    uint8
	WriteEnable  bool
	UseCarryFlag bool
	FlagCommit   bool

	// BusEnable/BusWrite configure a non-ALU, bus-facing opcode (LD/ST and
	// the MOV_RP/MOV_PR family): BusEnable gates any bus access at all,
	// BusWrite selects write (register-to-bus) over read (bus-to-
	// register). WriteSelectB, reused from the register-write path, then
	// picks the bus-read byte over the ALU result as the write-back
	// source.
	BusEnable    bool
	BusWrite     bool
	WriteSelectB bool

	// MAC selects this opcode's next-microprogram-address mode. Entries
	// that leave it zero get AddressNext, the ROM's inert default; the
	// conditional/unconditional jump opcodes set it explicitly so
	// pkg/machine can resolve their branch through NextAddress instead of
	// an ad hoc if/else.
	MAC AddressMode
}

// Build synthesizes a ROM from a table of ALU-class entries. Opcodes not
// present in entries decode to the zero Word, whose ALUOp is OpADDH (0)
// with WriteEnable and FlagCommit both clear — inert, and reported as
// unconfigured by Configured regardless of which fields a real entry
// happens to leave at their zero value (BusEnable/WriteEnable/MAC can
// all legitimately be false on a configured entry, e.g. ST or CMP).
func Build(entries []ALUEntry) *ROM {
	rom := &ROM{}
	for _, e := range entries {
		rom.words[uint16(e.Opcode)<<1] = wordFor(e, false)
		rom.words[uint16(e.Opcode)<<1|1] = wordFor(e, true)
		rom.configured[e.Opcode] = true
	}
	return rom
}

func wordFor(e ALUEntry, carryFlag bool) Word {
	var w Word
	w = withALUOp(w, e.Op)
	w = withPortA(w, e.PortA)
	w = withPortB(w, e.PortB)
	w = withWritePort(w, e.WritePort)
	w = withWriteEnable(w, e.WriteEnable)
	w = withFlagCommit(w, e.FlagCommit)
	w = withCarryInSelect(w, e.UseCarryFlag && carryFlag)
	w = withBusEnable(w, e.BusEnable)
	w = withBusWrite(w, e.BusWrite)
	w = withWriteSelectB(w, e.WriteSelectB)
	w = withMAC(w, uint8(e.MAC))
	return w
}

// Lookup reads the control word for opcode under the given carry flag.
func (r *ROM) Lookup(opcode uint8, carryFlag bool) Word {
	bit := uint16(0)
	if carryFlag {
		bit = 1
	}
	return r.words[uint16(opcode)<<1|bit]
}

// Configured reports whether Build was given an entry for opcode, as
// opposed to opcode decoding to the ROM's zero-value default.
func (r *ROM) Configured(opcode uint8) bool {
	return r.configured[opcode]
}
