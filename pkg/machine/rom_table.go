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

// buildROM configures the microprogram ROM with one entry per opcode whose
// execution genuinely routes through the sixteen-function ALU: the add/
// subtract/compare family, and the single-operand increment/decrement/
// clear/complement/shift family. AND/OR/XOR and the bit-mask instructions
// do not appear here — the real ALU has no direct AND/OR/XOR function, only
// NOR, and synthesizing the multi-cycle NOR-composition sequence those
// would need is out of scope for this machine's one-microstep-per-
// instruction model, so execute.go computes them directly instead. See
// DESIGN.md.
//
// Bus-facing register moves (LD/ST, MOV_RP/MOV_PR) and the conditional/
// unconditional jump opcodes get entries here too, even though neither
// family touches the ALU: BusEnable/BusWrite/WriteSelectB drive
// pkg/machine's busStep, and MAC drives jumpIf through
// microcode.NextAddress, so both families' control words are as real and
// ROM-resident as the ALU class's. MOV_PP/MOV_PI (bus-to-bus, immediate-
// to-bus) are left out: each needs two distinct bus addresses live in one
// micro-step, which this ROM's one-port-pair-per-opcode shape has no room
// for, so execute.go still drives those two directly.
func buildROM() *microcode.ROM {
	return microcode.Build([]microcode.ALUEntry{
		{Opcode: uint8(opADD_RR), Op: uint8(alu.OpADD), WriteEnable: true, FlagCommit: true},
		{Opcode: uint8(opADD_RI), Op: uint8(alu.OpADD), WriteEnable: true, FlagCommit: true},
		{Opcode: uint8(opADC_RR), Op: uint8(alu.OpADC), WriteEnable: true, FlagCommit: true, UseCarryFlag: true},
		{Opcode: uint8(opADC_RI), Op: uint8(alu.OpADC), WriteEnable: true, FlagCommit: true, UseCarryFlag: true},
		{Opcode: uint8(opSUB_RR), Op: uint8(alu.OpADDS), WriteEnable: true, FlagCommit: true},
		{Opcode: uint8(opSUB_RI), Op: uint8(alu.OpADDS), WriteEnable: true, FlagCommit: true},
		{Opcode: uint8(opSBC_RR), Op: uint8(alu.OpADCS), WriteEnable: true, FlagCommit: true, UseCarryFlag: true},
		{Opcode: uint8(opSBC_RI), Op: uint8(alu.OpADCS), WriteEnable: true, FlagCommit: true, UseCarryFlag: true},
		{Opcode: uint8(opCMP_RR), Op: uint8(alu.OpADDS), WriteEnable: false, FlagCommit: true},
		{Opcode: uint8(opCMP_RI), Op: uint8(alu.OpADDS), WriteEnable: false, FlagCommit: true},

		{Opcode: uint8(opTST), Op: uint8(alu.OpA), WriteEnable: false, FlagCommit: true},
		{Opcode: uint8(opINC), Op: uint8(alu.OpADD), WriteEnable: true, FlagCommit: true},
		{Opcode: uint8(opDEC), Op: uint8(alu.OpADDS), WriteEnable: true, FlagCommit: true},
		{Opcode: uint8(opCLR), Op: uint8(alu.OpZERO), WriteEnable: true, FlagCommit: true},
		{Opcode: uint8(opNOT), Op: uint8(alu.OpNOR), WriteEnable: true, FlagCommit: true},
		{Opcode: uint8(opSHL), Op: uint8(alu.OpADD), WriteEnable: true, FlagCommit: true},
		{Opcode: uint8(opSHR), Op: uint8(alu.OpLSR), WriteEnable: true, FlagCommit: true},
		{Opcode: uint8(opASR), Op: uint8(alu.OpASR), WriteEnable: true, FlagCommit: true},

		{Opcode: uint8(opLD), BusEnable: true, WriteEnable: true, WriteSelectB: true},
		{Opcode: uint8(opMOV_RP), BusEnable: true, WriteEnable: true, WriteSelectB: true},
		{Opcode: uint8(opST), BusEnable: true, BusWrite: true},
		{Opcode: uint8(opMOV_PR), BusEnable: true, BusWrite: true},

		{Opcode: uint8(opCALL), PortA: uint8(register.SP)},

		{Opcode: uint8(opJR), MAC: microcode.AddressJump},
		{Opcode: uint8(opJZS), MAC: microcode.AddressJumpOnFlag},
		{Opcode: uint8(opJZC), MAC: microcode.AddressJumpOnNotFlag},
		{Opcode: uint8(opJCS), MAC: microcode.AddressJumpOnFlag},
		{Opcode: uint8(opJCC), MAC: microcode.AddressJumpOnNotFlag},
		{Opcode: uint8(opJNS), MAC: microcode.AddressJumpOnFlag},
		{Opcode: uint8(opJNC), MAC: microcode.AddressJumpOnNotFlag},
	})
}
