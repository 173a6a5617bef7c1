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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordFieldRoundTrip(t *testing.T) {
	var w Word
	w = withALUOp(w, 0b0110)
	w = withPortA(w, 5)
	w = withPortB(w, 2)
	w = withWritePort(w, 7)
	w = withWriteEnable(w, true)
	w = withFlagCommit(w, true)
	w = withCarryInSelect(w, true)

	assert.Equal(t, uint8(0b0110), w.ALUOp())
	assert.Equal(t, uint8(5), w.PortA())
	assert.Equal(t, uint8(2), w.PortB())
	assert.Equal(t, uint8(7), w.WritePort())
	assert.True(t, w.WriteEnable())
	assert.True(t, w.FlagCommit())
	assert.True(t, w.CarryInSelect())
}

func TestBuildLookupByOpcodeAndCarry(t *testing.T) {
	rom := Build([]ALUEntry{
		{Opcode: 42, Op: 6, PortA: 1, PortB: 2, WritePort: 1, WriteEnable: true, UseCarryFlag: true, FlagCommit: true},
	})
	withCarry := rom.Lookup(42, true)
	withoutCarry := rom.Lookup(42, false)

	assert.True(t, withCarry.CarryInSelect())
	assert.False(t, withoutCarry.CarryInSelect())
	assert.True(t, rom.Configured(42))
	assert.False(t, rom.Configured(41))
}

func TestUnconfiguredOpcodeIsInert(t *testing.T) {
	rom := Build(nil)
	w := rom.Lookup(0, false)
	assert.False(t, w.WriteEnable())
}

func TestNextAddressModes(t *testing.T) {
	var jump Word
	jump = withMAC(jump, 1)
	next, fetch := NextAddress(jump, 10, 99, false)
	assert.Equal(t, uint16(99), next)
	assert.False(t, fetch)

	var onFlag Word
	onFlag = withMAC(onFlag, 2)
	next, _ = NextAddress(onFlag, 10, 99, true)
	assert.Equal(t, uint16(99), next)
	next, _ = NextAddress(onFlag, 10, 99, false)
	assert.Equal(t, uint16(11), next)

	var fetchWord Word
	fetchWord = withMAC(fetchWord, 4)
	_, fetch = NextAddress(fetchWord, 10, 99, false)
	assert.True(t, fetch)

	var plain Word
	next, _ = NextAddress(plain, 10, 99, false)
	assert.Equal(t, uint16(11), next)
}
