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
	"strings"
	"testing"

	"github.com/minirechner/mr2a/pkg/assembler"
	"github.com/minirechner/mr2a/pkg/register"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, src string) *Machine {
	t.Helper()
	program, errs := assembler.Parse(strings.NewReader("#! mrasm\n" + src))
	require.Empty(t, errs)
	result, errs := assembler.Translate(program)
	require.Empty(t, errs)
	m := New()
	m.Load(result)
	return m
}

func TestSimpleAdditionWritesOutputRegister(t *testing.T) {
	m := load(t, `
MOV R0, 5
MOV R1, 7
ADD R0, R1
ST (0xFE), R0
STOP
`)
	m.Run(10)

	assert.Equal(t, Stopped, m.State())
	assert.Equal(t, StopInstruction, m.StopReason())
	assert.Equal(t, byte(12), m.Bus().OutputFE())
}

func TestDefaultStackSizeOverflowsAfter16Calls(t *testing.T) {
	m := load(t, `
LOOP:
INC R0
CALL LOOP
`)
	m.Run(10000)

	assert.Equal(t, ErrorHalted, m.State())
	assert.Equal(t, StopStackOverflow, m.StopReason())
	// 16 CALLs fit in the default 16-byte stack window; the 17th push is
	// what trips the overflow, one instruction after R0 last incremented.
	assert.Equal(t, byte(17), m.Snapshot().Registers[register.R0])
}

func TestExplicitStacksize48OverflowsAfter48Calls(t *testing.T) {
	m := load(t, `
*STACKSIZE 48
LOOP:
INC R0
CALL LOOP
`)
	m.Run(10000)

	assert.Equal(t, ErrorHalted, m.State())
	assert.Equal(t, StopStackOverflow, m.StopReason())
	assert.Equal(t, byte(49), m.Snapshot().Registers[register.R0])
}

func TestIllegalOpcodeHalts(t *testing.T) {
	m := New()
	// Opcode 0 is never emitted by the translator; it decodes to nothing.
	m.Load(&assembler.Result{})
	m.Run(1)

	assert.Equal(t, ErrorHalted, m.State())
	assert.Equal(t, StopIllegalOpcode, m.StopReason())
}

func TestEquOverrideProducesIdenticalImageToLiteralValue(t *testing.T) {
	withEqu := load(t, `
.EQU LIMIT, 5
.EQU LIMIT, 9
MOV R0, LIMIT
STOP
`)
	withLiteral := load(t, `
MOV R0, 9
STOP
`)
	assert.Equal(t, withLiteral.bus.RAMSnapshot(), withEqu.bus.RAMSnapshot())
}

func TestKeyInterruptEntersISRAndReturns(t *testing.T) {
	m := load(t, `
JR MAIN
.ORG 0x08
RETI
MAIN:
EI
NOP
NOP
STOP
`)
	m.Bus().Write(0xF9, 0x01) // arm edge-triggered key interrupts (MICR)
	m.Run(2)
	m.bus.SetInput(0, 0x01)
	m.Run(5)

	assert.Equal(t, Stopped, m.Snapshot().State)
}

func TestStopInsideISRHaltsWithStopInstruction(t *testing.T) {
	m := load(t, `
JR MAIN
.ORG 0x08
STOP
MAIN:
EI
NOP
STOP
`)
	m.Bus().Write(0xF9, 0x01) // arm edge-triggered key interrupts (MICR)
	m.Run(2)
	m.bus.SetInput(0, 0x01)
	m.Run(3)

	assert.Equal(t, Stopped, m.State())
	assert.Equal(t, StopInstruction, m.StopReason())
}

func TestResetReturnsToRunningWithClearedState(t *testing.T) {
	m := load(t, `
MOV R0, 1
STOP
`)
	m.Run(5)
	require.Equal(t, Stopped, m.State())

	m.Reset()
	assert.Equal(t, Running, m.State())
	assert.Equal(t, byte(0), m.Snapshot().Registers[register.R0])
	assert.Equal(t, byte(0), m.Snapshot().PC)
}

func TestCmpDoesNotWriteBackButSetsFlags(t *testing.T) {
	m := load(t, `
MOV R0, 5
CMP R0, 5
STOP
`)
	m.Run(10)

	assert.Equal(t, byte(5), m.Snapshot().Registers[register.R0])
	assert.True(t, m.Snapshot().Flags.Zero)
}

func TestBitsSetsRequestedBitsWithoutDisturbingOthers(t *testing.T) {
	m := load(t, `
MOV R0, 0x0F
BITS R0, 0xF0
STOP
`)
	m.Run(10)

	assert.Equal(t, byte(0xFF), m.Snapshot().Registers[register.R0])
}
