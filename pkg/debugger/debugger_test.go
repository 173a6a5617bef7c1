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

package debugger

import (
	"strings"
	"testing"

	"github.com/minirechner/mr2a/pkg/assembler"
	"github.com/minirechner/mr2a/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, src string) *machine.Machine {
	t.Helper()
	program, errs := assembler.Parse(strings.NewReader("#! mrasm\n" + src))
	require.Empty(t, errs)
	result, errs := assembler.Translate(program)
	require.Empty(t, errs)
	m := machine.New()
	m.Load(result)
	return m
}

func TestBreakpointFiresAtProgramCounter(t *testing.T) {
	m := load(t, `
NOP
NOP
STOP
`)

	var hit byte
	dbg := &Debugger{
		Breakpoints: []Breakpoint{{Addr: 2}},
		HandleBreak: func(d *Debugger, mc *machine.Machine) {
			hit = mc.Snapshot().PC - 1
		},
	}
	m.Debugger = dbg

	for i := 0; i < 10 && m.State() == machine.Running; i++ {
		m.TickFullCycle()
	}

	assert.Equal(t, byte(2), hit)
}

func TestWatchpointFiresOnMatchingWrite(t *testing.T) {
	m := load(t, `
LDSP 0xEF
MOV R0, 7
ST (0x50), R0
STOP
`)

	var written byte
	var wroteCount int
	dbg := &Debugger{
		Watchpoints: []Watchpoint{{Addr: 0x50, Type: WriteWatch}},
		HandleWrite: func(addr byte, d *Debugger, mc *machine.Machine) {
			written = addr
			wroteCount++
		},
	}
	m.Debugger = dbg

	m.Run(20)

	assert.Equal(t, byte(0x50), written)
	assert.Equal(t, 1, wroteCount)
}
