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

// Package debugger implements the machine.Debugger hook: breakpoints on the
// program counter, read/write watchpoints on bus addresses, and source/
// memory dumps keyed off an assembler.SymTable. It is a library-level
// observation surface, not an interactive REPL — nothing here reads a
// terminal or parses CLI flags.
package debugger

import (
	"os"

	"github.com/minirechner/mr2a/pkg/assembler"
	"github.com/minirechner/mr2a/pkg/machine"
)

// WatchpointType selects which bus direction a Watchpoint fires on.
type WatchpointType uint

const (
	ReadWatch WatchpointType = iota
	WriteWatch
	ReadWriteWatch
)

// Watchpoint fires HandleRead/HandleWrite when addr is touched on the bus
// in a direction matching Type.
type Watchpoint struct {
	Addr byte
	Type WatchpointType
}

// Breakpoint fires HandleBreak when the program counter reaches Addr at an
// opcode-fetch boundary.
type Breakpoint struct {
	Addr byte
}

// Debugger implements machine.Debugger. It holds no machine state of its
// own beyond the breakpoint/watchpoint lists and the optional source/symbol
// pair used for PrintSource; everything it reports about the machine comes
// from the *machine.Machine handed to it on each call.
type Debugger struct {
	Break bool

	Breakpoints []Breakpoint
	Watchpoints []Watchpoint

	Source   *os.File
	SymTable *assembler.SymTable

	HandleBreak func(*Debugger, *machine.Machine)
	HandleRead  func(addr byte, dbg *Debugger, m *machine.Machine)
	HandleWrite func(addr byte, dbg *Debugger, m *machine.Machine)
}
