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
	"bufio"
	"fmt"
	"os"

	"github.com/minirechner/mr2a/pkg/machine"
)

// Step is called by the machine at every opcode-fetch boundary (see
// pkg/machine/execute.go). It fires HandleBreak once if dbg.Break is
// already latched, or if the program counter matches a configured
// Breakpoint.
func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.Break {
		dbg.HandleBreak(dbg, mc)
		return
	}

	// Step fires after fetch has already advanced the PC past the opcode
	// byte it read, so the instruction's own address is PC-1.
	pc := mc.Snapshot().PC - 1
	for _, breakpoint := range dbg.Breakpoints {
		if pc == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

// Read is called by the machine for every byte it fetches from the
// instruction stream (opcodes and their operand bytes); data reads made by
// an instruction (LD, indirect operands) and stack pops are not reported.
// It fires HandleRead once if any read-covering watchpoint matches addr.
func (dbg *Debugger) Read(addr byte, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, mc)
			break
		}
	}
}

// Write is called by the machine before every write an instruction makes
// to a memory operand; stack pushes are not reported. It fires HandleWrite
// once if any write-covering watchpoint matches addr.
func (dbg *Debugger) Write(addr byte, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleWrite(addr, dbg, mc)
			break
		}
	}
}

// PrintSource prints count lines of mrasm source starting at the line that
// produced the byte at addr, using dbg.SymTable to recover the original
// source's byte offset for that address.
func (dbg *Debugger) PrintSource(addr byte, count int) {
	if dbg.Source == nil {
		fmt.Println("No source file loaded")
		return
	}

	if dbg.SymTable == nil {
		fmt.Println("No symbol table loaded")
		return
	}

	offset, exists := dbg.SymTable.Symbols[uint16(addr)]
	if !exists {
		fmt.Printf("No instruction found at %#02x\n", addr)
		return
	}

	if _, err := dbg.Source.Seek(offset, os.SEEK_SET); err != nil {
		panic(err)
	}

	scanner := bufio.NewScanner(dbg.Source)
	scanner.Split(bufio.ScanLines)

	for i := 0; i < count; i++ {
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()

		foundaddr := false
		for lineaddr, linebyte := range dbg.SymTable.Symbols {
			if linebyte == offset {
				fmt.Printf("\033[1m[%#02x]\033[0m ", lineaddr)
				foundaddr = true
				break
			}
		}

		if !foundaddr {
			fmt.Print("\033[1;30m~~~~~~~~\033[0m ")
		}

		fmt.Println(line)

		offset += int64(len(line) + 1)
	}

	if err := scanner.Err(); err != nil {
		fmt.Println(err)
	}
}

// PrintMem dumps count bytes of RAM starting at addr, four bytes per
// line, dimming zero bytes for readability.
func (dbg *Debugger) PrintMem(mc *machine.Machine, addr byte, count int) {
	ram := mc.Bus().RAMSnapshot()

	for i := 0; i < count; i++ {
		a := int(addr) + i

		if i == 0 {
			fmt.Printf("\033[1m[%#02x]\033[0m ", a)
		} else if i%4 == 0 {
			fmt.Println()
			fmt.Printf("\033[1m[%#02x]\033[0m ", a)
		}

		var result byte
		if a < len(ram) {
			result = ram[a]
		}

		if result == 0 {
			fmt.Printf("\033[1;30m%#02x\033[0m ", result)
		} else {
			fmt.Printf("%#02x ", result)
		}
	}

	fmt.Println()
}
