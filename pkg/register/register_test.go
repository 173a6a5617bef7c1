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

package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBlockIsZeroed(t *testing.T) {
	b := New()
	assert.Equal(t, Bank{}, b.Snapshot())
}

func TestReadWrite(t *testing.T) {
	b := New()
	b.Write(R3, 0xAB)
	assert.Equal(t, byte(0xAB), b.Read(R3))
	assert.Equal(t, byte(0), b.Read(R2))
}

func TestStackPointerIsR4(t *testing.T) {
	b := New()
	b.SetSP(0xA0)
	assert.Equal(t, byte(0xA0), b.Read(R4))
	assert.Equal(t, byte(0xA0), b.SPValue())
}

func TestResetClearsAllRegisters(t *testing.T) {
	b := New()
	for n := R0; n <= R7; n++ {
		b.Write(n, 0xFF)
	}
	b.Reset()
	assert.Equal(t, Bank{}, b.Snapshot())
}

func TestSnapshotDoesNotAliasLiveState(t *testing.T) {
	b := New()
	b.Write(R0, 1)
	snap := b.Snapshot()
	b.Write(R0, 2)
	assert.Equal(t, byte(1), snap[R0])
	assert.Equal(t, byte(2), b.Read(R0))
}
