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

package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDACWriteAndReadback(t *testing.T) {
	b := New()
	b.Write(0xF0, 0x42)
	assert.Equal(t, byte(0x42), b.Read(0xF0))
}

func TestStatusReflectsJumpers(t *testing.T) {
	b := New()
	b.JumperJ1 = true
	assert.Equal(t, StatusJ1, b.Read(0xF1))
}

func TestTemperatureClamps(t *testing.T) {
	b := New()
	b.SetTemperature(-5)
	assert.Equal(t, byte(0), b.Temp)
	b.SetTemperature(300)
	assert.Equal(t, byte(255), b.Temp)
	b.SetTemperature(20)
	assert.Equal(t, byte(20), b.Temp)
}

func TestUIORisingEdgeInterrupt(t *testing.T) {
	b := New()
	b.Write(0xF3, DAICREnable|DAICREdge)
	b.UIODir = 0 // all pins configured as inputs
	b.NotifyUIOChange(0b000, 0b001)
	assert.True(t, b.InterruptFlipFlopSet())
	assert.NotEqual(t, byte(0), b.Read(0xF3)&DAISRPending)
}

func TestUIOFallingEdgeRequiresFallingConfig(t *testing.T) {
	b := New()
	b.Write(0xF3, DAICREnable|DAICREdge) // rising, not falling
	b.NotifyUIOChange(0b001, 0b000)
	assert.False(t, b.InterruptFlipFlopSet())

	b.Write(0xF3, DAICREnable|DAICREdge|DAICRFalling)
	b.NotifyUIOChange(0b001, 0b000)
	assert.True(t, b.InterruptFlipFlopSet())
}

func TestAcknowledgeClearsPendingAndFlipFlop(t *testing.T) {
	b := New()
	b.Write(0xF3, DAICREnable|DAICREdge)
	b.NotifyUIOChange(0, 1)
	b.AcknowledgeInterrupt()
	assert.Equal(t, byte(0), b.Read(0xF3)&DAISRPending)
	assert.False(t, b.InterruptFlipFlopSet())
}

func TestWritingF3ClearsFlipFlop(t *testing.T) {
	b := New()
	b.Write(0xF3, DAICREnable|DAICREdge)
	b.NotifyUIOChange(0, 1)
	require.True(t, b.InterruptFlipFlopSet())

	b.Write(0xF3, DAICREnable|DAICREdge)
	assert.False(t, b.InterruptFlipFlopSet())
}
