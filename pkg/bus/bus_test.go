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

package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRAMReadWrite(t *testing.T) {
	b := New()
	b.Write(0x00, 0x11)
	b.Write(0xE1, 0x12)
	b.Write(0xEF, 0x13)
	assert.Equal(t, byte(0x11), b.Read(0x00))
	assert.Equal(t, byte(0x00), b.Read(0x01))
	assert.Equal(t, byte(0x12), b.Read(0xE1))
	assert.Equal(t, byte(0x13), b.Read(0xEF))
}

func TestInputRegister(t *testing.T) {
	b := New()
	b.SetInput(0, 123)
	b.SetInput(1, 124)
	b.SetInput(2, 125)
	b.SetInput(3, 126)
	assert.Equal(t, byte(123), b.Read(0xFC))
	assert.Equal(t, byte(124), b.Read(0xFD))
	assert.Equal(t, byte(125), b.Read(0xFE))
	assert.Equal(t, byte(126), b.Read(0xFF))
}

func TestOutputRegister(t *testing.T) {
	b := New()
	b.Write(0xFE, 12)
	b.Write(0xFF, 0xFF)
	assert.Equal(t, byte(12), b.OutputFE())
	assert.Equal(t, byte(0xFF), b.OutputFF())
}

func TestBoardRegionDelegatesToBoard(t *testing.T) {
	b := New()
	b.Write(0xF0, 0x42)
	assert.Equal(t, byte(0x42), b.Board.DAC1)
	assert.Equal(t, byte(0x42), b.Read(0xF0))
}

func TestLoadImageFillsFromZero(t *testing.T) {
	b := New()
	image := make([]byte, 4)
	image[0], image[1], image[2], image[3] = 1, 2, 3, 4
	b.LoadImage(image)
	assert.Equal(t, byte(1), b.Read(0x00))
	assert.Equal(t, byte(4), b.Read(0x03))
}

func TestResetClearsOutputOnly(t *testing.T) {
	b := New()
	b.Write(0x00, 0xAB)
	b.Write(0xFE, 0xCD)
	b.Reset()
	assert.Equal(t, byte(0xAB), b.Read(0x00))
	assert.Equal(t, byte(0), b.OutputFE())
}

func TestInterruptControlRegionDelegates(t *testing.T) {
	b := New()
	b.Write(0xF9, 0x01)
	assert.False(t, b.Interrupts.Enabled())
}
