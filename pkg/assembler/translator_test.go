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

package assembler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, src string) *Result {
	t.Helper()
	program, errs := Parse(strings.NewReader(withHeader(src)))
	require.Empty(t, errs)
	result, errs := Translate(program)
	require.Empty(t, errs)
	return result
}

// withHeader prepends the required "#! mrasm" line to a test fixture that
// doesn't already carry one of its own.
func withHeader(src string) string {
	if strings.Contains(src, "#!") {
		return src
	}
	return "#! mrasm\n" + src
}

func TestParseHeaderTolerated(t *testing.T) {
	program, errs := Parse(strings.NewReader("#! mrasm\nNOP\n"))
	require.Empty(t, errs)
	assert.True(t, program.Header.Present)
	assert.Equal(t, "mrasm", program.Header.Tag)
}

func TestMissingHeaderIsReported(t *testing.T) {
	program, errs := Parse(strings.NewReader("NOP\n"))
	require.NotEmpty(t, errs)
	assert.False(t, program.Header.Present)
}

func TestSimpleAddition(t *testing.T) {
	result := assemble(t, `
#! mrasm
MOV R0, 5
MOV R1, 7
ADD R0, R1
STOP
`)
	assert.Equal(t, byte(OP_MOV_RI), result.Image[0])
	assert.Equal(t, byte(0), result.Image[1])
	assert.Equal(t, byte(5), result.Image[2])
	assert.Equal(t, byte(OP_ADD_RR), result.Image[6])
	assert.Equal(t, byte(OP_STOP), result.Image[8])
}

func TestEquOverrideIsLastWriteWins(t *testing.T) {
	a := assemble(t, `
.EQU LIMIT, 5
.EQU LIMIT, 9
MOV R0, LIMIT
STOP
`)
	b := assemble(t, `
.EQU LIMIT, 9
MOV R0, LIMIT
STOP
`)
	assert.Equal(t, b.Image[:4], a.Image[:4])
	assert.Equal(t, byte(9), a.Image[2])
}

func TestEquBindsToValueOfAnotherIdentifier(t *testing.T) {
	a := assemble(t, `
.EQU FF, 255
.EQU ALIAS, FF
MOV R0, ALIAS
STOP
`)
	b := assemble(t, `
.EQU FF, 0xFF
MOV R0, FF
STOP
`)
	assert.Equal(t, b.Image[:4], a.Image[:4])
	assert.Equal(t, byte(255), a.Image[2])
}

func TestOrgPlacesBytesAndRewindIsRejected(t *testing.T) {
	result := assemble(t, `
.ORG 0x10
NOP
`)
	assert.Equal(t, byte(OP_NOP), result.Image[0x10])
	assert.Equal(t, uint16(0x10), result.Layout.Origin)

	_, errs := Parse(strings.NewReader("#! mrasm\n"))
	require.Empty(t, errs)

	program, errs := Parse(strings.NewReader(withHeader(`
.ORG 0x10
NOP
NOP
.ORG 0x10
NOP
`)))
	require.Empty(t, errs)
	_, errs = Translate(program)
	require.NotEmpty(t, errs)
}

func TestStacksizeDirective(t *testing.T) {
	program, errs := Parse(strings.NewReader(withHeader("*STACKSIZE 48\nNOP\n")))
	require.Empty(t, errs)
	result, errs := Translate(program)
	require.Empty(t, errs)
	assert.Equal(t, Stacksize48, result.Layout.Stacksize)
}

func TestStacksizeDefaultsTo16WhenNeverDirected(t *testing.T) {
	result := assemble(t, "NOP\n")
	assert.Equal(t, Stacksize16, result.Layout.Stacksize)
}

func TestStacksizeNosetLeavesPriorBoundInForce(t *testing.T) {
	result := assemble(t, "*STACKSIZE 48\n*STACKSIZE NOSET\nNOP\n")
	assert.Equal(t, Stacksize48, result.Layout.Stacksize)
}

func TestProgramsizeAutoAndNosetAreDistinct(t *testing.T) {
	autoProgram, errs := Parse(strings.NewReader(withHeader("*PROGRAMSIZE AUTO\nNOP\nNOP\n")))
	require.Empty(t, errs)
	autoResult, errs := Translate(autoProgram)
	require.Empty(t, errs)
	assert.Equal(t, ProgramsizeAuto, autoResult.Layout.Programsize.Kind)
	assert.Equal(t, uint16(2), autoResult.Layout.Programsize.Value)

	nosetProgram, errs := Parse(strings.NewReader(withHeader("*PROGRAMSIZE NOSET\nNOP\n")))
	require.Empty(t, errs)
	nosetResult, errs := Translate(nosetProgram)
	require.Empty(t, errs)
	assert.Equal(t, ProgramsizeNotSet, nosetResult.Layout.Programsize.Kind)
}

func TestIndirectIndirectMove(t *testing.T) {
	result := assemble(t, `
MOV (0xFF), (33)
`)
	assert.Equal(t, byte(OP_MOV_PP), result.Image[0])
	assert.Equal(t, byte(0xFF), result.Image[1])
	assert.Equal(t, byte(33), result.Image[2])
}

func TestUnknownIdentifierIsReported(t *testing.T) {
	program, errs := Parse(strings.NewReader(withHeader("JR MISSING\n")))
	require.Empty(t, errs)
	_, errs = Translate(program)
	require.NotEmpty(t, errs)
}

func TestLabelResolvesToItsAddress(t *testing.T) {
	result := assemble(t, `
LOOP:
NOP
JR LOOP
`)
	assert.Equal(t, byte(OP_JR), result.Image[1])
	assert.Equal(t, byte(0), result.Image[2])
}

func TestSymTableRoundTripsThroughGob(t *testing.T) {
	result := assemble(t, `
LOOP:
NOP
JR LOOP
`)

	var buf bytes.Buffer
	require.NoError(t, result.Sym.Save(&buf))

	loaded, err := LoadSymTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, result.Sym.Labels, loaded.Labels)
	assert.Equal(t, result.Sym.Symbols, loaded.Symbols)
}
