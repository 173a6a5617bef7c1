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

// Package encoding decodes the numeric literal formats mrasm source text
// uses: decimal, 0x-prefixed hexadecimal, and 0b-prefixed binary, all
// addressed at the 8-bit word width the Minirechner 2a operates on.
package encoding

import (
	"errors"
	"strconv"
	"strings"
)

// DecodeNumber parses a decimal, "0x"/"0X"-prefixed hex, or "0b"/"0B"-prefixed
// binary literal and returns its value widened to int64 so the caller can
// range-check it against whatever width applies (byte, address, signed
// offset) before narrowing.
func DecodeNumber(s string) (int64, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var result int64
	var err error

	switch {
	case len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X"):
		var v uint64
		v, err = strconv.ParseUint(s[2:], 16, 64)
		result = int64(v)
	case len(s) > 2 && (s[:2] == "0b" || s[:2] == "0B"):
		var v uint64
		v, err = strconv.ParseUint(s[2:], 2, 64)
		result = int64(v)
	case s == "":
		return 0, errors.New("empty numeric literal")
	default:
		result, err = strconv.ParseInt(s, 10, 64)
	}

	if err != nil {
		return 0, err
	}

	if neg {
		result = -result
	}

	return result, nil
}

// FitsByte reports whether v can be represented in a single unsigned byte,
// either directly (0..255) or as a signed value in -128..-1 that wraps to
// its two's-complement byte encoding.
func FitsByte(v int64) bool {
	return v >= -128 && v <= 255
}

// ToByte narrows v to its two's-complement byte representation. Callers
// must have checked FitsByte first.
func ToByte(v int64) byte {
	return byte(uint8(v))
}
