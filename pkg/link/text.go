/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package link

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"
)

// Text fields hold zero-terminated wchar_t strings. Input longer than the field is
// silently truncated so that the terminator always fits; on UTF-16 builds a surrogate
// pair is never split. An embedded NUL ends the string: nothing after it is written.

// EncodeText returns value as a zero-terminated wchar string padded with zeros to exactly
// maxUnits units. At most maxUnits-1 units of value are kept, and value ends at its first
// NUL byte if it has one.
func EncodeText(value string, maxUnits int) []byte {
	if maxUnits <= 0 {
		return []byte{}
	}
	buf := make([]byte, maxUnits*wcharSize)
	putText(buf, value)
	return buf
}

// putText fills dst and reports whether value was truncated, by capacity or by an
// embedded NUL. It does not allocate.
func putText(dst []byte, value string) (truncated bool) {
	units := len(dst) / wcharSize
	if units == 0 {
		return value != ""
	}
	limit := units - 1
	n := 0
	for _, r := range value {
		if r == 0 || n+runeUnits(r) > limit {
			truncated = true
			break
		}
		n += putRune(dst[n*wcharSize:], r)
	}
	clear(dst[n*wcharSize:])
	return truncated
}

func runeUnits(r rune) int {
	if wcharSize == 2 && r >= 0x10000 {
		return 2
	}
	return 1
}

func putRune(dst []byte, r rune) int {
	if wcharSize == 4 {
		binary.NativeEndian.PutUint32(dst, uint32(r))
		return 1
	}
	if r >= 0x10000 {
		r1, r2 := utf16.EncodeRune(r)
		binary.NativeEndian.PutUint16(dst, uint16(r1))
		binary.NativeEndian.PutUint16(dst[2:], uint16(r2))
		return 2
	}
	binary.NativeEndian.PutUint16(dst, uint16(r))
	return 1
}

// DecodeText reads a zero-terminated wchar string. A buffer without terminator is read
// to its end.
func DecodeText(buf []byte) string {
	units := len(buf) / wcharSize
	if wcharSize == 4 {
		var sb strings.Builder
		for i := 0; i < units; i++ {
			c := binary.NativeEndian.Uint32(buf[i*4:])
			if c == 0 {
				break
			}
			sb.WriteRune(rune(c))
		}
		return sb.String()
	}
	u := make([]uint16, 0, units)
	for i := 0; i < units; i++ {
		c := binary.NativeEndian.Uint16(buf[i*2:])
		if c == 0 {
			break
		}
		u = append(u, c)
	}
	return string(utf16.Decode(u))
}

// EncodeContext copies up to ContextSize bytes of context and returns the buffer together
// with the number of meaningful bytes. Context is opaque and not terminated.
func EncodeContext(context []byte) (buf [ContextSize]byte, n uint32) {
	n = uint32(copy(buf[:], context))
	return buf, n
}
