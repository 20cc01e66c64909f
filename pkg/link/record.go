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
	"fmt"
	"math"
)

// Version is the only record layout revision this package writes and reads.
const Version uint32 = 2

// Buffer capacities, in wchar units for text and bytes for the context.
const (
	NameLen        = 256
	IdentityLen    = 256
	ContextSize    = 256
	DescriptionLen = 2048
)

const (
	vec3Size     = 3 * 4
	positionSize = 3 * vec3Size

	offVersion     = 0
	offTick        = offVersion + 4
	offAvatar      = offTick + 4
	offName        = offAvatar + positionSize
	offCamera      = offName + NameLen*wcharSize
	offIdentity    = offCamera + positionSize
	offContextLen  = offIdentity + IdentityLen*wcharSize
	offContext     = offContextLen + 4
	offDescription = offContext + ContextSize

	// RecordSize is the exact size of the shared record: 10580 bytes on unix and 5460
	// bytes on Windows.
	RecordSize = offDescription + DescriptionLen*wcharSize
)

// Field describes where a record field lives.
type Field struct {
	Name   string
	Offset int
	Size   int
}

// Layout returns the record fields in memory order.
func Layout() []Field {
	return []Field{
		{"version", offVersion, 4},
		{"tick", offTick, 4},
		{"avatar", offAvatar, positionSize},
		{"name", offName, NameLen * wcharSize},
		{"camera", offCamera, positionSize},
		{"identity", offIdentity, IdentityLen * wcharSize},
		{"context_len", offContextLen, 4},
		{"context", offContext, ContextSize},
		{"description", offDescription, DescriptionLen * wcharSize},
	}
}

// Vec3 is a single precision 3-component vector.
type Vec3 [3]float32

// Position is a location plus orientation. The voice client uses a left-handed system:
// X towards the right, Y up, Z to the front, one unit per metre.
type Position struct {
	Position Vec3
	Front    Vec3
	Top      Vec3
}

// DefaultPosition is at the origin, looking along +Z with +Y up.
func DefaultPosition() Position {
	return Position{
		Front: Vec3{0, 0, 1},
		Top:   Vec3{0, 1, 0},
	}
}

func putVec3(dst []byte, v Vec3) {
	_ = dst[vec3Size-1]
	binary.NativeEndian.PutUint32(dst[0:], math.Float32bits(v[0]))
	binary.NativeEndian.PutUint32(dst[4:], math.Float32bits(v[1]))
	binary.NativeEndian.PutUint32(dst[8:], math.Float32bits(v[2]))
}

func readVec3(src []byte) Vec3 {
	return Vec3{
		math.Float32frombits(binary.NativeEndian.Uint32(src[0:])),
		math.Float32frombits(binary.NativeEndian.Uint32(src[4:])),
		math.Float32frombits(binary.NativeEndian.Uint32(src[8:])),
	}
}

func putPosition(dst []byte, p Position) {
	putVec3(dst, p.Position)
	putVec3(dst[vec3Size:], p.Front)
	putVec3(dst[2*vec3Size:], p.Top)
}

func readPosition(src []byte) Position {
	return Position{
		Position: readVec3(src),
		Front:    readVec3(src[vec3Size:]),
		Top:      readVec3(src[2*vec3Size:]),
	}
}

// Record is a decoded copy of the shared record, as the voice client sees it.
type Record struct {
	Version     uint32
	Tick        uint32
	Avatar      Position
	Name        string
	Camera      Position
	Identity    string
	Context     []byte
	Description string
}

// DecodeRecord copies the record out of mem. A record whose version is not Version is
// reported as ErrNotPublished and not interpreted further.
func DecodeRecord(mem []byte) (*Record, error) {
	if len(mem) < RecordSize {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrShortRecord, len(mem), RecordSize)
	}
	version := binary.NativeEndian.Uint32(mem[offVersion:])
	if version != Version {
		return nil, fmt.Errorf("%w: version %d", ErrNotPublished, version)
	}
	n := min(binary.NativeEndian.Uint32(mem[offContextLen:]), ContextSize)
	ctx := make([]byte, n)
	copy(ctx, mem[offContext:])
	return &Record{
		Version:     version,
		Tick:        binary.NativeEndian.Uint32(mem[offTick:]),
		Avatar:      readPosition(mem[offAvatar:offName]),
		Name:        DecodeText(mem[offName:offCamera]),
		Camera:      readPosition(mem[offCamera:offIdentity]),
		Identity:    DecodeText(mem[offIdentity:offContextLen]),
		Context:     ctx,
		Description: DecodeText(mem[offDescription:RecordSize]),
	}, nil
}
