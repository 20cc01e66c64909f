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
	"errors"
	"fmt"
)

var (
	// ErrMappingUnavailable is returned by Open when the shared memory segment cannot be
	// created or mapped. Hosts should keep running without positional audio.
	ErrMappingUnavailable = errors.New("mumble link: shared memory mapping unavailable")

	// ErrNotOpen is returned by operations that need an open session.
	ErrNotOpen = errors.New("mumble link: session is not open")

	// ErrAlreadyOpen is returned by Open on a session that is already open.
	ErrAlreadyOpen = errors.New("mumble link: session is already open")

	// ErrInUse is returned by Open when another application, or another session of this
	// process, already publishes through the segment.
	ErrInUse = errors.New("mumble link: link in use")

	// ErrValueTooLong names oversize identity, context or description input. Text and
	// context are truncated to capacity, so no operation of this package returns it.
	ErrValueTooLong = errors.New("mumble link: value too long")

	// ErrNotPublished is returned by DecodeRecord when the record carries no supported
	// version, i.e. nothing has been published yet or the writer uses another layout.
	ErrNotPublished = errors.New("mumble link: record not published")

	// ErrShortRecord is returned by DecodeRecord for buffers smaller than RecordSize.
	ErrShortRecord = errors.New("mumble link: record buffer too short")

	// ErrInvalidConfig is returned by VerifyConfig.
	ErrInvalidConfig = errors.New("mumble link: invalid config")
)

// InUseError is returned by Open when another application has published the record.
// It matches ErrInUse.
type InUseError struct {
	Name        string
	Description string
	// Tick is the other writer's tick when the record was inspected.
	Tick uint32
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInUse, e.Name, e.Description)
}

// Is reports whether target is ErrInUse.
func (e *InUseError) Is(target error) bool {
	return target == ErrInUse
}
