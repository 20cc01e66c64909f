// Package shm contains platform-specific helpers for mapping named shared memory segments.
package shm

import "errors"

var (
	// ErrUnsupported is returned on platforms without a named shared memory facility.
	ErrUnsupported = errors.New("shared memory is not supported on this platform")
	// ErrSizeMismatch is returned when an existing segment is smaller than requested.
	ErrSizeMismatch = errors.New("shared memory segment size mismatch")
	// ErrNoSpace is returned when the backing filesystem cannot hold a new segment.
	ErrNoSpace = errors.New("shared memory had not left space")
	// ErrInvalidName is returned for empty names or names containing a path separator.
	ErrInvalidName = errors.New("invalid shared memory name")
)

// MappedRegion represents a memory-mapped shared region.
type MappedRegion struct {
	Addr []byte
	// Created reports whether this process created the segment.
	Created bool
	Name    string

	handle uintptr // fd on unix, mapping handle on windows
}

// MapOptions defines options for mapping shared memory.
type MapOptions struct {
	Name   string
	Size   int
	Create bool
}

// Function implementations are provided in platform-specific files (platform_linux.go,
// platform_windows.go, platform_other.go).
