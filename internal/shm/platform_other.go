//go:build !linux && !windows

package shm

import "context"

// MapRegion always fails on this platform.
func MapRegion(ctx context.Context, opts MapOptions) (*MappedRegion, error) {
	return nil, ErrUnsupported
}

// UnmapRegion is a no-op on this platform.
func UnmapRegion(ctx context.Context, region *MappedRegion) error {
	return nil
}

// Unlink is a no-op on this platform.
func Unlink(name string) error {
	return nil
}
