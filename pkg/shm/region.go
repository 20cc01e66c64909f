package shm

import (
	"context"
	"errors"
	"sync"

	internalshm "github.com/srediag/mumble-link/internal/shm"
)

// Re-exported platform errors so callers can match them without importing internal/shm.
var (
	ErrUnsupported  = internalshm.ErrUnsupported
	ErrSizeMismatch = internalshm.ErrSizeMismatch
	ErrNoSpace      = internalshm.ErrNoSpace
	ErrInvalidName  = internalshm.ErrInvalidName
)

// Region is a mapped shared memory segment.
type Region struct {
	region *internalshm.MappedRegion
	name   string
	unlink bool

	closeOnce sync.Once
	closeErr  error
}

// OpenOptions defines options for creating or opening a shared memory segment.
type OpenOptions struct {
	// Name is the identifier for the shared memory segment.
	Name string
	// Size is the exact number of bytes to map.
	Size int
	// Create indicates whether to create (if not exists) or only open an existing segment.
	Create bool
	// UnlinkOnClose removes the segment name on Close, only if this process created it.
	UnlinkOnClose bool
}

// Open creates or opens a shared memory segment with the given options.
func Open(ctx context.Context, opts OpenOptions) (*Region, error) {
	if opts.Size <= 0 {
		return nil, errors.New("invalid region size")
	}
	region, err := internalshm.MapRegion(ctx, internalshm.MapOptions{
		Name:   opts.Name,
		Size:   opts.Size,
		Create: opts.Create,
	})
	if err != nil {
		return nil, err
	}
	return &Region{
		region: region,
		name:   opts.Name,
		unlink: opts.UnlinkOnClose && region.Created,
	}, nil
}

// Bytes returns the mapped memory. It must not be used after Close.
func (r *Region) Bytes() []byte {
	return r.region.Addr
}

// Created reports whether this process created the segment.
func (r *Region) Created() bool {
	return r.region.Created
}

// Name returns the segment name.
func (r *Region) Name() string {
	return r.name
}

// Size returns the mapped size in bytes.
func (r *Region) Size() int {
	return len(r.region.Addr)
}

// Close unmaps the segment and releases its handle. Calling Close more than once returns
// the result of the first call.
func (r *Region) Close() error {
	r.closeOnce.Do(func() {
		errs := []error{internalshm.UnmapRegion(context.Background(), r.region)}
		if r.unlink {
			errs = append(errs, internalshm.Unlink(r.name))
		}
		r.closeErr = errors.Join(errs...)
	})
	return r.closeErr
}
