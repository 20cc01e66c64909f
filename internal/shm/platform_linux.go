//go:build linux

package shm

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"golang.org/x/sys/unix"
)

const devShm = "/dev/shm"

// segmentPath mirrors what glibc's shm_open does with a POSIX shm name.
func segmentPath(name string) (string, error) {
	name = strings.TrimPrefix(name, "/")
	if name == "" || strings.ContainsRune(name, '/') {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(devShm, name), nil
}

// MapRegion maps or creates a shared memory region (Linux implementation).
func MapRegion(ctx context.Context, opts MapOptions) (*MappedRegion, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("invalid region size %d", opts.Size)
	}
	shmPath, err := segmentPath(opts.Name)
	if err != nil {
		return nil, err
	}

	created := false
	fd, err := unix.Open(shmPath, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if errors.Is(err, unix.ENOENT) && opts.Create {
		if !canCreateOnDevShm(uint64(opts.Size), shmPath) {
			return nil, fmt.Errorf("%w: path:%s size:%d", ErrNoSpace, shmPath, opts.Size)
		}
		fd, err = unix.Open(shmPath, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL|unix.O_CLOEXEC, 0600)
		switch {
		case err == nil:
			created = true
		case errors.Is(err, unix.EEXIST):
			// lost the race against another creator
			fd, err = unix.Open(shmPath, unix.O_RDWR|unix.O_CLOEXEC, 0)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", shmPath, err)
	}

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("fstat: %w", err)
	}
	// A zero-sized segment was created by someone who has not sized it yet.
	if created || st.Size == 0 {
		if err := unix.Ftruncate(fd, int64(opts.Size)); err != nil {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("ftruncate: %w", err)
		}
	} else if st.Size < int64(opts.Size) {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%w: %s is %d bytes, want %d", ErrSizeMismatch, shmPath, st.Size, opts.Size)
	}

	addr, err := unix.Mmap(fd, 0, opts.Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		if created {
			_ = unix.Unlink(shmPath)
		}
		return nil, fmt.Errorf("mmap: %w", err)
	}
	if created {
		clear(addr)
	}
	return &MappedRegion{
		Addr:    addr,
		Created: created,
		Name:    opts.Name,
		handle:  uintptr(fd),
	}, nil
}

// UnmapRegion unmaps and closes the shared memory region (Linux implementation).
func UnmapRegion(ctx context.Context, region *MappedRegion) error {
	if region == nil || region.Addr == nil {
		return nil
	}
	var errs []error
	if err := unix.Munmap(region.Addr); err != nil {
		errs = append(errs, fmt.Errorf("munmap: %w", err))
	}
	region.Addr = nil
	if err := unix.Close(int(region.handle)); err != nil {
		errs = append(errs, fmt.Errorf("close fd %d: %w", region.handle, err))
	}
	return errors.Join(errs...)
}

// Unlink removes the named segment. Existing mappings stay valid.
func Unlink(name string) error {
	shmPath, err := segmentPath(name)
	if err != nil {
		return err
	}
	if err := unix.Unlink(shmPath); err != nil && !errors.Is(err, unix.ENOENT) {
		return fmt.Errorf("unlink %s: %w", shmPath, err)
	}
	return nil
}

// canCreateOnDevShm reports whether size bytes fit on /dev/shm. Paths elsewhere are
// always accepted.
func canCreateOnDevShm(size uint64, path string) bool {
	if !strings.HasPrefix(path, devShm) {
		return true
	}
	stat, err := disk.Usage(devShm)
	if err != nil {
		// let open/ftruncate report the real failure
		return true
	}
	return stat.Free >= size
}
