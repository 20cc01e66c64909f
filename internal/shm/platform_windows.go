//go:build windows

package shm

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32          = windows.NewLazySystemDLL("kernel32.dll")
	procOpenFileMappingW = modkernel32.NewProc("OpenFileMappingW")
)

func openFileMapping(access uint32, name *uint16) (windows.Handle, error) {
	r, _, e := procOpenFileMappingW.Call(uintptr(access), 0, uintptr(unsafe.Pointer(name)))
	if r == 0 {
		return 0, e
	}
	return windows.Handle(r), nil
}

// MapRegion maps or creates a shared memory region (Windows implementation).
func MapRegion(ctx context.Context, opts MapOptions) (*MappedRegion, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("invalid region size %d", opts.Size)
	}
	if opts.Name == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, opts.Name)
	}
	name, err := windows.UTF16PtrFromString(opts.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}

	var (
		handle  windows.Handle
		created bool
	)
	if opts.Create {
		handle, err = windows.CreateFileMapping(windows.InvalidHandle, nil,
			windows.PAGE_READWRITE, 0, uint32(opts.Size), name)
		switch {
		case err == nil:
			created = true
		case errors.Is(err, windows.ERROR_ALREADY_EXISTS) && handle != 0:
			err = nil
		}
	} else {
		handle, err = openFileMapping(windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, name)
	}
	if err != nil {
		return nil, fmt.Errorf("file mapping %s: %w", opts.Name, err)
	}

	addr, err := windows.MapViewOfFile(handle, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, 0, uintptr(opts.Size))
	if err != nil {
		_ = windows.CloseHandle(handle)
		return nil, fmt.Errorf("map view: %w", err)
	}
	// The view lives outside the Go heap and stays mapped until UnmapViewOfFile, so the
	// address is never moved or collected.
	mem := unsafe.Slice((*byte)(unsafe.Add(unsafe.Pointer(nil), addr)), opts.Size)
	if created {
		clear(mem)
	}
	return &MappedRegion{
		Addr:    mem,
		Created: created,
		Name:    opts.Name,
		handle:  uintptr(handle),
	}, nil
}

// UnmapRegion unmaps and closes the shared memory region (Windows implementation).
func UnmapRegion(ctx context.Context, region *MappedRegion) error {
	if region == nil || region.Addr == nil {
		return nil
	}
	var errs []error
	if err := windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&region.Addr[0]))); err != nil {
		errs = append(errs, fmt.Errorf("unmap view: %w", err))
	}
	region.Addr = nil
	if err := windows.CloseHandle(windows.Handle(region.handle)); err != nil {
		errs = append(errs, fmt.Errorf("close handle: %w", err))
	}
	return errors.Join(errs...)
}

// Unlink is a no-op: a Windows mapping disappears with its last handle.
func Unlink(name string) error {
	return nil
}
