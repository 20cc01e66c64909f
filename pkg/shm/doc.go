// Package shm maps fixed-size, named shared memory segments for inter-process communication (IPC).
//
// A Region is a plain byte view of the segment. It imposes no layout or synchronization
// of its own; callers pin their own record layout on top of Bytes.
//
// Example usage:
//
//	region, err := shm.Open(ctx, shm.OpenOptions{
//	  Name:   "MumbleLink.1000",
//	  Size:   10580,
//	  Create: true,
//	})
//	// ...
//	defer region.Close()
//
// Platform-specific helpers are in internal/shm.
package shm
