//go:build linux

package shm

import (
	"context"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSegmentName(t *testing.T) string {
	t.Helper()
	if _, err := os.Stat(devShm); err != nil {
		t.Skipf("%s not available: %v", devShm, err)
	}
	name := fmt.Sprintf("shm_unit_test.%d.%d", os.Getpid(), time.Now().UnixNano())
	t.Cleanup(func() { _ = Unlink(name) })
	return name
}

func TestMapRegionCreateAndAttach(t *testing.T) {
	ctx := context.Background()
	name := testSegmentName(t)

	owner, err := MapRegion(ctx, MapOptions{Name: name, Size: 4096, Create: true})
	require.NoError(t, err)
	assert.True(t, owner.Created)
	assert.Len(t, owner.Addr, 4096)
	for _, b := range owner.Addr {
		require.Zero(t, b)
	}

	peer, err := MapRegion(ctx, MapOptions{Name: "/" + name, Size: 4096, Create: true})
	require.NoError(t, err)
	assert.False(t, peer.Created)

	copy(owner.Addr[100:], "hello")
	assert.Equal(t, "hello", string(peer.Addr[100:105]))

	require.NoError(t, UnmapRegion(ctx, peer))
	require.NoError(t, UnmapRegion(ctx, owner))
	assert.Nil(t, owner.Addr)
	// second unmap is a no-op
	assert.NoError(t, UnmapRegion(ctx, owner))
}

func TestMapRegionWithoutCreate(t *testing.T) {
	name := testSegmentName(t)
	_, err := MapRegion(context.Background(), MapOptions{Name: name, Size: 64})
	assert.Error(t, err)
}

func TestMapRegionSizeMismatch(t *testing.T) {
	ctx := context.Background()
	name := testSegmentName(t)

	small, err := MapRegion(ctx, MapOptions{Name: name, Size: 64, Create: true})
	require.NoError(t, err)
	defer func() { _ = UnmapRegion(ctx, small) }()

	_, err = MapRegion(ctx, MapOptions{Name: name, Size: 8192, Create: true})
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestMapRegionInvalidName(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"", "/", "a/b"} {
		_, err := MapRegion(ctx, MapOptions{Name: name, Size: 64, Create: true})
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
	_, err := MapRegion(ctx, MapOptions{Name: "x", Size: 0, Create: true})
	assert.Error(t, err)
}

func TestUnlink(t *testing.T) {
	ctx := context.Background()
	name := testSegmentName(t)

	region, err := MapRegion(ctx, MapOptions{Name: name, Size: 64, Create: true})
	require.NoError(t, err)
	require.NoError(t, Unlink(name))
	_, err = os.Stat(devShm + "/" + name)
	assert.True(t, os.IsNotExist(err))

	// the mapping outlives the name
	region.Addr[0] = 7
	assert.Equal(t, byte(7), region.Addr[0])
	require.NoError(t, UnmapRegion(ctx, region))

	assert.NoError(t, Unlink(name))
}

func TestCanCreateOnDevShm(t *testing.T) {
	// only /dev/shm is checked, everything else is accepted
	assert.Equal(t, true, canCreateOnDevShm(math.MaxUint64, "sdffafds"))
	stat, err := disk.Usage(devShm)
	if err != nil {
		t.Skipf("disk usage of %s: %v", devShm, err)
	}
	assert.Equal(t, true, canCreateOnDevShm(stat.Free, "/dev/shm/xxx"))
	assert.Equal(t, false, canCreateOnDevShm(stat.Free+1, "/dev/shm/yyy"))
}
