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
	"context"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/srediag/mumble-link/pkg/shm"
)

// testConfig returns a config on a segment private to the calling test.
func testConfig(t testing.TB) *Config {
	t.Helper()
	switch runtime.GOOS {
	case "linux":
		if _, err := os.Stat("/dev/shm"); err != nil {
			t.Skipf("/dev/shm not available: %v", err)
		}
	case "windows":
	default:
		t.Skipf("platform not implemented: %s", runtime.GOOS)
	}
	config := DefaultConfig()
	config.SegmentName = fmt.Sprintf("mumblelink_unit_test.%d.%d", rand.Int63(), time.Now().UnixNano())
	config.Name = "unit test"
	config.Description = "link unit test"
	config.UnlinkOnClose = true
	config.RetryInitialInterval = 10 * time.Millisecond
	config.RetryMaxInterval = 100 * time.Millisecond
	return config
}

// peer maps the segment the way the voice client does.
func peer(t testing.TB, config *Config, create bool) *shm.Region {
	t.Helper()
	region, err := shm.Open(context.Background(), shm.OpenOptions{
		Name:          config.SegmentName,
		Size:          RecordSize,
		Create:        create,
		UnlinkOnClose: create,
	})
	if err != nil {
		t.Fatalf("map peer: %v", err)
	}
	t.Cleanup(func() { _ = region.Close() })
	return region
}
