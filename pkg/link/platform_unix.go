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

//go:build !windows

package link

import (
	"os"
	"strconv"
)

// wchar_t is a UTF-32 code unit on unix.
const wcharSize = 4

// DefaultSegmentName returns the segment name the voice client maps for the current user.
// It corresponds to shm_open("/MumbleLink.<uid>").
func DefaultSegmentName() string {
	return "MumbleLink." + strconv.Itoa(os.Getuid())
}
