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
	cmap "github.com/orcaman/concurrent-map/v2"
)

// segments tracks which session of this process writes which segment, so that a
// process never has two writers on one record.
var segments = cmap.New[*Session]()

func acquireSegment(key string, s *Session) bool {
	return segments.SetIfAbsent(key, s)
}

func releaseSegment(key string, s *Session) {
	segments.RemoveCb(key, func(_ string, held *Session, exists bool) bool {
		return exists && held == s
	})
}
