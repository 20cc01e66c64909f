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

import "sync"

// Monitor tracks tick progression the way the voice client does: a tick that does not
// change between two polls means the writer has stopped.
type Monitor struct {
	mu   sync.Mutex
	seen bool
	last uint32
	idle int
}

// Observe records a polled tick and reports whether it moved since the previous poll.
// The first observation counts as movement.
func (m *Monitor) Observe(tick uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.seen || tick != m.last {
		m.seen = true
		m.last = tick
		m.idle = 0
		return true
	}
	m.idle++
	return false
}

// Idle returns the number of consecutive polls without tick movement.
func (m *Monitor) Idle() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idle
}

// Stale reports whether the tick has not moved for at least polls observations.
func (m *Monitor) Stale(polls int) bool {
	return m.Idle() >= polls
}

// Reset forgets all observations.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen, m.last, m.idle = false, 0, 0
}
