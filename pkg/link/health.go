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
	"fmt"

	"github.com/heptiolabs/healthcheck"
)

// LivenessCheck fails when s is closed or its tick has not advanced across polls
// consecutive checks.
func LivenessCheck(s *Session, polls int) healthcheck.Check {
	monitor := &Monitor{}
	return func() error {
		if !s.IsOpen() {
			monitor.Reset()
			return ErrNotOpen
		}
		tick := s.Tick()
		if !monitor.Observe(tick) && monitor.Stale(polls) {
			return fmt.Errorf("mumble link stale: tick %d unchanged for %d checks", tick, monitor.Idle())
		}
		return nil
	}
}

// ReadinessCheck fails while l is not publishing.
func ReadinessCheck(l *SharedLink) healthcheck.Check {
	return func() error {
		status, err := l.Status()
		if status == StatusActive {
			return nil
		}
		if err != nil {
			return fmt.Errorf("mumble link %s: %w", status, err)
		}
		return fmt.Errorf("mumble link %s", status)
	}
}
