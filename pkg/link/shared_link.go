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
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Status is the state of a SharedLink.
type Status int32

const (
	// StatusUnavailable means the record could not be mapped; Update keeps retrying.
	StatusUnavailable Status = iota
	// StatusActive means updates are being published.
	StatusActive
	// StatusDeactivated means the link was closed on request and is not retried.
	StatusDeactivated
)

func (s Status) String() string {
	switch s {
	case StatusUnavailable:
		return "unavailable"
	case StatusActive:
		return "active"
	case StatusDeactivated:
		return "deactivated"
	}
	return "unknown"
}

// SharedLink is a Session for hosts that never want to handle link errors. Identity and
// context are remembered and written again whenever the mapping is (re)acquired. While
// the mapping is unavailable, Update retries Open on an exponential backoff schedule.
// A record published by another application whose tick has not moved between two
// attempts belongs to a writer that died without closing; the link takes it over.
//
// Like Session, its methods must be called from one goroutine; Status may be called
// from any goroutine.
type SharedLink struct {
	session     *Session
	backoff     *backoff.ExponentialBackOff
	now         func() time.Time
	nextAttempt time.Time
	logger      *logger
	// foreign tracks the tick of another application holding the record.
	foreign Monitor

	identity string
	context  []byte

	status atomic.Int32
	mu     sync.Mutex
	err    error
}

// NewSharedLink creates a link and makes a first attempt to open it.
func NewSharedLink(config *Config) *SharedLink {
	if config == nil {
		config = DefaultConfig()
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = config.RetryInitialInterval
	b.MaxInterval = config.RetryMaxInterval
	b.MaxElapsedTime = 0
	b.Reset()

	l := &SharedLink{
		session: NewSession(config),
		backoff: b,
		now:     time.Now,
		logger:  newLogger("shared link "+config.SegmentName, nil),
	}
	l.tryOpen()
	return l
}

func (l *SharedLink) setStatus(status Status, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
	l.status.Store(int32(status))
}

// Status returns the current status and, when unavailable, the last open error.
func (l *SharedLink) Status() (Status, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Status(l.status.Load()), l.err
}

func (l *SharedLink) open(ctx context.Context) error {
	err := l.session.Open(ctx)
	var inUse *InUseError
	if !errors.As(err, &inUse) {
		l.foreign.Reset()
		return err
	}
	if l.foreign.Observe(inUse.Tick) {
		return err
	}
	l.logger.warnf("taking over link abandoned by %s at tick %d", inUse.Name, inUse.Tick)
	l.foreign.Reset()
	return l.session.openWith(ctx, true)
}

func (l *SharedLink) tryOpen() bool {
	if err := l.open(context.Background()); err != nil {
		delay := l.backoff.NextBackOff()
		l.nextAttempt = l.now().Add(delay)
		l.setStatus(StatusUnavailable, err)
		l.logger.debugf("link unavailable, retry in %s: %v", delay, err)
		return false
	}
	l.backoff.Reset()
	_ = l.session.SetIdentity(l.identity)
	_ = l.session.SetContext(l.context)
	l.setStatus(StatusActive, nil)
	return true
}

// SetIdentity sets the player identity, now if active and on every later (re)open.
func (l *SharedLink) SetIdentity(identity string) {
	l.identity = identity
	if Status(l.status.Load()) == StatusActive {
		_ = l.session.SetIdentity(identity)
	}
}

// SetContext sets the audio context, now if active and on every later (re)open.
func (l *SharedLink) SetContext(value []byte) {
	l.context = append(l.context[:0], value...)
	if Status(l.status.Load()) == StatusActive {
		_ = l.session.SetContext(l.context)
	}
}

// Update publishes a frame if the link is active; otherwise it may retry the mapping.
func (l *SharedLink) Update(avatar, camera Position) {
	switch Status(l.status.Load()) {
	case StatusActive:
		if err := l.session.Update(avatar, camera); err != nil {
			l.setStatus(StatusUnavailable, err)
		}
		return
	case StatusDeactivated:
		return
	}
	if l.now().Before(l.nextAttempt) {
		return
	}
	if l.tryOpen() {
		_ = l.session.Update(avatar, camera)
	}
}

// Deactivate closes the link and stops retrying until Activate is called.
func (l *SharedLink) Deactivate() error {
	err := l.session.Close()
	l.setStatus(StatusDeactivated, nil)
	return err
}

// Activate re-enables a deactivated link; the next Update tries to open it.
func (l *SharedLink) Activate() {
	if Status(l.status.Load()) != StatusDeactivated {
		return
	}
	l.backoff.Reset()
	l.nextAttempt = time.Time{}
	l.setStatus(StatusUnavailable, nil)
}

// Session returns the underlying session, e.g. for metrics.
func (l *SharedLink) Session() *Session {
	return l.session
}

// Close deactivates the link.
func (l *SharedLink) Close() error {
	return l.Deactivate()
}
