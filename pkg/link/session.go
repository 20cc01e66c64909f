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
	"sync/atomic"
	"unsafe"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	internalshm "github.com/srediag/mumble-link/internal/shm"
	"github.com/srediag/mumble-link/pkg/shm"
)

const instrumentationName = "github.com/srediag/mumble-link/pkg/link"

// Session owns the mapping of the shared record and is its only writer.
//
// A Session is Closed until Open succeeds and Closed again after Close; it may be opened
// again afterwards. Its write methods must be called from one goroutine at a time.
// IsOpen, Tick and Updates may be called from any goroutine.
type Session struct {
	config *Config
	key    string
	logger *logger
	tracer trace.Tracer
	meter  metric.Meter

	region       *shm.Region
	mem          []byte
	registration metric.Registration

	open    atomic.Bool
	created atomic.Bool
	// tick mirrors the last value written so observers never read mapped memory.
	tick    atomic.Uint32
	updates atomic.Uint64
}

// NewSession returns a closed session. A nil config means DefaultConfig.
func NewSession(config *Config) *Session {
	if config == nil {
		config = DefaultConfig()
	}
	s := &Session{
		config: config,
		key:    segmentKey(config.SegmentName),
		logger: newLogger("session "+config.SegmentName, nil),
		tracer: config.Tracer,
		meter:  config.Meter,
	}
	if s.tracer == nil {
		s.tracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
	}
	if s.meter == nil {
		s.meter = metricnoop.NewMeterProvider().Meter(instrumentationName)
	}
	return s
}

// Open creates and opens a session.
func Open(ctx context.Context, config *Config) (*Session, error) {
	s := NewSession(config)
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Open maps the shared record, creating the segment if the voice client has not done so
// yet, and writes the application name and description.
func (s *Session) Open(ctx context.Context) error {
	return s.openWith(ctx, s.config.Takeover)
}

func (s *Session) openWith(ctx context.Context, takeover bool) (err error) {
	ctx, span := s.tracer.Start(ctx, "mumblelink.Session.Open",
		trace.WithAttributes(attribute.String("mumblelink.segment", s.config.SegmentName)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if s.open.Load() {
		return ErrAlreadyOpen
	}
	if err := VerifyConfig(s.config); err != nil {
		return err
	}
	if !acquireSegment(s.key, s) {
		return fmt.Errorf("%w: segment %s is held by another session of this process", ErrInUse, s.key)
	}

	region, err := shm.Open(ctx, shm.OpenOptions{
		Name:          s.config.SegmentName,
		Size:          RecordSize,
		Create:        true,
		UnlinkOnClose: s.config.UnlinkOnClose,
	})
	if err != nil {
		releaseSegment(s.key, s)
		s.logger.warnf("map segment %s failed, positional audio disabled: %v", s.config.SegmentName, err)
		return fmt.Errorf("%w: %s: %w", ErrMappingUnavailable, s.config.SegmentName, err)
	}
	mem := region.Bytes()

	if !region.Created() && !takeover {
		if v := internalshm.AtomicLoadUint32(unsafe.Pointer(&mem[offVersion])); v != 0 {
			inUse := &InUseError{
				Name:        DecodeText(mem[offName:offCamera]),
				Description: DecodeText(mem[offDescription:RecordSize]),
				Tick:        internalshm.AtomicLoadUint32(unsafe.Pointer(&mem[offTick])),
			}
			if cerr := region.Close(); cerr != nil {
				s.logger.warnf("close segment %s: %v", s.config.SegmentName, cerr)
			}
			releaseSegment(s.key, s)
			return inUse
		}
	}

	if putText(mem[offName:offCamera], s.config.Name) {
		s.logger.debugf("name truncated to %d units", NameLen-1)
	}
	if putText(mem[offDescription:RecordSize], s.config.Description) {
		s.logger.debugf("description truncated to %d units", DescriptionLen-1)
	}

	s.region = region
	s.mem = mem
	s.created.Store(region.Created())
	s.tick.Store(internalshm.AtomicLoadUint32(unsafe.Pointer(&mem[offTick])))
	s.open.Store(true)

	if reg, err := s.registerInstruments(); err != nil {
		s.logger.warnf("register instruments: %v", err)
	} else {
		s.registration = reg
	}

	s.logger.infof("opened segment %s created:%t size:%d", s.config.SegmentName, region.Created(), RecordSize)
	return nil
}

// Update publishes the avatar and camera of the current frame and advances the tick.
// It performs fixed-size stores only and never fails because of the vector values.
func (s *Session) Update(avatar, camera Position) error {
	if !s.open.Load() {
		return ErrNotOpen
	}
	mem := s.mem
	putPosition(mem[offAvatar:offName], avatar)
	putPosition(mem[offCamera:offIdentity], camera)

	version := unsafe.Pointer(&mem[offVersion])
	if internalshm.AtomicLoadUint32(version) != Version {
		internalshm.AtomicStoreUint32(version, Version)
	}
	// the tick goes last so a reader that sees it move also sees this frame's vectors
	s.tick.Store(internalshm.AtomicAddUint32(unsafe.Pointer(&mem[offTick]), 1))
	s.updates.Add(1)
	return nil
}

// SetIdentity writes the player identity immediately. Text beyond IdentityLen-1 units
// is dropped.
func (s *Session) SetIdentity(identity string) error {
	if !s.open.Load() {
		return ErrNotOpen
	}
	if putText(s.mem[offIdentity:offContextLen], identity) {
		s.logger.debugf("identity truncated to %d units", IdentityLen-1)
	}
	return nil
}

// SetContext writes the audio context immediately. Bytes beyond ContextSize are dropped.
func (s *Session) SetContext(value []byte) error {
	if !s.open.Load() {
		return ErrNotOpen
	}
	buf := s.mem[offContext:offDescription]
	n := copy(buf, value)
	clear(buf[n:])
	internalshm.AtomicStoreUint32(unsafe.Pointer(&s.mem[offContextLen]), uint32(n))
	if n < len(value) {
		s.logger.debugf("context truncated from %d to %d bytes", len(value), n)
	}
	return nil
}

// Close withdraws the record by resetting its version and unmaps it. Closing a closed
// session is a no-op.
func (s *Session) Close() error {
	if !s.open.CompareAndSwap(true, false) {
		return nil
	}
	_, span := s.tracer.Start(context.Background(), "mumblelink.Session.Close",
		trace.WithAttributes(attribute.String("mumblelink.segment", s.config.SegmentName)))
	defer span.End()

	internalshm.AtomicStoreUint32(unsafe.Pointer(&s.mem[offVersion]), 0)
	if s.registration != nil {
		if err := s.registration.Unregister(); err != nil {
			s.logger.warnf("unregister instruments: %v", err)
		}
		s.registration = nil
	}

	err := s.region.Close()
	s.region = nil
	s.mem = nil
	releaseSegment(s.key, s)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.errorf("close segment %s: %v", s.config.SegmentName, err)
		return fmt.Errorf("close segment %s: %w", s.config.SegmentName, err)
	}
	s.logger.infof("closed segment %s after %d updates", s.config.SegmentName, s.updates.Load())
	return nil
}

// IsOpen reports whether the session holds a mapping.
func (s *Session) IsOpen() bool {
	return s.open.Load()
}

// Tick returns the last tick value written, or found at open.
func (s *Session) Tick() uint32 {
	return s.tick.Load()
}

// Updates returns the number of Update calls this session has published.
func (s *Session) Updates() uint64 {
	return s.updates.Load()
}

// Created reports whether the current mapping was created by this process.
func (s *Session) Created() bool {
	return s.created.Load()
}

// SegmentName returns the configured segment name.
func (s *Session) SegmentName() string {
	return s.config.SegmentName
}
