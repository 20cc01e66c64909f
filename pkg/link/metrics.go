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

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type collector struct {
	session *Session
	tick    *prometheus.Desc
	open    *prometheus.Desc
	updates *prometheus.Desc
}

// NewCollector exports the state of s to Prometheus. Collecting never touches the shared
// memory, so it is safe while the host keeps updating or closes the session.
func NewCollector(s *Session) prometheus.Collector {
	labels := prometheus.Labels{"segment": s.SegmentName()}
	return &collector{
		session: s,
		tick:    prometheus.NewDesc("mumblelink_tick", "Last tick written to the shared record.", nil, labels),
		open:    prometheus.NewDesc("mumblelink_open", "Whether the session holds the shared record mapping.", nil, labels),
		updates: prometheus.NewDesc("mumblelink_updates_total", "Updates published by the session.", nil, labels),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.tick
	ch <- c.open
	ch <- c.updates
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	open := 0.0
	if c.session.IsOpen() {
		open = 1
	}
	ch <- prometheus.MustNewConstMetric(c.tick, prometheus.GaugeValue, float64(c.session.Tick()))
	ch <- prometheus.MustNewConstMetric(c.open, prometheus.GaugeValue, open)
	ch <- prometheus.MustNewConstMetric(c.updates, prometheus.CounterValue, float64(c.session.Updates()))
}

// registerInstruments reports the session through the configured OpenTelemetry meter
// while it is open.
func (s *Session) registerInstruments() (metric.Registration, error) {
	tick, err := s.meter.Int64ObservableGauge("mumblelink.tick",
		metric.WithDescription("Last tick written to the shared record."))
	if err != nil {
		return nil, err
	}
	updates, err := s.meter.Int64ObservableCounter("mumblelink.updates",
		metric.WithDescription("Updates published by the session."))
	if err != nil {
		return nil, err
	}
	attrs := metric.WithAttributes(attribute.String("mumblelink.segment", s.config.SegmentName))
	return s.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(tick, int64(s.tick.Load()), attrs)
		o.ObserveInt64(updates, int64(s.updates.Load()), attrs)
		return nil
	}, tick, updates)
}
