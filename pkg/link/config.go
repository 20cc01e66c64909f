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
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

const (
	// segmentEnv overrides the default segment name, for tests and diagnostics. The
	// voice client only ever maps DefaultSegmentName.
	segmentEnv = "MUMBLELINK_SEGMENT"

	defaultName                 = "Go"
	defaultRetryInitialInterval = time.Second
	defaultRetryMaxInterval     = 30 * time.Second
)

// Config is used to tune the link session.
type Config struct {
	// SegmentName is the shared memory segment name, see DefaultSegmentName.
	SegmentName string `yaml:"segment_name"`

	// Name and Description identify the application to the voice client. They are
	// written once when the session opens.
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Takeover lets Open attach to a record another application has published.
	Takeover bool `yaml:"takeover"`

	// UnlinkOnClose removes the segment name on Close if this process created it.
	UnlinkOnClose bool `yaml:"unlink_on_close"`

	// RetryInitialInterval and RetryMaxInterval bound how often SharedLink retries an
	// unavailable mapping.
	RetryInitialInterval time.Duration `yaml:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `yaml:"retry_max_interval"`

	// Meter and Tracer are optional OpenTelemetry hooks; no-op implementations are used
	// when they are nil.
	Meter  metric.Meter `yaml:"-"`
	Tracer trace.Tracer `yaml:"-"`
}

// DefaultConfig is the default configuration for a link session.
func DefaultConfig() *Config {
	segment := os.Getenv(segmentEnv)
	if segment == "" {
		segment = DefaultSegmentName()
	}
	return &Config{
		SegmentName:          segment,
		Name:                 defaultName,
		RetryInitialInterval: defaultRetryInitialInterval,
		RetryMaxInterval:     defaultRetryMaxInterval,
	}
}

// VerifyConfig is used to verify the sanity of configuration.
func VerifyConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	name := strings.TrimPrefix(config.SegmentName, "/")
	if name == "" {
		return fmt.Errorf("%w: segment name is empty", ErrInvalidConfig)
	}
	if strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("%w: segment name %q", ErrInvalidConfig, config.SegmentName)
	}
	if config.RetryInitialInterval <= 0 || config.RetryMaxInterval <= 0 {
		return fmt.Errorf("%w: retry intervals must be positive", ErrInvalidConfig)
	}
	if config.RetryInitialInterval > config.RetryMaxInterval {
		return fmt.Errorf("%w: retry initial interval %s exceeds max interval %s",
			ErrInvalidConfig, config.RetryInitialInterval, config.RetryMaxInterval)
	}
	return nil
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := VerifyConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func segmentKey(name string) string {
	return strings.TrimPrefix(name, "/")
}
