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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) TestVerifyConfig() {
	s.Require().ErrorIs(VerifyConfig(nil), ErrInvalidConfig)

	config := DefaultConfig()
	s.Require().NoError(VerifyConfig(config))

	config.SegmentName = ""
	s.Require().ErrorIs(VerifyConfig(config), ErrInvalidConfig)
	config.SegmentName = "/"
	s.Require().ErrorIs(VerifyConfig(config), ErrInvalidConfig)
	config.SegmentName = "a/b"
	s.Require().ErrorIs(VerifyConfig(config), ErrInvalidConfig)
	config.SegmentName = "/MumbleLink.1000"
	s.Require().NoError(VerifyConfig(config))

	config.RetryInitialInterval = 0
	s.Require().ErrorIs(VerifyConfig(config), ErrInvalidConfig)
	config.RetryInitialInterval = time.Minute
	config.RetryMaxInterval = time.Second
	s.Require().ErrorIs(VerifyConfig(config), ErrInvalidConfig)
	config.RetryMaxInterval = time.Minute
	s.Require().NoError(VerifyConfig(config))
}

func (s *ConfigTestSuite) TestDefaultConfig() {
	s.T().Setenv(segmentEnv, "")
	config := DefaultConfig()
	s.Require().Equal(DefaultSegmentName(), config.SegmentName)
	s.Require().Equal(defaultName, config.Name)
	s.Require().False(config.Takeover)

	s.T().Setenv(segmentEnv, "MumbleLink.test")
	s.Require().Equal("MumbleLink.test", DefaultConfig().SegmentName)
}

func (s *ConfigTestSuite) TestLoadConfig() {
	dir := s.T().TempDir()

	config, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	s.Require().NoError(err)
	s.Require().Equal(DefaultConfig().SegmentName, config.SegmentName)

	path := filepath.Join(dir, "link.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(`
segment_name: MumbleLink.custom
name: Space Game
description: A game in space
takeover: true
retry_initial_interval: 2s
retry_max_interval: 1m
`), 0o600))
	config, err = LoadConfig(path)
	s.Require().NoError(err)
	s.Require().Equal("MumbleLink.custom", config.SegmentName)
	s.Require().Equal("Space Game", config.Name)
	s.Require().Equal("A game in space", config.Description)
	s.Require().True(config.Takeover)
	s.Require().False(config.UnlinkOnClose)
	s.Require().Equal(2*time.Second, config.RetryInitialInterval)
	s.Require().Equal(time.Minute, config.RetryMaxInterval)

	s.Require().NoError(os.WriteFile(path, []byte("segment_name: [broken"), 0o600))
	_, err = LoadConfig(path)
	s.Require().Error(err)

	s.Require().NoError(os.WriteFile(path, []byte("segment_name: a/b"), 0o600))
	_, err = LoadConfig(path)
	s.Require().ErrorIs(err, ErrInvalidConfig)
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
