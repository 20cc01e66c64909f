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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DebugTestSuite struct {
	suite.Suite
}

func (s *DebugTestSuite) TestLogLevel() {
	defer SetLogLevel(level)
	var out bytes.Buffer
	l := newLogger("test", &out)

	SetLogLevel(LevelWarn)
	l.infof("this is infof %s", "hello world")
	l.debugf("debug message")
	s.Require().Zero(out.Len())

	l.warnf("this is warnf %s", "hello world")
	s.Require().Contains(out.String(), "Warn")
	s.Require().Contains(out.String(), "this is warnf hello world")
	s.Require().Contains(out.String(), "debug_test.go:")

	out.Reset()
	SetLogLevel(LevelNoPrint)
	l.errorf("error message")
	s.Require().Zero(out.Len())

	SetLogLevel(LevelDebug)
	l.debugf("debug message")
	s.Require().Contains(out.String(), "Debug")

	// out of range levels are ignored
	SetLogLevel(42)
	s.Require().Equal(LevelDebug, level)
}

func (s *DebugTestSuite) TestFormatRecord() {
	rec := &Record{
		Version:  Version,
		Tick:     9,
		Avatar:   DefaultPosition(),
		Name:     "game",
		Identity: "player",
		Context:  []byte("zone"),
	}
	text := FormatRecord(rec)
	s.Require().Contains(text, "tick:9")
	s.Require().Contains(text, `identity:"player"`)
	s.Require().Contains(text, `context:"zone" (4 bytes)`)
	s.Require().Contains(text, "front:[0 0 1]")
}

func (s *DebugTestSuite) TestDebugRecordDetail() {
	mem := make([]byte, RecordSize)
	path := filepath.Join(s.T().TempDir(), "record")
	s.Require().NoError(os.WriteFile(path, mem, 0o600))
	DebugRecordDetail(path)
	DebugRecordDetail(filepath.Join(s.T().TempDir(), "missing"))
}

func TestDebugTestSuite(t *testing.T) {
	suite.Run(t, new(DebugTestSuite))
}
