/*
 * Copyright 2025 SREDiag Authors
 * Copyright 2023 CloudWeGo Authors
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
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/valyala/bytebufferpool"
)

type logger struct {
	name      string
	out       io.Writer
	callDepth int
}

var (
	level int

	magenta = string([]byte{27, 91, 57, 53, 109}) // Trace
	green   = string([]byte{27, 91, 57, 50, 109}) // Debug
	blue    = string([]byte{27, 91, 57, 52, 109}) // Info
	yellow  = string([]byte{27, 91, 57, 51, 109}) // Warn
	red     = string([]byte{27, 91, 57, 49, 109}) // Error
	reset   = string([]byte{27, 91, 48, 109})

	colors = []string{
		magenta,
		green,
		blue,
		yellow,
		red,
	}

	levelName = []string{
		"Trace",
		"Debug",
		"Info",
		"Warn",
		"Error",
	}
)

// Log levels accepted by SetLogLevel and MUMBLELINK_LOG_LEVEL.
const (
	LevelTrace = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelNoPrint
)

func init() {
	level = LevelWarn
	if v := os.Getenv("MUMBLELINK_LOG_LEVEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= LevelTrace && n <= LevelNoPrint {
			level = n
		}
	}
}

// SetLogLevel changes the internal logger's level; the default level is Warn.
// The process env `MUMBLELINK_LOG_LEVEL` also sets the level.
func SetLogLevel(l int) {
	if l >= LevelTrace && l <= LevelNoPrint {
		level = l
	}
}

func newLogger(name string, out io.Writer) *logger {
	if out == nil {
		out = os.Stdout
	}
	return &logger{
		name:      name,
		out:       out,
		callDepth: 3,
	}
}

func (l *logger) logf(lv int, format string, a ...interface{}) {
	if level > lv {
		return
	}
	if _, err := fmt.Fprintf(l.out, l.prefix(lv)+format+reset+"\n", a...); err != nil {
		fmt.Fprintf(os.Stderr, "logger %s failed: %v\n", levelName[lv], err)
	}
}

func (l *logger) errorf(format string, a ...interface{}) { l.logf(LevelError, format, a...) }

func (l *logger) warnf(format string, a ...interface{}) { l.logf(LevelWarn, format, a...) }

func (l *logger) infof(format string, a ...interface{}) { l.logf(LevelInfo, format, a...) }

func (l *logger) debugf(format string, a ...interface{}) { l.logf(LevelDebug, format, a...) }

func (l *logger) prefix(level int) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.WriteString(colors[level])
	_, _ = buf.WriteString(levelName[level])
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(time.Now().Format("2006-01-02 15:04:05.999999"))
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(l.location())
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(l.name)
	_ = buf.WriteByte(' ')
	return buf.String()
}

func (l *logger) location() string {
	// logf adds one frame on top of the level helpers
	_, file, line, ok := runtime.Caller(l.callDepth + 1)
	if !ok {
		file = "???"
		line = 0
	}
	file = filepath.Base(file)
	return file + ":" + strconv.Itoa(line)
}

// FormatRecord renders a decoded record for humans.
func FormatRecord(r *Record) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	fmt.Fprintf(buf, "version:%d tick:%d\n", r.Version, r.Tick)
	fmt.Fprintf(buf, "name:%q description:%q\n", r.Name, r.Description)
	fmt.Fprintf(buf, "identity:%q context:%q (%d bytes)\n", r.Identity, r.Context, len(r.Context))
	fmt.Fprintf(buf, "avatar pos:%v front:%v top:%v\n", r.Avatar.Position, r.Avatar.Front, r.Avatar.Top)
	fmt.Fprintf(buf, "camera pos:%v front:%v top:%v\n", r.Camera.Position, r.Camera.Front, r.Camera.Top)
	return buf.String()
}

// DebugRecordDetail prints the record stored in the file at path, e.g.
// /dev/shm/MumbleLink.1000.
func DebugRecordDetail(path string) {
	mem, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(err)
		return
	}
	rec, err := DecodeRecord(mem)
	if err != nil {
		fmt.Printf("path:%s %v\n", path, err)
		return
	}
	fmt.Printf("path:%s size:%d\n%s", path, len(mem), FormatRecord(rec))
}
