/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns panics into a logged error, a crash report and a
// replayable journal of the session that was running.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	applog "paperfold/internal/log"
	"paperfold/internal/script"
	"paperfold/internal/sketch"
	"paperfold/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// reportDir is where crash reports are written.
var reportDir = os.TempDir

// Recover captures a panic, logs an error with stacktrace, writes an error
// report file and dumps the session journal next to it so the crash can be
// reproduced with "paperfold replay".
//
// Usage: defer crash.Recover(sess)
func Recover(sess *sketch.Session) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, err := writeReport(sess, r, stack)
		if err != nil {
			l.Error("crash report failed", slog.Any("err", err))
		}
		if sess != nil {
			if path, err := writeJournal(reportPath, sess); err != nil {
				l.Error("journal dump failed", slog.Any("err", err))
			} else {
				l.Info("journal dump written", slog.String("path", path))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\n", version.String()); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		// Exit with a non-zero code to indicate failure in CLI context.
		exitFn(2)
	}
}

func writeReport(sess *sketch.Session, panicVal any, stack []byte) (string, error) {
	dir := reportDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", stamp))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Paperfold Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if sess != nil {
		st := sess.State()
		_, _ = fmt.Fprintf(&buf, "Shapes: %d\n", len(sess.Shapes()))
		_, _ = fmt.Fprintf(&buf, "Selection: %s (nearest=%t)\n", st.Phase(), st.HasNearest())
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))
	if sess != nil {
		_, _ = fmt.Fprintf(&buf, "\nJournal:\n%s", script.Format(sess.Journal()))
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	return path, nil
}

// writeJournal stores the journal beside the report as <report>.journal.
func writeJournal(reportPath string, sess *sketch.Session) (string, error) {
	path := strings.TrimSuffix(reportPath, filepath.Ext(reportPath)) + ".journal"
	if err := os.WriteFile(path, []byte(script.Format(sess.Journal())), 0o644); err != nil {
		return path, fmt.Errorf("write journal: %w", err)
	}
	return path, nil
}
