package crash

import (
	"os"
	"strings"
	"testing"

	"paperfold/internal/sketch"
	"paperfold/internal/vector"
)

func useTempReportDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := reportDir
	reportDir = func() string { return dir }
	t.Cleanup(func() { reportDir = old })
	return dir
}

func TestWriteReportWithoutSession(t *testing.T) {
	useTempReportDir(t)
	path, err := writeReport(nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "Paperfold Crash Report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
	if strings.Contains(s, "Journal:") {
		t.Fatalf("journal section without a session: %s", s)
	}
}

func TestWriteReportIncludesJournal(t *testing.T) {
	dir := useTempReportDir(t)
	sess := sketch.New(sketch.DefaultOptions(), nil)
	sess.Move(vector.P(12, 300))
	sess.Click()

	path, err := writeReport(sess, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if !strings.HasPrefix(path, dir) {
		t.Fatalf("expected crash report under %s, got %s", dir, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	for _, want := range []string{"Shapes: 1", "Selection: anchor-set", "move 12 300", "click"} {
		if !strings.Contains(s, want) {
			t.Fatalf("report missing %q: %s", want, s)
		}
	}
}
