package log

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })
	return tmp
}

func readDiag(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "diagnostics_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/mylog")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/mylog" {
		t.Errorf("got %q, want /tmp/mylog", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(wd, "logs")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv("VOXHUD_LOG_PATH", "/tmp/voxhud-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/voxhud-env-log" {
		t.Errorf("got %q, want /tmp/voxhud-env-log", got)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv("VOXHUD_LOG_PATH", "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "voxhud") {
		t.Errorf("expected default directory under voxhud, got %q", got)
	}
}

func TestInitCreatesFiles(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"diagnostics_log.txt", "amplitude_log.txt"} {
		path := filepath.Join(tmp, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func TestDroppedBeforeInit(t *testing.T) {
	tmp := setupLogDir(t)

	Info("too early")
	RecordingStart()

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Info("ready")

	got := readDiag(t, tmp)
	if strings.Contains(got, "too early") || strings.Contains(got, "recording_start") {
		t.Errorf("pre-Init lines were written: %q", got)
	}
	if !strings.Contains(got, "ready") {
		t.Errorf("missing post-Init line: %q", got)
	}
}

func TestEvents(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	SessionStart("tui", 12, 30)
	RecordingStop(1500 * time.Millisecond)
	Frames(FrameStats{Frames: 10, Rendered: 9, Skipped: 1})

	got := readDiag(t, tmp)
	for _, want := range []string{"session_start", "host=tui", "recording_stop", "duration_s=1.5", "frame_stats", "skipped=1"} {
		if !strings.Contains(got, want) {
			t.Errorf("diagnostics_log.txt missing %q, got: %q", want, got)
		}
	}
}

func TestDebugNeedsLevel(t *testing.T) {
	tmp := setupLogDir(t)
	t.Cleanup(func() { SetLevel("info") })

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	FrameSkipped(3, errors.New("gone"))
	Close()

	if err := SetLevel("debug"); err != nil {
		t.Fatal(err)
	}
	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Visibility("visible", "fading_out")

	got := readDiag(t, tmp)
	if strings.Contains(got, "frame_skipped") {
		t.Errorf("debug line written at info level: %q", got)
	}
	if !strings.Contains(got, "to=fading_out") {
		t.Errorf("missing debug line: %q", got)
	}
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	if err := SetLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestAmplitude(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	Amplitude(7, 0.8, 0.25)

	data, err := os.ReadFile(filepath.Join(tmp, "amplitude_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, "\t7\t0.8000\t0.2500\n") {
		t.Errorf("unexpected amplitude line: %q", line)
	}
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Close()
	Close() // should not panic
}
