package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog   zerolog.Logger
	diagFile  *os.File
	traceFile *os.File
	logMu     sync.Mutex
	logReady  atomic.Bool
	pid       int
	dir       string
	level     = zerolog.InfoLevel
)

// FrameStats summarizes one visible session.
type FrameStats struct {
	Frames   uint64
	Rendered uint64
	Skipped  uint64
	Visible  time.Duration
}

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: --logpath flag
	if flagPath != "" {
		return absolute(flagPath)
	}

	// Priority 2: VOXHUD_LOG_PATH environment variable
	if envPath := os.Getenv("VOXHUD_LOG_PATH"); envPath != "" {
		return absolute(envPath)
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func absolute(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

// SetLevel accepts zerolog level names ("debug", "info", ...). It applies to
// the next Init.
func SetLevel(name string) error {
	l, err := zerolog.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	level = l
	return nil
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	tracePath := filepath.Join(dir, "amplitude_log.txt")
	traceFile, err = os.OpenFile(tracePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).Level(level).With().Timestamp().Int("pid", pid).Logger()

	logReady.Store(true)
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	logReady.Store(false)
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if traceFile != nil {
		traceFile.Close()
		traceFile = nil
	}
}

func Debug(msg string) {
	if logReady.Load() {
		diagLog.Debug().Msg(msg)
	}
}

func Info(msg string) {
	if logReady.Load() {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	if logReady.Load() {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady.Load() {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady.Load() {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady.Load() {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func SessionStart(host string, bars int, fps int) {
	if !logReady.Load() {
		return
	}
	diagLog.Info().
		Str("host", host).
		Int("bars", bars).
		Int("fps", fps).
		Msg("session_start")
}

func SessionEnd(recordings int) {
	if !logReady.Load() {
		return
	}
	diagLog.Info().
		Int("recordings", recordings).
		Msg("session_end")
}

func RecordingStart() {
	if logReady.Load() {
		diagLog.Info().Msg("recording_start")
	}
}

func RecordingStop(duration time.Duration) {
	if !logReady.Load() {
		return
	}
	diagLog.Info().
		Float64("duration_s", duration.Seconds()).
		Msg("recording_stop")
}

func Visibility(from, to string) {
	if !logReady.Load() {
		return
	}
	diagLog.Debug().
		Str("from", from).
		Str("to", to).
		Msg("visibility")
}

func FrameSkipped(frame uint64, err error) {
	if !logReady.Load() {
		return
	}
	diagLog.Debug().
		Uint64("frame", frame).
		Err(err).
		Msg("frame_skipped")
}

func Frames(s FrameStats) {
	if !logReady.Load() {
		return
	}
	diagLog.Info().
		Uint64("frames", s.Frames).
		Uint64("rendered", s.Rendered).
		Uint64("skipped", s.Skipped).
		Float64("visible_s", s.Visible.Seconds()).
		Msg("frame_stats")
}

// Amplitude appends one tab-separated line to amplitude_log.txt.
func Amplitude(frame uint64, target, current float64) {
	if !logReady.Load() {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	if traceFile == nil {
		return
	}
	line := fmt.Sprintf("%s\t[%d]\t%d\t%.4f\t%.4f\n", time.Now().Format("15:04:05.000"), pid, frame, target, current)
	traceFile.WriteString(line)
}
