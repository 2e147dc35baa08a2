package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	diagFileName   = "diagnostics_log.txt"
	scriptFileName = "script_log.txt"
	envLogPath     = "UITRANSCRIBER_LOG_PATH"
)

var (
	diagLog    zerolog.Logger
	diagFile   *os.File
	scriptFile *os.File
	logMu      sync.Mutex
	logReady   bool
	debug      bool
	pid        int
	dir        string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		return absolute(flagPath)
	}

	// Priority 2: environment
	if envPath := os.Getenv(envLogPath); envPath != "" {
		return absolute(envPath)
	}

	// Priority 3: OS-specific default
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

// SetDebug enables debug-level diagnostics. Call before Init.
func SetDebug(on bool) {
	debug = on
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

	diagFile, err = os.OpenFile(filepath.Join(dir, diagFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	scriptFile, err = os.OpenFile(filepath.Join(dir, scriptFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).Level(level).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if scriptFile != nil {
		scriptFile.Close()
		scriptFile = nil
	}
	logReady = false
}

func Debug(msg string) {
	if logReady {
		diagLog.Debug().Msg(msg)
	}
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// ScriptLine appends one emitted script line to script_log.txt.
func ScriptLine(line string) {
	logMu.Lock()
	defer logMu.Unlock()
	if !logReady || scriptFile == nil {
		return
	}
	line = strings.TrimRight(line, "\n")
	fmt.Fprintf(scriptFile, "%s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, line)
}

func SessionStart(id, interpreter string, flushOnStop, repeatAll bool) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("session", id).
		Str("interpreter", interpreter).
		Bool("flush_on_stop", flushOnStop).
		Bool("repeat_all_special", repeatAll).
		Msg("session_start")
}

func SessionEnd(id string, lines int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("session", id).
		Int("lines", lines).
		Msg("session_end")
}

func Saved(path string, bytes int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("path", path).
		Int("bytes", bytes).
		Msg("script_saved")
}
