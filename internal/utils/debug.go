package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/surge-downloader/fastdl/internal/config"
)

var (
	debugMu   sync.Mutex
	debugOnce sync.Once
	debugFile *os.File
	debugDir  = config.GetLogsDir()
)

// ConfigureDebug overrides the directory Debug writes its log file
// into and CleanupLogs sweeps. Has no effect on an already-open log
// file, since Debug opens its file once per process.
func ConfigureDebug(dir string) {
	debugMu.Lock()
	defer debugMu.Unlock()
	debugDir = dir
}

func openDebugFile() {
	if err := os.MkdirAll(debugDir, 0o755); err != nil {
		return
	}
	name := fmt.Sprintf("debug-%s.log", time.Now().Format("20060102-150405"))
	f, err := os.OpenFile(filepath.Join(debugDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	debugFile = f
}

// Debug appends a timestamped, printf-formatted line to the process's
// debug log file, opening it lazily on first use. Failures to open or
// write the log are swallowed — debug logging must never be the thing
// that breaks a download.
func Debug(format string, args ...interface{}) {
	debugMu.Lock()
	defer debugMu.Unlock()
	debugOnce.Do(openDebugFile)
	if debugFile == nil {
		return
	}
	line := fmt.Sprintf("[%s] %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
	_, _ = debugFile.WriteString(line)
}

// CleanupLogs keeps only the newest `keep` debug log files in the
// configured logs directory, relying on the debug-YYYYMMDD-HHMMSS.log
// name format sorting chronologically.
func CleanupLogs(keep int) {
	debugMu.Lock()
	dir := debugDir
	debugMu.Unlock()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	var logs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "debug-") && strings.HasSuffix(e.Name(), ".log") {
			logs = append(logs, e.Name())
		}
	}
	if len(logs) <= keep {
		return
	}
	sort.Strings(logs)
	for _, name := range logs[:len(logs)-keep] {
		_ = os.Remove(filepath.Join(dir, name))
	}
}
