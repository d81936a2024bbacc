package invoker

import (
	"strings"
	"sync"

	"textcleaner/internal/logger"
)

// lineLogger forwards a child's output to the debug log one line at a time.
type lineLogger struct {
	logger logger.Logger
	tool   string
	mu     sync.Mutex
	buf    strings.Builder
}

func (l *lineLogger) Write(p []byte) (n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf.Write(p)
	for {
		line, rest, found := strings.Cut(l.buf.String(), "\n")
		if !found {
			break
		}
		l.buf.Reset()
		l.buf.WriteString(rest)
		l.emit(line)
	}
	return len(p), nil
}

// Flush logs whatever is left after the process exits.
func (l *lineLogger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.emit(l.buf.String())
	l.buf.Reset()
}

func (l *lineLogger) emit(line string) {
	if line = strings.TrimSpace(line); line != "" {
		l.logger.Debug(component, "tool output", map[string]interface{}{
			"tool":    l.tool,
			"message": line,
		})
	}
}
