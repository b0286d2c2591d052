package log

import (
	"sync"
)

var (
	globalLogger *Logger
	loggerMu     sync.RWMutex
)

// SetGlobal sets the process-wide default logger.
func SetGlobal(logger *Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	globalLogger = logger
}

// Global returns the process-wide default logger.
// If none was configured, it falls back to a basic logger.
func Global() *Logger {
	loggerMu.RLock()
	if globalLogger != nil {
		defer loggerMu.RUnlock()
		return globalLogger
	}
	loggerMu.RUnlock()

	logger := Default()
	SetGlobal(logger)
	return logger
}
