package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	logDir      = "logs"
	logFileName = "termsink.log"
	maxLogSize  = 10 * 1024 * 1024 // Rotate above 10MB
)

// setupLogging routes the standard logger to logs/termsink.log when debug is set
// Otherwise all log output is discarded; stdout and stderr belong to the terminal
// Returns the open log file, nil when logging is disabled or unavailable
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("termsink-%s.log", time.Now().Format("20060102-150405")))
		os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("termsink: logging started (pid %d)", os.Getpid())
	return f
}

// logger returns the process logger configured by setupLogging
func logger() *log.Logger {
	return log.Default()
}
