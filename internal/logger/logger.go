// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logger provides the process-wide structured logger. Output goes
// to a file, never to the terminal: the TUI owns stdout and stderr.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// Init opens the log file and installs the global logger. levelStr is one
// of debug, info, warn, error; anything else falls back to info.
func Init(levelStr, path string) error {
	level := zapcore.InfoLevel
	if err := level.Set(levelStr); err != nil {
		level = zapcore.InfoLevel
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(f),
		level,
	)

	mu.Lock()
	global = zap.New(core)
	mu.Unlock()
	return nil
}

// L returns the global logger. Safe to call before Init; logs are dropped
// until a real logger is installed.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	mu.RLock()
	l := global
	mu.RUnlock()
	_ = l.Sync()
}
