// Package testutil holds the doubles shared by package tests.
package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/trezcool/mahudhurio/core"
)

// Config returns the configuration used by tests, independent from the environment.
func Config() *core.Config {
	return &core.Config{
		Env:       "TEST",
		Build:     "test",
		TestMode:  true,
		AppName:   "Mahudhurio",
		SecretKey: "test-secret",
		FromEmail: "Mahudhurio <noreply@localhost>",
		Server: core.ServerConfig{
			Address:            ":0",
			Host:               "localhost",
			JWTExpirationDelta: time.Hour,
			ShutdownTimeout:    time.Second,
		},
		Attendance: core.AttendanceConfig{OrphanPolicy: "warn", SeedDays: 14, Seed: 42},
	}
}

type Entry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger records every event it is given.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.log("fatal", msg, args)
	panic(fmt.Sprintf("fatal: %s", msg))
}

// Entries returns the recorded events of the level, all of them when level is empty.
func (l *Logger) Entries(level string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	found := make([]Entry, 0)
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			found = append(found, e)
		}
	}
	return found
}
