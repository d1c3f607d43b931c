// Package runlog appends a timestamped record of a command run to a log
// file, using the same line format as the collection's custom_logging
// callback plugin so the two kinds of logs read alike.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	timeFormat       = "2006-01-02 15:04:05.000"
	fileSuffixFormat = "2006-01-02-15-04-05"
)

var separator = strings.Repeat("=", 150)

// Log is an open session log. It implements io.Writer so it can be attached
// to the console as a mirror; each written line gets a timestamp prefix.
type Log struct {
	file    *os.File
	path    string
	command string
	start   time.Time
	mu      sync.Mutex
	pending string
}

// Open creates <dir>/<command>-<timestamp>.log and writes the opening
// banner.
func Open(dir, command string) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	start := time.Now()
	name := fmt.Sprintf("%s-%s.log", command, start.Format(fileSuffixFormat))
	path := filepath.Join(dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	l := &Log{
		file:    file,
		path:    path,
		command: command,
		start:   start,
	}
	l.line(fmt.Sprintf("COMMAND [%s]", command))
	l.line(separator)
	return l, nil
}

// Path returns the log file's location.
func (l *Log) Path() string {
	return l.path
}

// Write appends console output to the log, prefixing every completed line
// with a timestamp. Partial lines are buffered until their newline arrives.
// The log must never fail the command it records, so write errors are
// swallowed here the same way Finish swallows them.
func (l *Log) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending += string(p)
	for {
		idx := strings.IndexByte(l.pending, '\n')
		if idx < 0 {
			break
		}
		line := l.pending[:idx]
		l.pending = l.pending[idx+1:]
		_ = l.writeLine(line)
	}
	return len(p), nil
}

// Finish writes the closing recap and closes the file. err is the command's
// outcome.
func (l *Log) Finish(err error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pending != "" {
		_ = l.writeLine(l.pending)
		l.pending = ""
	}

	end := time.Now()
	runtime := end.Sub(l.start)
	hours := int(runtime.Hours())
	minutes := int(runtime.Minutes()) % 60
	seconds := int(runtime.Seconds()) % 60

	_ = l.writeLine(separator)
	if err != nil {
		_ = l.writeLine(fmt.Sprintf("COMMAND [%s] => FAILED: %s", l.command, err))
	} else {
		_ = l.writeLine(fmt.Sprintf("COMMAND [%s] => OK", l.command))
	}
	_ = l.writeLine(fmt.Sprintf("Run took %d hours, %d minutes, %d seconds", hours, minutes, seconds))

	return l.file.Close()
}

func (l *Log) line(s string) {
	_ = l.writeLine(s)
}

func (l *Log) writeLine(s string) error {
	_, err := fmt.Fprintf(l.file, "%s | %s\n", time.Now().Format(timeFormat), s)
	return err
}
