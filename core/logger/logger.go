package logger

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	infoPrefix    = color.New(color.FgBlue).Sprint("[INFO] ")
	warnPrefix    = color.New(color.FgYellow).Sprint("[WARN] ")
	errorPrefix   = color.New(color.FgRed).Sprint("[ERROR] ")
	successPrefix = color.New(color.FgGreen).Sprint("[SUCCESS] ")
)

// writer is shared by every Logger so a single SetOutput call silences all packages.
var writer = &switchWriter{w: os.Stdout}

type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// SetOutput redirects every logger created by NewLogger.
func SetOutput(w io.Writer) {
	writer.mu.Lock()
	defer writer.mu.Unlock()
	writer.w = w
}

type Logger struct {
	mu     sync.Mutex
	logger *log.Logger
}

func NewLogger() *Logger {
	return &Logger{
		logger: log.New(writer, "", log.LstdFlags),
	}
}

func (l *Logger) println(prefix string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetPrefix(prefix)
	l.logger.Println(v...)
}

func (l *Logger) printf(prefix, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetPrefix(prefix)
	l.logger.Printf(format, v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.println(infoPrefix, v...)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.printf(infoPrefix, format, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.println(warnPrefix, v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.printf(warnPrefix, format, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.println(errorPrefix, v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.printf(errorPrefix, format, v...)
}

func (l *Logger) Success(v ...interface{}) {
	l.println(successPrefix, v...)
}

func (l *Logger) Successf(format string, v ...interface{}) {
	l.printf(successPrefix, format, v...)
}
