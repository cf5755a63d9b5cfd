package logger

import (
	"io"
	"log"
)

type Logger interface {
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

type stdLogger struct {
	l *log.Logger
}

func New() Logger { return &stdLogger{l: log.Default()} }

// NewWriter logs to w instead of the standard logger.
func NewWriter(w io.Writer) Logger { return &stdLogger{l: log.New(w, "", 0)} }

func (s *stdLogger) Infof(format string, v ...any)  { s.l.Printf("[INFO] "+format, v...) }
func (s *stdLogger) Errorf(format string, v ...any) { s.l.Printf("[ERROR] "+format, v...) }

type discard struct{}

func Discard() Logger { return discard{} }

func (discard) Infof(string, ...any)  {}
func (discard) Errorf(string, ...any) {}
