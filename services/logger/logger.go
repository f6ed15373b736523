package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Level định nghĩa các mức độ log
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	ErrorLevel
)

// ParseLevel chuyển chuỗi cấu hình thành Level, mặc định InfoLevel
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger interface định nghĩa các phương thức logging
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// DefaultLogger implement Logger interface trên nền zerolog
type DefaultLogger struct {
	zl zerolog.Logger
}

// NewDefaultLogger tạo logger ghi ra stdout
func NewDefaultLogger(level Level) *DefaultLogger {
	return NewLogger(level, os.Stdout)
}

// NewLogger tạo logger ghi ra w
func NewLogger(level Level, w io.Writer) *DefaultLogger {
	zl := zerolog.New(w).Level(level.zerolog()).With().Timestamp().Logger()
	return &DefaultLogger{zl: zl}
}

// Zerolog trả về zerolog.Logger bên dưới, dùng cho log có cấu trúc
func (l *DefaultLogger) Zerolog() *zerolog.Logger {
	return &l.zl
}

// Info log thông tin
func (l *DefaultLogger) Info(format string, v ...interface{}) {
	l.zl.Info().Msg(fmt.Sprintf(format, v...))
}

// Error log lỗi
func (l *DefaultLogger) Error(format string, v ...interface{}) {
	l.zl.Error().Msg(fmt.Sprintf(format, v...))
}

// Debug log debug
func (l *DefaultLogger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msg(fmt.Sprintf(format, v...))
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}

// Nop logger bỏ qua mọi log
func Nop() Logger {
	return nopLogger{}
}
