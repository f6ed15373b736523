package utils

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogWriter trả về writer ghi log ra file logs/app.log có xoay vòng.
// dir rỗng thì chỉ ghi ra stdout.
func NewLogWriter(dir string) io.Writer {
	if dir == "" {
		return os.Stdout
	}

	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "app.log"),
		MaxSize:    50, // MB
		MaxBackups: 7,
		MaxAge:     30, // ngày
		Compress:   true,
	}
	return io.MultiWriter(os.Stdout, rotating)
}
