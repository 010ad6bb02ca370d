package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	RotateMaxSize    = 30 // MB
	RotateMaxAge     = 365
	RotateMaxBackups = 10
	RotateCompress   = true
)

var (
	logger *logrus.Logger
	once   sync.Once
)

// Config holds logger configuration.
type Config struct {
	File    string
	Level   logrus.Level
	Console bool
}

// Get returns a console-only logger at the given level.
func Get(level logrus.Level) *logrus.Logger {
	return GetWithConfig(Config{
		File:    "",
		Level:   level,
		Console: true,
	})
}

// GetWithConfig returns the process-wide logger, creating it on first use.
// When a file is configured the output is rotated with lumberjack.
func GetWithConfig(config Config) *logrus.Logger {
	once.Do(func() {
		log := logrus.New()
		log.Level = config.Level
		log.Formatter = &logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
		}

		switch {
		case config.File == "":
			log.Out = os.Stdout
		case config.Console:
			log.Out = io.MultiWriter(os.Stdout, rotating(config.File))
		default:
			log.Out = rotating(config.File)
		}

		logger = log
	})
	return logger
}

func rotating(filename string) io.Writer {
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    RotateMaxSize,
		MaxAge:     RotateMaxAge,
		MaxBackups: RotateMaxBackups,
		LocalTime:  true,
		Compress:   RotateCompress,
	}
}
