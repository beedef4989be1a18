// Package logger builds the zerolog loggers used across wordbook. Every
// component takes a zerolog.Logger by value; this package only decides where
// the output goes and how verbose it is.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

// LogBuild accumulates output options before Make constructs the logger.
type LogBuild struct {
	writer  io.Writer
	path    string
	console bool
	level   zerolog.Level
}

// LogData holds the constructed logger and the file it may be writing to.
// The caller owns LogFile and closes it when the program shuts down.
type LogData struct {
	writer  io.Writer
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *LogBuild {
	return &LogBuild{level: zerolog.InfoLevel}
}

// FromPath appends structured output to the file at path, creating it when
// missing.
func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

// FromBuffer writes output to w. Tests pass a bytes.Buffer here.
func (build *LogBuild) FromBuffer(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// Console renders human-readable output instead of JSON lines. Meant for the
// interactive CLI; file output stays structured.
func (build *LogBuild) Console() *LogBuild {
	build.console = true
	return build
}

// Level sets the minimum level the logger emits.
func (build *LogBuild) Level(level zerolog.Level) *LogBuild {
	build.level = level
	return build
}

func (build *LogBuild) Make() (logData *LogData, err error) {
	logData = new(LogData)
	logData.writer = os.Stderr
	if build.writer != nil {
		logData.writer = build.writer
	}
	if build.path != "" {
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		logData.writer = zerolog.SyncWriter(logData.LogFile)
	}
	if build.console {
		logData.writer = zerolog.ConsoleWriter{Out: logData.writer}
	}
	logData.Logger = zerolog.New(logData.writer).Level(build.level).With().Timestamp().Logger()
	return
}
