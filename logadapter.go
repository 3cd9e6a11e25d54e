package goasync

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// LogifaceLogger adapts goasync's Logger seam to a logiface.Logger, so
// lifecycle events can flow into any logiface-compatible backend instead of
// goasync's own WriterLogger. stumpy (a real dependency also used
// elsewhere in the example pack) provides the default concrete Event
// implementation.
type LogifaceLogger struct {
	inner *logiface.Logger[*stumpy.Event]
}

// NewStumpyLogger builds a LogifaceLogger backed by stumpy's JSON writer,
// enabled at level and above.
func NewStumpyLogger(level Level, opts ...stumpy.Option) *LogifaceLogger {
	return &LogifaceLogger{inner: stumpy.L.New(
		stumpy.L.WithStumpy(opts...),
		logiface.WithLevel[*stumpy.Event](levelToLogiface(level)),
	)}
}

func (l *LogifaceLogger) Enabled(level Level) bool {
	return l.inner.Level() >= levelToLogiface(level)
}

func (l *LogifaceLogger) Log(e Entry) {
	b := l.inner.Build(levelToLogiface(e.Level))
	for k, v := range e.Fields {
		b = b.Any(k, v)
	}
	b.Log(e.Message)
}

func levelToLogiface(level Level) logiface.Level {
	switch level {
	case LevelDebug:
		return logiface.LevelDebug
	case LevelInfo:
		return logiface.LevelInformational
	case LevelWarn:
		return logiface.LevelWarning
	case LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}
