package transport

import (
	"fmt"

	"github.com/pion/logging"

	"github.com/1ureka/roswebrtc/internal/util"
)

// loggerFactory hands pion a LeveledLogger backed by the pterm logger.
// pion's info level is chatty, so it is demoted to debug.
type loggerFactory struct{}

func (loggerFactory) NewLogger(scope string) logging.LeveledLogger {
	return scopedLogger{scope: scope}
}

type scopedLogger struct {
	scope string
}

var _ logging.LeveledLogger = scopedLogger{}

func (l scopedLogger) prefix(msg string) string { return "[pion/" + l.scope + "] " + msg }

func (l scopedLogger) Trace(msg string) { util.LogTrace("%s", l.prefix(msg)) }
func (l scopedLogger) Debug(msg string) { util.LogDebug("%s", l.prefix(msg)) }
func (l scopedLogger) Info(msg string)  { util.LogDebug("%s", l.prefix(msg)) }
func (l scopedLogger) Warn(msg string)  { util.LogWarning("%s", l.prefix(msg)) }
func (l scopedLogger) Error(msg string) { util.LogError("%s", l.prefix(msg)) }

func (l scopedLogger) Tracef(format string, args ...interface{}) {
	if util.DebugEnabled() {
		l.Trace(fmt.Sprintf(format, args...))
	}
}

func (l scopedLogger) Debugf(format string, args ...interface{}) {
	if util.DebugEnabled() {
		l.Debug(fmt.Sprintf(format, args...))
	}
}

func (l scopedLogger) Infof(format string, args ...interface{}) {
	if util.DebugEnabled() {
		l.Info(fmt.Sprintf(format, args...))
	}
}

func (l scopedLogger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

func (l scopedLogger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
