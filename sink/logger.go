// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sink

import (
	"time"

	"github.com/gogama/resilient"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// A Logger is a sink which writes a structured log entry for every
// event.
//
// Successful attempts are logged at debug level, retryable failures
// and waits at warn and info level, and the final failure of a call at
// error level.
type Logger struct {
	// Log receives the entries. If Log is nil, nothing is logged.
	Log *zap.Logger
	// Verbose adds the call detail, such as the query text or request
	// plan, to every entry.
	Verbose bool
}

// NewLogger returns a Logger writing to l.
func NewLogger(l *zap.Logger) *Logger {
	return &Logger{Log: l}
}

// AttemptSucceeded logs a successful attempt.
func (l *Logger) AttemptSucceeded(e *resilient.Execution, o resilient.Outcome) {
	l.log(zapcore.DebugLevel, "attempt succeeded", e,
		zap.Int("attempt", o.Attempt),
		zap.Duration("duration", o.Duration),
	)
}

// AttemptFailed logs a failed attempt.
func (l *Logger) AttemptFailed(e *resilient.Execution, o resilient.Outcome) {
	lvl := zapcore.WarnLevel
	msg := "attempt failed"
	if o.Disposition == resilient.Final {
		lvl = zapcore.ErrorLevel
		msg = "call failed"
	}

	l.log(lvl, msg, e,
		zap.Int("attempt", o.Attempt),
		zap.Duration("duration", o.Duration),
		zap.Stringer("kind", o.Kind),
		zap.Stringer("disposition", o.Disposition),
		zap.Duration("timeout_increment", e.TimeoutIncrement),
		zap.Error(o.Err),
	)
}

// RetrySucceeded logs a call which succeeded after retrying.
func (l *Logger) RetrySucceeded(e *resilient.Execution) {
	l.log(zapcore.InfoLevel, "retry succeeded", e,
		zap.Int("attempts", e.Attempt+1),
		zap.Int("timeouts", e.Timeouts),
		zap.Duration("duration", e.Duration()),
	)
}

// Waiting logs a backoff wait.
func (l *Logger) Waiting(e *resilient.Execution, d time.Duration) {
	l.log(zapcore.InfoLevel, "waiting before retry", e,
		zap.Int("attempt", e.Attempt),
		zap.Duration("wait", d),
	)
}

// WaitCanceled logs a call whose context ended during a backoff wait.
func (l *Logger) WaitCanceled(e *resilient.Execution, err error) {
	o := e.Last()
	l.log(zapcore.ErrorLevel, "call failed", e,
		zap.Int("attempt", o.Attempt),
		zap.Stringer("kind", o.Kind),
		zap.Duration("timeout_increment", e.TimeoutIncrement),
		zap.NamedError("cause", o.Err),
		zap.Error(err),
	)
}

func (l *Logger) log(lvl zapcore.Level, msg string, e *resilient.Execution, fields ...zap.Field) {
	if l.Log == nil {
		return
	}

	ce := l.Log.Check(lvl, msg)
	if ce == nil {
		return
	}

	fields = append(fields,
		zap.String("call_id", e.ID.String()),
		zap.String("name", e.Name),
	)
	if l.Verbose && e.Detail != nil {
		fields = append(fields, zap.Any("detail", e.Detail))
	}

	ce.Write(fields...)
}
