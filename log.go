package binlog

import "github.com/sirupsen/logrus"

// fieldLogger is the subset of *logrus.Logger / *logrus.Entry this
// package depends on, so a Decoder can be constructed with any
// logrus-compatible logger (or a *logrus.Entry already carrying
// connection-scoped fields) for testability.
type fieldLogger interface {
	WithField(key string, value interface{}) *logrus.Entry
	Debug(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
}

// L is the package-level logger, following
// zhukovaskychina-xmysql-server/logger's single-global-instance
// convention. Decode-time recoverable conditions (ignorable unknown
// event, enrichment failure) log at Warn; connection faults log at
// Error before being returned to the caller — logging is for
// operators, the error return is for the caller.
var L = logrus.StandardLogger()

// packageLogger adapts the standard *logrus.Logger to fieldLogger;
// components that accept an injected logger default to this when none
// is supplied.
var packageLogger fieldLogger = L

// SetLogger replaces the package-level logger, e.g. to attach a
// JSON formatter or route output to a file.
func SetLogger(l *logrus.Logger) {
	L = l
	packageLogger = l
}
