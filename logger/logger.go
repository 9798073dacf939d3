// Package logger declares the minimal logging interface chm and its
// ambient packages depend on, so that none of them need to import a
// concrete logging library directly.
package logger

// Logger is an interface to pass a generic logger without depending on
// a specific logging library such as aristanetworks/glog.
type Logger interface {
	// Info logs at the info level
	Info(args ...interface{})
	// Infof logs at the info level, with format
	Infof(format string, args ...interface{})
	// Error logs at the error level
	Error(args ...interface{})
	// Errorf logs at the error level, with format
	Errorf(format string, args ...interface{})
	// Fatal logs at the fatal level
	Fatal(args ...interface{})
	// Fatalf logs at the fatal level, with format
	Fatalf(format string, args ...interface{})
}
