// Package logging decouples the ingestion pipeline from the concrete logging backend.
// Components receive a Logger and never talk to logrus directly.
package logging

// Logger is the structured logger used across the application.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a child logger carrying err.
	WithError(err error) Logger

	// WithField returns a child logger carrying a single field.
	WithField(key string, value interface{}) Logger

	// WithFields returns a child logger carrying all fields.
	WithFields(fields ...Field) Logger
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field)                 {}
func (nopLogger) Info(string, ...Field)                  {}
func (nopLogger) Warn(string, ...Field)                  {}
func (nopLogger) Error(string, ...Field)                 {}
func (n nopLogger) WithError(error) Logger               { return n }
func (n nopLogger) WithField(string, interface{}) Logger { return n }
func (n nopLogger) WithFields(...Field) Logger           { return n }
