package log

// Kv is a helper type for structured logging fields.
type Kv map[string]interface{}

// Logger is the interface that the loggers used by the library will use.
type Logger interface {
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	WithValues(values Kv) Logger
}

// Dummy logger doesn't log anything.
var Dummy = &dummy{}

type dummy struct{}

func (d *dummy) Infof(format string, args ...interface{})    {}
func (d *dummy) Warningf(format string, args ...interface{}) {}
func (d *dummy) Errorf(format string, args ...interface{})   {}
func (d *dummy) Debugf(format string, args ...interface{})   {}
func (d *dummy) WithValues(Kv) Logger                        { return d }
