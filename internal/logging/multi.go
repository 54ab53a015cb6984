package logging

// NewNop returns a no-op logger that discards all output.
func NewNop() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string, keyvals ...interface{}) {}
func (n *nopLogger) Info(msg string, keyvals ...interface{})  {}
func (n *nopLogger) Warn(msg string, keyvals ...interface{})  {}
func (n *nopLogger) Error(msg string, keyvals ...interface{}) {}
func (n *nopLogger) WithPrefix(prefix string) Logger          { return n }
func (n *nopLogger) WithFields(keyvals ...interface{}) Logger { return n }
func (n *nopLogger) SetLevel(level Level)                     {}
func (n *nopLogger) GetLevel() Level                          { return LevelInfo }

// NewMultiLogger creates a logger that fans every message out to loggers,
// each filtering at its own level. Typically the console plus a log file.
func NewMultiLogger(loggers ...Logger) Logger {
	return &multiLogger{loggers: loggers}
}

type multiLogger struct {
	loggers []Logger
}

func (m *multiLogger) Debug(msg string, keyvals ...interface{}) {
	for _, l := range m.loggers {
		l.Debug(msg, keyvals...)
	}
}

func (m *multiLogger) Info(msg string, keyvals ...interface{}) {
	for _, l := range m.loggers {
		l.Info(msg, keyvals...)
	}
}

func (m *multiLogger) Warn(msg string, keyvals ...interface{}) {
	for _, l := range m.loggers {
		l.Warn(msg, keyvals...)
	}
}

func (m *multiLogger) Error(msg string, keyvals ...interface{}) {
	for _, l := range m.loggers {
		l.Error(msg, keyvals...)
	}
}

func (m *multiLogger) WithPrefix(prefix string) Logger {
	out := make([]Logger, len(m.loggers))
	for i, l := range m.loggers {
		out[i] = l.WithPrefix(prefix)
	}
	return &multiLogger{loggers: out}
}

func (m *multiLogger) WithFields(keyvals ...interface{}) Logger {
	out := make([]Logger, len(m.loggers))
	for i, l := range m.loggers {
		out[i] = l.WithFields(keyvals...)
	}
	return &multiLogger{loggers: out}
}

// SetLevel changes the level of every wrapped logger.
func (m *multiLogger) SetLevel(level Level) {
	for _, l := range m.loggers {
		l.SetLevel(level)
	}
}

// GetLevel reports the most verbose level among the wrapped loggers.
func (m *multiLogger) GetLevel() Level {
	if len(m.loggers) == 0 {
		return LevelInfo
	}
	lowest := m.loggers[0].GetLevel()
	for _, l := range m.loggers[1:] {
		if lv := l.GetLevel(); lv < lowest {
			lowest = lv
		}
	}
	return lowest
}
