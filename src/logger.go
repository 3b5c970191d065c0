package src

// Logger is the subset of *zap.SugaredLogger the packages rely on.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
	Error(args ...any)
	Sync() error
}
