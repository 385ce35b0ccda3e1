package core

// Logger interface for raytracer logging. Printf carries render progress,
// Debugf carries per-worker detail.
type Logger interface {
	Printf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}
