// Package logger constructs the zap loggers used across the module. All
// components accept a *zap.Logger and default to the no-op logger when none
// is given; this package only covers the case where output is wanted.
//
// Usage:
//
//	log := logger.New(os.Stderr)
//	store := kv.NewAdapter(conn, &kv.Options{Logger: log})
package logger
