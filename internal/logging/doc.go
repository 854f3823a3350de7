// Package logging provides structured logging for finboard.
//
// It wraps Go's log/slog to write JSON-formatted logs, with child loggers
// that carry persistent context such as the start-up run, the step being
// executed, or the security symbol being analyzed.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(cfg.Logging.Dir, "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	stepLogger := logger.WithComponent("startup").WithStep("cache")
//	stepLogger.Info("step completed", "duration_ms", 150)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"step completed","component":"startup","step_id":"cache","duration_ms":150}
//
// # Log Rotation
//
// [NewLoggerWithRotation] writes through a [RotatingWriter], which renames
// finboard.log to finboard.log.1, finboard.log.2, ... once it exceeds the
// configured size, optionally gzip-compressing the backups.
//
// # Testing
//
// Use [NopLogger] to discard all output.
package logging
