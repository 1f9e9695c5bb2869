// Package logger provides a small factory for configured slog.Logger
// instances used across the state runtime: the telemetry slog sink and the
// validation error policy's "log" mode both write through loggers built here.
//
// Defaults favor production (JSON handler, INFO level, stdout); options switch
// to text output, adjust the level, redirect output, or attach static
// attributes.
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatText),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithAttr(slog.String("service", "statekit")),
//	)
package logger
