// Package logger builds the application's zap logger.
//
// "debug" selects zap's development preset (ISO8601 timestamps, debug level);
// any other level selects the production preset at that level. Format is json
// or console. Unknown levels and formats are rejected at startup.
//
// HTTP handlers log through WithRayID, which tags entries with the ray id the
// rayid middleware stored on the request.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Matching run started", zap.String("policy", "esg"))
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Matching run failed", zap.Error(err))
package logger
