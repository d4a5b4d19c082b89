// Package logging provides structured logging using uber/zap.
//
// The CLI builds one root logger; isolates get its Engine child and tag
// every line with their isolate and context IDs:
//
//	logger, err := logging.New(logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development, dev))
//	iso, err := v8.NewIsolate(v8.CreateParams{Logger: logger.Engine()})
//
// Output goes to stderr as JSON, or as coloured console lines in
// development mode.
package logging
