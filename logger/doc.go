// Package logger provides structured logging for studyhub using zerolog.
//
// It supports console and JSON output, level configuration, and
// component-scoped loggers with structured fields. Access tokens must never
// be passed as fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg.Logging, "studyhub").WithComponent("client")
//	log.Info("request completed", logger.Fields(logger.FieldStatus, 200))
package logger
