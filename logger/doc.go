// Package logger provides structured logging over zerolog.
//
// Loggers are scoped per component and take their fields as plain maps so
// call sites never import zerolog directly:
//
//	log := logger.Get("picker")
//	log.Info("picker created", map[string]interface{}{"context": "page"})
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
package logger
