// Package log is the small named-logger wrapper used across letterpress.
//
// Each component asks for its own logger once and keeps it:
//
//	var logger = log.ForService("client")
//
//	logger.Infof("POST %s", path)
//	logger.Debugf("form: %s", values.Encode()) // only with --debug or EnableDebugFor("client")
//
// Lines are written through the standard library logger with a "[name>]"
// prefix after the level. SetOutput swaps the destination of every logger,
// which is what the tests use to capture output in a bytes.Buffer.
//
// The package name collides with the standard library on purpose; alias one
// of them when both are needed.
package log
