// Package logging provides a structured logging system for empack, built on
// top of log/slog, with a CLI text-output mode and a buffered-channel mode
// intended for a future interactive front end.
//
// # Log Levels
//   - **Debug**: Detailed information for debugging and development
//   - **Info**: General informational messages about application operation
//   - **Warn**: Warning messages that indicate potential issues
//   - **Error**: Error messages for failures and exceptional conditions
//
// # CLI Mode
//
//	import "github.com/inherent-design/empack/pkg/logging"
//
//	logging.InitForCLI(logging.LevelInfo, os.Stdout)
//
//	logging.Info("Build", "starting target %s", target)
//	logging.Warn("State", "recovering incomplete transaction %s", id)
//	logging.Error("Build", err, "target %s failed", target)
//
// # Subsystem Organization
//
// Logs are organized by subsystem to enable filtering and categorization:
//
//   - **State**: filesystem discovery, transitions, crash recovery
//   - **Build**: build orchestrator target execution
//   - **AUDIT**: structured audit events for filesystem-mutating operations,
//     emitted via Audit and always carrying an [AUDIT] prefix
//
// # Integration with slog
//
// The logging system integrates with Go's standard slog package:
//   - Uses slog.Handler implementations for output formatting
//   - Converts LogLevel to slog.Level for compatibility
//   - Respects configured log level filtering at the handler
package logging
